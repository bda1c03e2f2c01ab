package analysis

import (
	"fmt"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/safeio"
)

// FileReader supplies source text for the files named by diagnostics.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// RepoReader reads files relative to a repository root and refuses
// paths that escape it.
type RepoReader struct {
	Root string
}

func (r RepoReader) ReadFile(path string) (string, error) {
	data, err := safeio.ReadFileUnder(r.Root, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// fileCache memoizes reads for the duration of one run so a file
// referenced by many diagnostics is read once. Unreadable files are
// remembered as empty text with a warning, which degrades those
// symbols to line-only analysis instead of failing the run.
type fileCache struct {
	reader   FileReader
	contents map[string]string
	warnings []string
	failed   map[string]bool
}

func newFileCache(reader FileReader) *fileCache {
	return &fileCache{
		reader:   reader,
		contents: make(map[string]string),
		failed:   make(map[string]bool),
	}
}

func (c *fileCache) text(path string) string {
	if text, ok := c.contents[path]; ok {
		return text
	}
	text, err := c.reader.ReadFile(path)
	if err != nil {
		if !c.failed[path] {
			c.failed[path] = true
			c.warnings = append(c.warnings, fmt.Sprintf("could not read %s: %v", path, err))
		}
		text = ""
	}
	c.contents[path] = text
	return text
}
