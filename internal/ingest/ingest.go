package ingest

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Diagnostic is one compiler finding as reported in a diagnostic log.
type Diagnostic struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ParseResult struct {
	Diagnostics  []Diagnostic
	SkippedLines int
}

// Matches the tsc console shape: src/foo.ts(12,7): error TS6133: '...' is declared but its value is never read.
var diagnosticLinePattern = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\):\s+(?:error|warning)\s+([A-Z]+\d+):\s+(.+)$`)

func ParseLog(r io.Reader) (ParseResult, error) {
	result := ParseResult{Diagnostics: make([]Diagnostic, 0, 32)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		diagnostic, ok := parseLine(line)
		if !ok {
			result.SkippedLines++
			continue
		}
		result.Diagnostics = append(result.Diagnostics, diagnostic)
	}
	if err := scanner.Err(); err != nil {
		return ParseResult{}, err
	}
	return result, nil
}

func parseLine(line string) (Diagnostic, bool) {
	match := diagnosticLinePattern.FindStringSubmatch(line)
	if match == nil {
		return Diagnostic{}, false
	}
	lineNumber, err := strconv.Atoi(match[2])
	if err != nil {
		return Diagnostic{}, false
	}
	column, err := strconv.Atoi(match[3])
	if err != nil {
		return Diagnostic{}, false
	}
	return Diagnostic{
		File:    match[1],
		Line:    lineNumber,
		Column:  column,
		Code:    match[4],
		Message: match[5],
	}, true
}
