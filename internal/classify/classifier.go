package classify

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/ingest"
)

var ErrNotASymbol = errors.New("diagnostic does not name a symbol")

// contextMargin is the number of lines captured around the symbol's
// declaration when building the classification context window.
const contextMargin = 3

var symbolNamePattern = regexp.MustCompile(`'([^']+)' is declared but (?:its value is )?never (?:read|used)`)

// Symbol is the classified form of one diagnostic. It is created once
// and never mutated; re-classification produces a new value.
type Symbol struct {
	Name     string `json:"name"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Kind     Kind   `json:"kind"`
	Risk     Risk   `json:"risk"`
	Phase    Phase  `json:"phase"`
	Category string `json:"category"`
	Context  string `json:"context,omitempty"`
	CodeLine string `json:"codeLine,omitempty"`
}

type Classifier struct {
	Rules *Registry
}

func NewClassifier(rules *Registry) *Classifier {
	return &Classifier{Rules: rules}
}

func (c *Classifier) Classify(diagnostic ingest.Diagnostic, fileText string) (Symbol, error) {
	name, ok := extractSymbolName(diagnostic.Message)
	if !ok {
		return Symbol{}, fmt.Errorf("%w: %s", ErrNotASymbol, diagnostic.Message)
	}

	lines := strings.Split(fileText, "\n")
	codeLine := lineAt(lines, diagnostic.Line)
	context := contextWindow(lines, diagnostic.Line)
	kind := detectKind(name, codeLine, context)
	assignment := c.Rules.Lookup(kind, name, diagnostic.File)

	return Symbol{
		Name:     name,
		File:     diagnostic.File,
		Line:     diagnostic.Line,
		Column:   diagnostic.Column,
		Kind:     kind,
		Risk:     assignment.Risk,
		Phase:    assignment.Phase,
		Category: assignment.Category,
		Context:  context,
		CodeLine: codeLine,
	}, nil
}

func extractSymbolName(message string) (string, bool) {
	match := symbolNamePattern.FindStringSubmatch(message)
	if match == nil {
		return "", false
	}
	return match[1], true
}

func lineAt(lines []string, lineNumber int) string {
	index := lineNumber - 1
	if index < 0 || index >= len(lines) {
		return ""
	}
	return lines[index]
}

func contextWindow(lines []string, lineNumber int) string {
	if len(lines) == 0 {
		return ""
	}
	start := lineNumber - 1 - contextMargin
	if start < 0 {
		start = 0
	}
	end := lineNumber - 1 + contextMargin + 1
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// detectKind inspects the declaring line and its surrounding context
// for decisive declaration markers, in priority order. Classification
// is textual only, so an unusual layout can misattribute the kind; the
// rule defaults keep the result total either way.
func detectKind(name string, codeLine string, context string) Kind {
	switch {
	case isImportDeclaration(codeLine):
		return KindImport
	case isParameterDeclaration(name, codeLine):
		return KindParameter
	case isFunctionDeclaration(name, codeLine):
		return KindFunction
	case isPropertyDeclaration(name, codeLine, context):
		return KindProperty
	case isConstantDeclaration(name, codeLine):
		return KindConstant
	default:
		return KindLocalVariable
	}
}

func isImportDeclaration(codeLine string) bool {
	trimmed := strings.TrimSpace(codeLine)
	return strings.HasPrefix(trimmed, "import ") ||
		strings.HasPrefix(trimmed, "import{") ||
		strings.Contains(trimmed, "require(")
}

func isParameterDeclaration(name string, codeLine string) bool {
	open := strings.Index(codeLine, "(")
	closed := strings.LastIndex(codeLine, ")")
	if open < 0 || closed <= open {
		return false
	}
	if !containsWord(codeLine[open:closed+1], name) {
		return false
	}
	return strings.Contains(codeLine, "function") ||
		strings.Contains(codeLine, "=>") ||
		strings.Contains(codeLine, "constructor(")
}

func isFunctionDeclaration(name string, codeLine string) bool {
	return strings.Contains(codeLine, "function "+name) ||
		strings.Contains(codeLine, name+" = function") ||
		strings.Contains(codeLine, name+" = (") && strings.Contains(codeLine, "=>")
}

func isPropertyDeclaration(name string, codeLine string, context string) bool {
	trimmed := strings.TrimSpace(codeLine)
	for _, modifier := range []string{"private ", "public ", "protected ", "readonly "} {
		if strings.HasPrefix(trimmed, modifier) && containsWord(trimmed, name) {
			return true
		}
	}
	return strings.Contains(context, "this."+name)
}

func isConstantDeclaration(name string, codeLine string) bool {
	if !strings.Contains(codeLine, "const ") {
		return false
	}
	return name == strings.ToUpper(name) || strings.Contains(strings.ToLower(name), "config")
}

func containsWord(text string, word string) bool {
	index := 0
	for {
		pos := strings.Index(text[index:], word)
		if pos < 0 {
			return false
		}
		pos += index
		before := byte(0)
		if pos > 0 {
			before = text[pos-1]
		}
		after := byte(0)
		if pos+len(word) < len(text) {
			after = text[pos+len(word)]
		}
		if !isIdentifierByte(before) && !isIdentifierByte(after) {
			return true
		}
		index = pos + len(word)
	}
}

func isIdentifierByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '$'
}
