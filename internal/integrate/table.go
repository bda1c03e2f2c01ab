package integrate

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/safeio"
)

const (
	TypeInputSanitization = "input-sanitization"
	TypeErrorHandling     = "error-handling"
	TypeAuditLogging      = "audit-logging"
	TypeCoreServices      = "core-services"
)

// Entry maps one (file substring, property name) pair to an integration
// type and a sibling class known to implement the pattern correctly.
type Entry struct {
	FileContains    string `yaml:"file_contains" json:"fileContains"`
	Property        string `yaml:"property" json:"property"`
	IntegrationType string `yaml:"integration_type" json:"integrationType"`
	SimilarPattern  string `yaml:"similar_pattern" json:"similarPattern"`
}

// KnownFalsePositive pins a historically verified real usage that the
// compiler misses. These are calibration data, not rules; the line is
// the location asserted to contain the usage at calibration time.
type KnownFalsePositive struct {
	FileContains string `yaml:"file_contains" json:"fileContains"`
	Property     string `yaml:"property" json:"property"`
	Line         int    `yaml:"line" json:"line"`
	Note         string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Table is the injectable reference dataset. The shipped default holds
// the original calibration entries; deployments point at their own
// YAML or JSON file instead of editing code.
type Table struct {
	Entries             []Entry              `yaml:"entries" json:"entries"`
	KnownFalsePositives []KnownFalsePositive `yaml:"known_false_positives,omitempty" json:"knownFalsePositives,omitempty"`
}

func DefaultTable() Table {
	return Table{
		Entries: []Entry{
			{FileContains: "InputProcessor", Property: "sanitizer", IntegrationType: TypeInputSanitization, SimilarPattern: "FormProcessor"},
			{FileContains: "SyncWorker", Property: "errorHandler", IntegrationType: TypeErrorHandling, SimilarPattern: "ImportWorker"},
			{FileContains: "SessionManager", Property: "auditLogger", IntegrationType: TypeAuditLogging, SimilarPattern: "CredentialManager"},
			{FileContains: "OrderService", Property: "coreServices", IntegrationType: TypeCoreServices, SimilarPattern: "InvoiceService"},
		},
		KnownFalsePositives: []KnownFalsePositive{
			// Calibration fixture: bracket-notation access confirmed by
			// hand at this line in the original target codebase.
			{FileContains: "ContextBridge", Property: "context", Line: 118, Note: "accessed via this['context'] in dynamic dispatch"},
		},
	}
}

func (t Table) Match(file string, property string) (Entry, bool) {
	for _, entry := range t.Entries {
		if entry.Property == property && strings.Contains(file, entry.FileContains) {
			return entry, true
		}
	}
	return Entry{}, false
}

func (t Table) FalsePositiveFor(file string, property string) (KnownFalsePositive, bool) {
	for _, known := range t.KnownFalsePositives {
		if known.Property == property && strings.Contains(file, known.FileContains) {
			return known, true
		}
	}
	return KnownFalsePositive{}, false
}

// tableSchema validates externally supplied JSON tables before use.
const tableSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["entries"],
  "additionalProperties": false,
  "properties": {
    "entries": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["fileContains", "property", "integrationType"],
        "additionalProperties": false,
        "properties": {
          "fileContains": {"type": "string", "minLength": 1},
          "property": {"type": "string", "minLength": 1},
          "integrationType": {"type": "string", "enum": ["input-sanitization", "error-handling", "audit-logging", "core-services"]},
          "similarPattern": {"type": "string"}
        }
      }
    },
    "knownFalsePositives": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["fileContains", "property", "line"],
        "additionalProperties": false,
        "properties": {
          "fileContains": {"type": "string", "minLength": 1},
          "property": {"type": "string", "minLength": 1},
          "line": {"type": "integer", "minimum": 1},
          "note": {"type": "string"}
        }
      }
    }
  }
}`

func LoadTable(path string) (Table, error) {
	data, err := safeio.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read reference table %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSONTable(path, data)
	default:
		return parseYAMLTable(path, data)
	}
}

func parseJSONTable(path string, data []byte) (Table, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(tableSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return Table{}, fmt.Errorf("validate reference table %s: %w", path, err)
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, item := range result.Errors() {
			messages = append(messages, item.String())
		}
		return Table{}, fmt.Errorf("reference table %s failed schema validation: %s", path, strings.Join(messages, "; "))
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return Table{}, fmt.Errorf("parse reference table %s: %w", path, err)
	}
	return table, nil
}

func parseYAMLTable(path string, data []byte) (Table, error) {
	var table Table
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&table); err != nil {
		return Table{}, fmt.Errorf("parse reference table %s: %w", path, err)
	}
	if len(table.Entries) == 0 {
		return Table{}, fmt.Errorf("reference table %s has no entries", path)
	}
	return table, nil
}
