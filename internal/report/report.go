package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/integrate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/investigate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/usage"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

const SchemaVersion = "0.1.0"

var ErrUnknownFormat = errors.New("unknown format")

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, value)
	}
}

type Action string

const (
	ActionConvertToLocalVariable    Action = "convert-to-local-variable"
	ActionRefactorConstructorParams Action = "refactor-constructor-parameters"
	ActionAddInputSanitization      Action = "add-input-sanitization"
	ActionImplementErrorHandler     Action = "implement-error-handler-integration"
	ActionAddSecurityAuditLogging   Action = "add-security-audit-logging"
	ActionImplementCoreServices     Action = "implement-core-services-integration"
	ActionInvestigateFalsePositive  Action = "investigate-potential-false-positive"
	ActionRemoveArchitecturalPrep   Action = "remove-architectural-preparation"
	ActionCompleteIncompleteFeature Action = "complete-incomplete-feature"
)

// Result is the terminal, immutable output for one classified symbol.
type Result struct {
	Symbol      classify.Symbol        `json:"symbol"`
	Profile     usage.Profile          `json:"profile"`
	Opportunity *integrate.Opportunity `json:"opportunity,omitempty"`
	Findings    investigate.Findings   `json:"findings"`
	Action      Action                 `json:"action"`
	Confidence  classify.Confidence    `json:"confidence"`
}

type PhaseSummary struct {
	Phase            classify.Phase        `json:"phase"`
	Count            int                   `json:"count"`
	ByRisk           map[classify.Risk]int `json:"byRisk,omitempty"`
	ByCategory       map[string]int        `json:"byCategory,omitempty"`
	EstimatedMinutes int                   `json:"estimatedMinutes"`
}

type PhaseReport struct {
	SchemaVersion    string         `json:"schemaVersion"`
	GeneratedAt      time.Time      `json:"generatedAt"`
	TotalSymbols     int            `json:"totalSymbols"`
	Phases           []PhaseSummary `json:"phases"`
	PrioritizedOrder []Result       `json:"prioritizedOrder,omitempty"`
	Warnings         []string       `json:"warnings,omitempty"`
}
