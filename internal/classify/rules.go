package classify

import (
	"regexp"
	"strings"
)

type Kind string

const (
	KindImport        Kind = "import"
	KindParameter     Kind = "parameter"
	KindLocalVariable Kind = "local-variable"
	KindFunction      Kind = "function"
	KindConstant      Kind = "constant"
	KindProperty      Kind = "property"
)

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

type Phase string

const (
	PhaseSafeRemoval   Phase = "safe-removal"
	PhaseIntegration   Phase = "integration"
	PhaseInvestigation Phase = "investigation"
)

// Phases returns the remediation phases in processing order.
func Phases() []Phase {
	return []Phase{PhaseSafeRemoval, PhaseIntegration, PhaseInvestigation}
}

func ParsePhase(value string) (Phase, bool) {
	switch Phase(strings.ToLower(strings.TrimSpace(value))) {
	case PhaseSafeRemoval:
		return PhaseSafeRemoval, true
	case PhaseIntegration:
		return PhaseIntegration, true
	case PhaseInvestigation:
		return PhaseInvestigation, true
	default:
		return "", false
	}
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceRank orders confidence levels for sorting, highest first.
func ConfidenceRank(confidence Confidence) int {
	switch confidence {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	default:
		return 2
	}
}

type Rule struct {
	Pattern  *regexp.Regexp
	Risk     Risk
	Phase    Phase
	Category string
}

type Assignment struct {
	Risk     Risk
	Phase    Phase
	Category string
}

// Registry holds the ordered name-pattern tables per symbol kind.
// Lookup is first-match-wins with a kind-specific default, so every
// name resolves to exactly one assignment.
type Registry struct {
	rules            map[Kind][]Rule
	defaults         map[Kind]Assignment
	securityKeywords []string
}

func DefaultSecurityKeywords() []string {
	return []string{"security", "audit", "auth", "credential", "token", "secret"}
}

func NewRegistry() *Registry {
	return NewRegistryWithSecurityKeywords(DefaultSecurityKeywords())
}

func NewRegistryWithSecurityKeywords(keywords []string) *Registry {
	return &Registry{
		rules:            builtinRules(),
		defaults:         builtinDefaults(),
		securityKeywords: normalizeKeywords(keywords),
	}
}

func (r *Registry) Lookup(kind Kind, name string, file string) Assignment {
	assignment, found := r.matchRules(kind, name)
	if !found {
		assignment = r.defaultFor(kind)
	}
	if r.isSecuritySensitive(name, file) {
		assignment.Risk = RiskHigh
	}
	return assignment
}

func (r *Registry) matchRules(kind Kind, name string) (Assignment, bool) {
	for _, rule := range r.rules[kind] {
		if rule.Pattern.MatchString(name) {
			return Assignment{Risk: rule.Risk, Phase: rule.Phase, Category: rule.Category}, true
		}
	}
	return Assignment{}, false
}

func (r *Registry) defaultFor(kind Kind) Assignment {
	if assignment, ok := r.defaults[kind]; ok {
		return assignment
	}
	return Assignment{Risk: RiskMedium, Phase: PhaseInvestigation, Category: "unclassified"}
}

func (r *Registry) isSecuritySensitive(name string, file string) bool {
	lowerName := strings.ToLower(name)
	lowerFile := strings.ToLower(file)
	for _, keyword := range r.securityKeywords {
		if strings.Contains(lowerName, keyword) || strings.Contains(lowerFile, keyword) {
			return true
		}
	}
	return false
}

func normalizeKeywords(keywords []string) []string {
	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		trimmed := strings.ToLower(strings.TrimSpace(keyword))
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}

func builtinRules() map[Kind][]Rule {
	return map[Kind][]Rule{
		KindImport: {
			{Pattern: regexp.MustCompile(`(?i)(logger|logging)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "logging"},
			{Pattern: regexp.MustCompile(`(?i)(service|client|api|gateway)`), Risk: RiskMedium, Phase: PhaseIntegration, Category: "service"},
			{Pattern: regexp.MustCompile(`(?i)(type|interface|props|schema)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "type-only"},
			{Pattern: regexp.MustCompile(`(?i)(test|mock|fixture)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "test-support"},
		},
		KindParameter: {
			{Pattern: regexp.MustCompile(`^_`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "intentionally-unused"},
			{Pattern: regexp.MustCompile(`(?i)^(e|evt|event)$`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "event-handler"},
			{Pattern: regexp.MustCompile(`(?i)(options|config|opts|settings)`), Risk: RiskMedium, Phase: PhaseInvestigation, Category: "configuration"},
			{Pattern: regexp.MustCompile(`(?i)(callback|handler|fn)$`), Risk: RiskMedium, Phase: PhaseInvestigation, Category: "callback"},
		},
		KindFunction: {
			{Pattern: regexp.MustCompile(`(?i)^(handle|on)[A-Z_]`), Risk: RiskMedium, Phase: PhaseInvestigation, Category: "event-handler"},
			{Pattern: regexp.MustCompile(`(?i)(helper|util|format|parse)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "utility"},
			{Pattern: regexp.MustCompile(`(?i)^(init|setup|bootstrap)`), Risk: RiskMedium, Phase: PhaseInvestigation, Category: "initialization"},
		},
		KindConstant: {
			{Pattern: regexp.MustCompile(`(?i)(default|max|min|timeout|limit|interval)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "configuration-constant"},
			{Pattern: regexp.MustCompile(`(?i)(url|endpoint|host|port)`), Risk: RiskMedium, Phase: PhaseIntegration, Category: "endpoint"},
			{Pattern: regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "constant"},
		},
		KindLocalVariable: {
			{Pattern: regexp.MustCompile(`(?i)(result|response|data|res)$`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "discarded-result"},
			{Pattern: regexp.MustCompile(`(?i)^(temp|tmp|unused)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "scratch"},
		},
		KindProperty: {
			{Pattern: regexp.MustCompile(`(?i)(storage|cache|store|repository)`), Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "storage"},
			{Pattern: regexp.MustCompile(`(?i)(coreservices|services)$`), Risk: RiskMedium, Phase: PhaseIntegration, Category: "core-services"},
			{Pattern: regexp.MustCompile(`(?i)(errorhandler|errormanager)`), Risk: RiskMedium, Phase: PhaseIntegration, Category: "error-handling"},
			{Pattern: regexp.MustCompile(`(?i)(sanitizer|validator)`), Risk: RiskMedium, Phase: PhaseIntegration, Category: "input-sanitization"},
			{Pattern: regexp.MustCompile(`(?i)(audit|security)`), Risk: RiskHigh, Phase: PhaseIntegration, Category: "security-audit"},
			{Pattern: regexp.MustCompile(`^_`), Risk: RiskMedium, Phase: PhaseInvestigation, Category: "architectural-prep"},
		},
	}
}

func builtinDefaults() map[Kind]Assignment {
	return map[Kind]Assignment{
		KindImport:        {Risk: RiskMedium, Phase: PhaseIntegration, Category: "unclassified-import"},
		KindParameter:     {Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "parameter"},
		KindFunction:      {Risk: RiskMedium, Phase: PhaseInvestigation, Category: "function"},
		KindConstant:      {Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "constant"},
		KindLocalVariable: {Risk: RiskLow, Phase: PhaseSafeRemoval, Category: "local-variable"},
		KindProperty:      {Risk: RiskMedium, Phase: PhaseInvestigation, Category: "property"},
	}
}
