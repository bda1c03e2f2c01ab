package investigate

import (
	"fmt"
	"strings"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/integrate"
)

const (
	LimitationTypeAnalysis  = "type-analysis"
	LimitationDynamicAccess = "dynamic-access-detection"
)

type Limitation struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Remedies    []string `json:"remedies,omitempty"`
}

type Findings struct {
	PotentialFalsePositive bool         `json:"potentialFalsePositive"`
	Reasons                []string     `json:"reasons,omitempty"`
	CompilerLimitations    []Limitation `json:"compilerLimitations,omitempty"`
	SuggestedSteps         []string     `json:"suggestedSteps,omitempty"`
}

// Engine runs the false-positive and compiler-limitation heuristics
// for ambiguous symbols. Known false positives are injected data, not
// rules: each one records a usage verified by hand at calibration time.
type Engine struct {
	Known []integrate.KnownFalsePositive
}

func NewEngine(known []integrate.KnownFalsePositive) *Engine {
	return &Engine{Known: known}
}

func (e *Engine) Investigate(symbol classify.Symbol, fileText string) Findings {
	findings := Findings{}

	if shape, found := dynamicSelfAccess(symbol.Name, fileText); found {
		findings.PotentialFalsePositive = true
		findings.Reasons = append(findings.Reasons,
			fmt.Sprintf("dynamic bracket-notation self-access %s defeats static unused detection", shape))
	}
	if known, found := e.knownFalsePositive(symbol); found {
		findings.PotentialFalsePositive = true
		reason := fmt.Sprintf("previously verified real usage near %s:%d", symbol.File, known.Line)
		if known.Note != "" {
			reason += " (" + known.Note + ")"
		}
		findings.Reasons = append(findings.Reasons, reason)
	}

	findings.CompilerLimitations = detectLimitations(fileText)
	findings.SuggestedSteps = suggestedSteps(symbol, findings)
	return findings
}

func (e *Engine) knownFalsePositive(symbol classify.Symbol) (integrate.KnownFalsePositive, bool) {
	for _, known := range e.Known {
		if known.Property == symbol.Name && strings.Contains(symbol.File, known.FileContains) {
			return known, true
		}
	}
	return integrate.KnownFalsePositive{}, false
}

func dynamicSelfAccess(name string, fileText string) (string, bool) {
	shapes := []string{
		"this['" + name + "']",
		`this["` + name + `"]`,
		"this[`" + name + "`]",
	}
	for _, shape := range shapes {
		if strings.Contains(fileText, shape) {
			return shape, true
		}
	}
	return "", false
}

func detectLimitations(fileText string) []Limitation {
	limitations := make([]Limitation, 0, 2)
	if containsAny(fileText, ": any", "<any>", "as any") {
		limitations = append(limitations, Limitation{
			Kind:        LimitationTypeAnalysis,
			Description: "loosely typed values prevent the compiler from tracking member usage",
			Remedies: []string{
				"replace any with a concrete type or a narrow union",
				"enable strict compiler options for this file",
			},
		})
	}
	if strings.Contains(fileText, "this[") {
		limitations = append(limitations, Limitation{
			Kind:        LimitationDynamicAccess,
			Description: "bracket-notation member access is invisible to unused-symbol analysis",
			Remedies: []string{
				"prefer dot access for statically known properties",
				"audit index signatures and dynamic dispatch tables by hand",
			},
		})
	}
	if len(limitations) == 0 {
		return nil
	}
	return limitations
}

func suggestedSteps(symbol classify.Symbol, findings Findings) []string {
	steps := []string{
		fmt.Sprintf("Review %s:%d and confirm the intended role of '%s'", symbol.File, symbol.Line, symbol.Name),
		fmt.Sprintf("Search the repository for dynamic or reflective references to '%s'", symbol.Name),
	}
	if findings.PotentialFalsePositive {
		steps = append(steps,
			fmt.Sprintf("Verify each suspected usage of '%s' before removing anything", symbol.Name))
	}
	if symbol.Phase == classify.PhaseInvestigation {
		steps = append(steps,
			fmt.Sprintf("Assess whether the feature consuming '%s' was ever completed", symbol.Name),
			fmt.Sprintf("Confirm '%s' is not architectural preparation for a planned subsystem", symbol.Name))
	}
	return steps
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
