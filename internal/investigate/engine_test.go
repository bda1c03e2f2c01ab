package investigate

import (
	"strings"
	"testing"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/integrate"
)

func investigationSymbol(name string, file string) classify.Symbol {
	return classify.Symbol{
		Name:  name,
		File:  file,
		Line:  30,
		Kind:  classify.KindProperty,
		Risk:  classify.RiskMedium,
		Phase: classify.PhaseInvestigation,
	}
}

func TestInvestigateBracketNotationSelfAccess(t *testing.T) {
	fileText := strings.Join([]string{
		"class ContextBridge {",
		"  private context: Context;",
		"  dispatch(key: string): unknown {",
		"    return this['context'].resolve(key);",
		"  }",
		"}",
	}, "\n")

	engine := NewEngine(nil)
	findings := engine.Investigate(investigationSymbol("context", "src/bridge/ContextBridge.ts"), fileText)

	if !findings.PotentialFalsePositive {
		t.Fatalf("expected bracket self-access to flag a potential false positive")
	}
	reasons := strings.Join(findings.Reasons, " ")
	if !strings.Contains(reasons, "bracket-notation") {
		t.Fatalf("expected a dynamic-access reason, got %v", findings.Reasons)
	}
	if !hasLimitation(findings, LimitationDynamicAccess) {
		t.Fatalf("expected dynamic-access limitation, got %#v", findings.CompilerLimitations)
	}
}

func TestInvestigatePinnedCalibrationEntry(t *testing.T) {
	engine := NewEngine(integrate.DefaultTable().KnownFalsePositives)
	findings := engine.Investigate(investigationSymbol("context", "src/bridge/ContextBridge.ts"), "class ContextBridge {}")

	if !findings.PotentialFalsePositive {
		t.Fatalf("expected pinned entry to flag a potential false positive")
	}
	if !strings.Contains(strings.Join(findings.Reasons, " "), ":118") {
		t.Fatalf("expected pinned line in reason, got %v", findings.Reasons)
	}
}

func TestInvestigatePinnedEntryDoesNotGeneralize(t *testing.T) {
	engine := NewEngine(integrate.DefaultTable().KnownFalsePositives)
	findings := engine.Investigate(investigationSymbol("context", "src/other/Widget.ts"), "class Widget {}")
	if findings.PotentialFalsePositive {
		t.Fatalf("pinned calibration entry must not apply outside its file")
	}
}

func TestInvestigateTypeAnalysisLimitation(t *testing.T) {
	engine := NewEngine(nil)
	findings := engine.Investigate(investigationSymbol("payload", "src/ingest/Reader.ts"), "function read(payload: any) {}")

	if !hasLimitation(findings, LimitationTypeAnalysis) {
		t.Fatalf("expected type-analysis limitation, got %#v", findings.CompilerLimitations)
	}
	for _, limitation := range findings.CompilerLimitations {
		if len(limitation.Remedies) == 0 {
			t.Fatalf("expected remedies on every limitation")
		}
	}
}

func TestInvestigateStepsForInvestigationPhase(t *testing.T) {
	engine := NewEngine(nil)
	findings := engine.Investigate(investigationSymbol("_future", "src/index.ts"), "class Root {}")

	joined := strings.Join(findings.SuggestedSteps, " ")
	if !strings.Contains(joined, "src/index.ts:30") {
		t.Fatalf("expected file:line in steps, got %v", findings.SuggestedSteps)
	}
	if !strings.Contains(joined, "architectural preparation") {
		t.Fatalf("expected architectural-necessity step for investigation phase, got %v", findings.SuggestedSteps)
	}
}

func TestInvestigateStepsForOtherPhases(t *testing.T) {
	engine := NewEngine(nil)
	symbol := investigationSymbol("formatter", "src/report.ts")
	symbol.Phase = classify.PhaseSafeRemoval
	findings := engine.Investigate(symbol, "class Report {}")

	if len(findings.SuggestedSteps) != 2 {
		t.Fatalf("expected only the base steps outside investigation phase, got %v", findings.SuggestedSteps)
	}
	if findings.PotentialFalsePositive {
		t.Fatalf("expected no false-positive signal for plain content")
	}
}

func hasLimitation(findings Findings, kind string) bool {
	for _, limitation := range findings.CompilerLimitations {
		if limitation.Kind == kind {
			return true
		}
	}
	return false
}
