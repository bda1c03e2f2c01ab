package report

import (
	"testing"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/usage"
)

func resultFor(file string, line int, phase classify.Phase, risk classify.Risk, confidence classify.Confidence) Result {
	return Result{
		Symbol: classify.Symbol{
			Name:     "sym",
			File:     file,
			Line:     line,
			Kind:     classify.KindProperty,
			Risk:     risk,
			Phase:    phase,
			Category: "property",
		},
		Profile:    usage.Profile{Pattern: usage.PatternStoredNeverAccessed},
		Action:     ActionInvestigateFalsePositive,
		Confidence: confidence,
	}
}

func TestAggregateCountsSumToTotal(t *testing.T) {
	results := []Result{
		resultFor("a.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
		resultFor("b.ts", 2, classify.PhaseIntegration, classify.RiskMedium, classify.ConfidenceMedium),
		resultFor("c.ts", 3, classify.PhaseInvestigation, classify.RiskHigh, classify.ConfidenceLow),
		resultFor("d.ts", 4, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceMedium),
	}

	reportData := Aggregate(results, nil)
	if reportData.TotalSymbols != len(results) {
		t.Fatalf("expected total %d, got %d", len(results), reportData.TotalSymbols)
	}

	sum := 0
	riskSum := 0
	categorySum := 0
	for _, phase := range reportData.Phases {
		sum += phase.Count
		for _, count := range phase.ByRisk {
			riskSum += count
		}
		for _, count := range phase.ByCategory {
			categorySum += count
		}
	}
	if sum != len(results) || riskSum != len(results) || categorySum != len(results) {
		t.Fatalf("expected all groupings to sum to %d, got phase=%d risk=%d category=%d", len(results), sum, riskSum, categorySum)
	}
}

func TestAggregatePhaseOrderAndEstimates(t *testing.T) {
	results := []Result{
		resultFor("a.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
		resultFor("b.ts", 2, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceLow),
	}
	reportData := Aggregate(results, nil)

	if len(reportData.Phases) != 3 {
		t.Fatalf("expected all three phases in the report, got %d", len(reportData.Phases))
	}
	for index, phase := range classify.Phases() {
		if reportData.Phases[index].Phase != phase {
			t.Fatalf("expected phase order %v, got %v at %d", phase, reportData.Phases[index].Phase, index)
		}
	}
	if reportData.Phases[0].EstimatedMinutes != 30+120 {
		t.Fatalf("expected 150 estimated minutes, got %d", reportData.Phases[0].EstimatedMinutes)
	}
}

func TestAggregateCustomEstimates(t *testing.T) {
	results := []Result{resultFor("a.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh)}
	reportData := Aggregate(results, map[classify.Confidence]int{classify.ConfidenceHigh: 7})
	if reportData.Phases[0].EstimatedMinutes != 7 {
		t.Fatalf("expected custom estimate 7, got %d", reportData.Phases[0].EstimatedMinutes)
	}
}

func TestPrioritizeStableOrdering(t *testing.T) {
	results := []Result{
		resultFor("zeta.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceMedium),
		resultFor("alpha.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceMedium),
		resultFor("mid.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
		resultFor("alpha.ts", 9, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceMedium),
	}

	reportData := Aggregate(results, nil)
	order := reportData.PrioritizedOrder
	if order[0].Symbol.File != "mid.ts" {
		t.Fatalf("expected high confidence first, got %s", order[0].Symbol.File)
	}
	if order[1].Symbol.File != "alpha.ts" || order[1].Symbol.Line != 1 {
		t.Fatalf("expected lexical tie-break on file then line, got %s:%d", order[1].Symbol.File, order[1].Symbol.Line)
	}
	if order[2].Symbol.File != "alpha.ts" || order[2].Symbol.Line != 9 {
		t.Fatalf("expected line tie-break, got %s:%d", order[2].Symbol.File, order[2].Symbol.Line)
	}
	if order[3].Symbol.File != "zeta.ts" {
		t.Fatalf("expected zeta.ts last, got %s", order[3].Symbol.File)
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	results := []Result{
		resultFor("zeta.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceLow),
		resultFor("alpha.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
	}
	_ = Aggregate(results, nil)
	if results[0].Symbol.File != "zeta.ts" {
		t.Fatalf("expected input slice order to be preserved")
	}
}

func TestFilterByPhase(t *testing.T) {
	results := []Result{
		resultFor("a.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
		resultFor("b.ts", 2, classify.PhaseIntegration, classify.RiskMedium, classify.ConfidenceMedium),
	}
	filtered := FilterByPhase(results, classify.PhaseIntegration)
	if len(filtered) != 1 || filtered[0].Symbol.File != "b.ts" {
		t.Fatalf("unexpected filter output: %#v", filtered)
	}
}

func TestTruncateOrder(t *testing.T) {
	reportData := Aggregate([]Result{
		resultFor("a.ts", 1, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
		resultFor("b.ts", 2, classify.PhaseSafeRemoval, classify.RiskLow, classify.ConfidenceHigh),
	}, nil)

	truncated := TruncateOrder(reportData, 1)
	if len(truncated.PrioritizedOrder) != 1 {
		t.Fatalf("expected truncation to 1 entry, got %d", len(truncated.PrioritizedOrder))
	}
	unchanged := TruncateOrder(reportData, 0)
	if len(unchanged.PrioritizedOrder) != 2 {
		t.Fatalf("expected zero topN to leave order unchanged")
	}
}
