package report

import (
	"sort"
	"time"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
)

// DefaultEstimates maps confidence to estimated remediation minutes
// per symbol. Low confidence means a human investigates first, which
// dominates the estimate.
func DefaultEstimates() map[classify.Confidence]int {
	return map[classify.Confidence]int{
		classify.ConfidenceHigh:   30,
		classify.ConfidenceMedium: 60,
		classify.ConfidenceLow:    120,
	}
}

func Aggregate(results []Result, estimates map[classify.Confidence]int) PhaseReport {
	if len(estimates) == 0 {
		estimates = DefaultEstimates()
	}

	summaries := make(map[classify.Phase]*PhaseSummary, 3)
	for _, phase := range classify.Phases() {
		summaries[phase] = &PhaseSummary{
			Phase:      phase,
			ByRisk:     make(map[classify.Risk]int),
			ByCategory: make(map[string]int),
		}
	}

	for _, result := range results {
		summary, ok := summaries[result.Symbol.Phase]
		if !ok {
			// Unknown phases are folded into investigation rather than
			// dropped, preserving the counts-sum-to-total invariant.
			summary = summaries[classify.PhaseInvestigation]
		}
		summary.Count++
		summary.ByRisk[result.Symbol.Risk]++
		summary.ByCategory[result.Symbol.Category]++
		summary.EstimatedMinutes += estimates[result.Confidence]
	}

	phases := make([]PhaseSummary, 0, len(summaries))
	for _, phase := range classify.Phases() {
		phases = append(phases, *summaries[phase])
	}

	return PhaseReport{
		SchemaVersion:    SchemaVersion,
		GeneratedAt:      time.Now().UTC(),
		TotalSymbols:     len(results),
		Phases:           phases,
		PrioritizedOrder: prioritize(results),
	}
}

// prioritize orders results by confidence descending; ties break on
// file path then line so identical inputs always produce identical
// plans.
func prioritize(results []Result) []Result {
	ordered := append([]Result(nil), results...)
	sort.SliceStable(ordered, func(i, j int) bool {
		left := classify.ConfidenceRank(ordered[i].Confidence)
		right := classify.ConfidenceRank(ordered[j].Confidence)
		if left != right {
			return left < right
		}
		if ordered[i].Symbol.File != ordered[j].Symbol.File {
			return ordered[i].Symbol.File < ordered[j].Symbol.File
		}
		return ordered[i].Symbol.Line < ordered[j].Symbol.Line
	})
	return ordered
}

// FilterByPhase returns the subset of results in the given phase,
// preserving input order.
func FilterByPhase(results []Result, phase classify.Phase) []Result {
	filtered := make([]Result, 0, len(results))
	for _, result := range results {
		if result.Symbol.Phase == phase {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// TruncateOrder caps the prioritized order at topN entries; zero or
// negative leaves the report unchanged.
func TruncateOrder(reportData PhaseReport, topN int) PhaseReport {
	if topN <= 0 || topN >= len(reportData.PrioritizedOrder) {
		return reportData
	}
	reportData.PrioritizedOrder = reportData.PrioritizedOrder[:topN]
	return reportData
}
