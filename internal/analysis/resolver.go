package analysis

import (
	"path/filepath"
	"strings"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/integrate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/investigate"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/report"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/usage"
)

var integrationActions = map[string]report.Action{
	integrate.TypeInputSanitization: report.ActionAddInputSanitization,
	integrate.TypeErrorHandling:     report.ActionImplementErrorHandler,
	integrate.TypeAuditLogging:      report.ActionAddSecurityAuditLogging,
	integrate.TypeCoreServices:      report.ActionImplementCoreServices,
}

// resolveAction picks the recommended action and confidence for one
// analyzed symbol. The table is evaluated in priority order and is
// total: every input resolves to exactly one pair.
func resolveAction(symbol classify.Symbol, profile usage.Profile, opportunity *integrate.Opportunity,
	findings investigate.Findings, rootMarkers []string) (report.Action, classify.Confidence) {
	switch symbol.Phase {
	case classify.PhaseSafeRemoval:
		if profile.Pattern == usage.PatternConstructorOnly {
			return report.ActionConvertToLocalVariable, classify.ConfidenceHigh
		}
		return report.ActionRefactorConstructorParams, classify.ConfidenceMedium
	case classify.PhaseIntegration:
		if opportunity != nil {
			action, ok := integrationActions[opportunity.Type]
			if !ok {
				action = report.ActionImplementCoreServices
			}
			return action, classify.ConfidenceMedium
		}
	case classify.PhaseInvestigation:
		if findings.PotentialFalsePositive {
			return report.ActionInvestigateFalsePositive, classify.ConfidenceLow
		}
		if strings.HasPrefix(symbol.Name, "_") && inCompositionRoot(symbol.File, rootMarkers) {
			return report.ActionRemoveArchitecturalPrep, classify.ConfidenceLow
		}
		return report.ActionCompleteIncompleteFeature, classify.ConfidenceLow
	}
	return report.ActionInvestigateFalsePositive, classify.ConfidenceMedium
}

func inCompositionRoot(file string, markers []string) bool {
	base := strings.ToLower(filepath.Base(file))
	lowered := strings.ToLower(file)
	for _, marker := range markers {
		marker = strings.ToLower(marker)
		if base == marker || strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
