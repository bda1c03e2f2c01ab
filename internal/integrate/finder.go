package integrate

import (
	"fmt"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/usage"
)

// Opportunity is a concrete integration proposal for a service-gap
// property, modeled on a sibling class that implements the pattern.
type Opportunity struct {
	Type              string        `json:"type"`
	Description       string        `json:"description"`
	Steps             []string      `json:"steps"`
	Effort            string        `json:"effort"`
	ExpectedBenefit   string        `json:"expectedBenefit"`
	Risk              classify.Risk `json:"risk"`
	ReferencePatterns []string      `json:"referencePatterns,omitempty"`
}

type Finder struct {
	Table Table
}

func NewFinder(table Table) *Finder {
	return &Finder{Table: table}
}

// Find returns nil for symbols outside the integration phase or whose
// usage pattern is not a service gap, and for gaps with no reference
// entry: analysis and proposal are decoupled, absence is not an error.
func (f *Finder) Find(symbol classify.Symbol, profile usage.Profile) *Opportunity {
	if symbol.Phase != classify.PhaseIntegration {
		return nil
	}
	if profile.Pattern != usage.PatternServiceIntegrationGap && profile.Pattern != usage.PatternErrorHandlerGap {
		return nil
	}
	entry, found := f.Table.Match(symbol.File, symbol.Name)
	if !found {
		return nil
	}

	opportunity := &Opportunity{
		Type:            entry.IntegrationType,
		Description:     describeIntegration(entry, symbol),
		Steps:           stepsFor(entry.IntegrationType, symbol),
		Effort:          "medium",
		ExpectedBenefit: benefitFor(entry.IntegrationType),
		Risk:            symbol.Risk,
	}
	if entry.SimilarPattern != "" {
		opportunity.ReferencePatterns = []string{entry.SimilarPattern}
	}
	return opportunity
}

func describeIntegration(entry Entry, symbol classify.Symbol) string {
	description := fmt.Sprintf("Wire %q into the %s flow of %s", symbol.Name, entry.IntegrationType, symbol.File)
	if entry.SimilarPattern != "" {
		description += fmt.Sprintf(", following the pattern in %s", entry.SimilarPattern)
	}
	return description
}

func benefitFor(integrationType string) string {
	if integrationType == TypeAuditLogging {
		return "high"
	}
	return "medium"
}

func stepsFor(integrationType string, symbol classify.Symbol) []string {
	switch integrationType {
	case TypeInputSanitization:
		return []string{
			fmt.Sprintf("Identify the input boundaries in %s that bypass %q", symbol.File, symbol.Name),
			fmt.Sprintf("Call %s.sanitize on each external input before processing", symbol.Name),
			"Add tests covering malformed and hostile inputs",
		}
	case TypeErrorHandling:
		return []string{
			fmt.Sprintf("Wrap the failure-prone operations in %s with %s.handleError", symbol.File, symbol.Name),
			"Propagate handled errors through the existing result paths",
			"Add tests asserting the handler receives thrown errors",
		}
	case TypeAuditLogging:
		return []string{
			fmt.Sprintf("Emit an audit event through %q for each security-relevant operation in %s", symbol.Name, symbol.File),
			"Include actor, action, and outcome in every audit record",
			"Verify audit entries appear for both success and failure paths",
		}
	default:
		return []string{
			fmt.Sprintf("Route the relevant operations in %s through %q instead of direct calls", symbol.File, symbol.Name),
			"Remove any now-redundant direct service construction",
			"Add an integration test exercising the new call path",
		}
	}
}
