// Package config resolves triage settings from defaults, an optional
// config file, and command-line overrides, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
)

const (
	DefaultEstimateHighMinutes   = 30
	DefaultEstimateMediumMinutes = 60
	DefaultEstimateLowMinutes    = 120
)

// Values holds the fully resolved configuration used for a run.
type Values struct {
	EstimateHighMinutes    int
	EstimateMediumMinutes  int
	EstimateLowMinutes     int
	SecurityKeywords       []string
	CompositionRootMarkers []string
	ReferenceTablePath     string
}

// Overrides carries partially specified settings; nil fields fall
// through to the layer below.
type Overrides struct {
	EstimateHighMinutes    *int
	EstimateMediumMinutes  *int
	EstimateLowMinutes     *int
	SecurityKeywords       []string
	CompositionRootMarkers []string
	ReferenceTablePath     *string
}

func Defaults() Values {
	return Values{
		EstimateHighMinutes:    DefaultEstimateHighMinutes,
		EstimateMediumMinutes:  DefaultEstimateMediumMinutes,
		EstimateLowMinutes:     DefaultEstimateLowMinutes,
		SecurityKeywords:       classify.DefaultSecurityKeywords(),
		CompositionRootMarkers: []string{"index.ts", "main.ts", "composition-root"},
	}
}

// Estimates returns the per-confidence minute estimates in the shape
// the report aggregation consumes.
func (v *Values) Estimates() map[classify.Confidence]int {
	return map[classify.Confidence]int{
		classify.ConfidenceHigh:   v.EstimateHighMinutes,
		classify.ConfidenceMedium: v.EstimateMediumMinutes,
		classify.ConfidenceLow:    v.EstimateLowMinutes,
	}
}

func (v *Values) Validate() error {
	if err := validatePositiveMinutes("estimate_high_minutes", v.EstimateHighMinutes); err != nil {
		return err
	}
	if err := validatePositiveMinutes("estimate_medium_minutes", v.EstimateMediumMinutes); err != nil {
		return err
	}
	if err := validatePositiveMinutes("estimate_low_minutes", v.EstimateLowMinutes); err != nil {
		return err
	}
	if err := validateNonBlankEntries("security_keywords", v.SecurityKeywords); err != nil {
		return err
	}
	return validateNonBlankEntries("composition_root_markers", v.CompositionRootMarkers)
}

func (o *Overrides) Apply(base Values) Values {
	resolved := base
	if o.EstimateHighMinutes != nil {
		resolved.EstimateHighMinutes = *o.EstimateHighMinutes
	}
	if o.EstimateMediumMinutes != nil {
		resolved.EstimateMediumMinutes = *o.EstimateMediumMinutes
	}
	if o.EstimateLowMinutes != nil {
		resolved.EstimateLowMinutes = *o.EstimateLowMinutes
	}
	if o.SecurityKeywords != nil {
		resolved.SecurityKeywords = append([]string(nil), o.SecurityKeywords...)
	}
	if o.CompositionRootMarkers != nil {
		resolved.CompositionRootMarkers = append([]string(nil), o.CompositionRootMarkers...)
	}
	if o.ReferenceTablePath != nil {
		resolved.ReferenceTablePath = *o.ReferenceTablePath
	}
	return resolved
}

func (o *Overrides) Validate() error {
	if err := validateOptionalMinutes("estimate_high_minutes", o.EstimateHighMinutes); err != nil {
		return err
	}
	if err := validateOptionalMinutes("estimate_medium_minutes", o.EstimateMediumMinutes); err != nil {
		return err
	}
	if err := validateOptionalMinutes("estimate_low_minutes", o.EstimateLowMinutes); err != nil {
		return err
	}
	if o.SecurityKeywords != nil {
		if err := validateNonBlankEntries("security_keywords", o.SecurityKeywords); err != nil {
			return err
		}
	}
	if o.CompositionRootMarkers != nil {
		return validateNonBlankEntries("composition_root_markers", o.CompositionRootMarkers)
	}
	return nil
}

func validatePositiveMinutes(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("invalid setting %s: %d (must be > 0)", name, value)
	}
	return nil
}

func validateOptionalMinutes(name string, value *int) error {
	if value == nil {
		return nil
	}
	return validatePositiveMinutes(name, *value)
}

func validateNonBlankEntries(name string, entries []string) error {
	if len(entries) == 0 {
		return fmt.Errorf("invalid setting %s: must not be empty", name)
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("invalid setting %s: blank entry", name)
		}
	}
	return nil
}
