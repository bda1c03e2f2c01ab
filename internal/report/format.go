package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/classify"
)

type Formatter struct{}

func NewFormatter() Formatter {
	return Formatter{}
}

func (f Formatter) Format(reportData PhaseReport, format Format) (string, error) {
	switch format {
	case FormatTable:
		return formatTable(reportData), nil
	case FormatJSON:
		payload, err := json.MarshalIndent(reportData, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload) + "\n", nil
	default:
		return "", ErrUnknownFormat
	}
}

func formatTable(reportData PhaseReport) string {
	var buffer bytes.Buffer
	appendSummary(&buffer, reportData)
	appendPhaseBreakdown(&buffer, reportData.Phases)
	appendPrioritizedOrder(&buffer, reportData.PrioritizedOrder)
	appendWarnings(&buffer, reportData.Warnings)
	return buffer.String()
}

func appendSummary(buffer *bytes.Buffer, reportData PhaseReport) {
	totalMinutes := 0
	for _, phase := range reportData.Phases {
		totalMinutes += phase.EstimatedMinutes
	}
	_, _ = fmt.Fprintf(buffer, "Symbols: %d, estimated effort: %s\n\n",
		reportData.TotalSymbols, formatMinutes(totalMinutes))
}

func appendPhaseBreakdown(buffer *bytes.Buffer, phases []PhaseSummary) {
	buffer.WriteString("Phases:\n")
	for _, phase := range phases {
		_, _ = fmt.Fprintf(buffer, "- %s: %d symbol(s), %s", phase.Phase, phase.Count, formatMinutes(phase.EstimatedMinutes))
		if risks := formatRiskCounts(phase.ByRisk); risks != "" {
			buffer.WriteString(" [" + risks + "]")
		}
		buffer.WriteByte('\n')
	}
	buffer.WriteByte('\n')
}

func formatRiskCounts(byRisk map[classify.Risk]int) string {
	parts := make([]string, 0, 3)
	for _, risk := range []classify.Risk{classify.RiskHigh, classify.RiskMedium, classify.RiskLow} {
		if count := byRisk[risk]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", colorizeRisk(risk), count))
		}
	}
	return strings.Join(parts, ", ")
}

func appendPrioritizedOrder(buffer *bytes.Buffer, ordered []Result) {
	if len(ordered) == 0 {
		return
	}
	writer := tabwriter.NewWriter(buffer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "LOCATION\tSYMBOL\tKIND\tPHASE\tRISK\tPATTERN\tACTION\tCONF")
	for _, result := range ordered {
		_, _ = fmt.Fprintf(writer, "%s:%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			result.Symbol.File,
			result.Symbol.Line,
			result.Symbol.Name,
			result.Symbol.Kind,
			result.Symbol.Phase,
			colorizeRisk(result.Symbol.Risk),
			result.Profile.Pattern,
			result.Action,
			result.Confidence,
		)
	}
	_ = writer.Flush()
}

func appendWarnings(buffer *bytes.Buffer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	buffer.WriteString("\nWarnings:\n")
	for _, warning := range warnings {
		buffer.WriteString("- " + warning + "\n")
	}
}

func colorizeRisk(risk classify.Risk) string {
	switch risk {
	case classify.RiskHigh:
		return color.New(color.FgRed).Sprint(string(risk))
	case classify.RiskMedium:
		return color.New(color.FgYellow).Sprint(string(risk))
	default:
		return color.New(color.FgGreen).Sprint(string(risk))
	}
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
