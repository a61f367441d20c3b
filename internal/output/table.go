package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/report"
)

// TableFormatter formats a validation result as a human-readable table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the result as a table.
func (f *TableFormatter) Format(result *Result) error {
	rep := result.Report

	fmt.Fprintf(f.writer, "Image: %s (%s)\n", rep.Image, result.Path)
	fmt.Fprintf(f.writer, "Validated: %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Run: %s\n", result.RunID)
	fmt.Fprintln(f.writer)

	if len(rep.Findings) == 0 {
		fmt.Fprintln(f.writer, "No findings.")
	} else {
		fmt.Fprintln(f.writer, "Findings:")
		fmt.Fprintln(f.writer, strings.Repeat("─", 80))
		for _, finding := range rep.Findings {
			f.formatFinding(finding)
		}
		fmt.Fprintln(f.writer, strings.Repeat("─", 80))
	}
	fmt.Fprintln(f.writer)

	f.formatSummary(rep.Summary, rep.Verdict)

	if result.Boot != nil {
		fmt.Fprintln(f.writer)
		f.formatBoot(result)
	}

	return nil
}

func (f *TableFormatter) formatFinding(finding report.Finding) {
	fmt.Fprintf(f.writer, "%s %s: %s\n",
		f.severitySymbol(finding.Severity), finding.Code, finding.Message)
	if len(finding.Entities) > 0 {
		fmt.Fprintf(f.writer, "  Entities: %s\n", strings.Join(finding.Entities, ", "))
	}
}

func (f *TableFormatter) formatSummary(summary report.Summary, verdict values.Verdict) {
	fmt.Fprintln(f.writer, "Summary:")
	fmt.Fprintf(f.writer, "  Findings: %d total\n", summary.Total)
	fmt.Fprintf(f.writer, "  ✗ Errors:   %d\n", summary.Errors)
	fmt.Fprintf(f.writer, "  ⚠ Warnings: %d\n", summary.Warnings)
	fmt.Fprintf(f.writer, "  Verdict: %s\n", strings.ToUpper(verdict.String()))
}

func (f *TableFormatter) formatBoot(result *Result) {
	states := make([]string, 0, len(result.Boot.Trace))
	for _, s := range result.Boot.Trace {
		states = append(states, string(s))
	}
	fmt.Fprintf(f.writer, "Boot: %s\n", strings.Join(states, " → "))

	for _, step := range result.Boot.CopyPlan {
		fmt.Fprintf(f.writer, "  copy-down %s: %s → %s\n", step.Section, step.From, step.To)
	}
}

func (f *TableFormatter) severitySymbol(severity values.Severity) string {
	switch severity {
	case values.SeverityError:
		return "✗"
	case values.SeverityWarning:
		return "⚠"
	default:
		return "?"
	}
}
