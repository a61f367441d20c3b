package report

import (
	"github.com/firmware-tools/preflight/internal/domain/values"
)

// Report is the immutable outcome of validating one configuration document.
// It is a pure function of the inputs: validating an unchanged configuration
// twice yields byte-identical reports. Emission metadata (run ID, timestamp)
// lives on the output result, not here.
type Report struct {
	Image    string         `json:"image" yaml:"image"`
	Verdict  values.Verdict `json:"verdict" yaml:"verdict"`
	Findings []Finding      `json:"findings" yaml:"findings"`
	Summary  Summary        `json:"summary" yaml:"summary"`
}

// Summary counts findings by severity.
type Summary struct {
	Total    int `json:"total" yaml:"total"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// New assembles a report from accumulated findings: sorts them, counts them,
// and derives the verdict.
func New(image string, findings []Finding) *Report {
	Sort(findings)

	var summary Summary
	summary.Total = len(findings)
	for _, f := range findings {
		switch f.Severity {
		case values.SeverityError:
			summary.Errors++
		case values.SeverityWarning:
			summary.Warnings++
		}
	}

	verdict := values.VerdictClean
	switch {
	case summary.Errors > 0:
		verdict = values.VerdictError
	case summary.Warnings > 0:
		verdict = values.VerdictWarning
	}

	return &Report{
		Image:    image,
		Verdict:  verdict,
		Findings: findings,
		Summary:  summary,
	}
}

// Bootable reports whether the boot sequencer may transfer control to the
// runtime.
func (r *Report) Bootable() bool {
	return r.Verdict.Bootable()
}

// Filtered returns a display view of the report keeping only the findings
// the predicate accepts. The verdict is preserved: a filter narrows what is
// shown, never what was concluded.
func (r *Report) Filtered(keep func(Finding) bool) *Report {
	view := *r
	view.Findings = make([]Finding, 0, len(r.Findings))
	view.Summary = Summary{}

	for _, f := range r.Findings {
		if !keep(f) {
			continue
		}
		view.Findings = append(view.Findings, f)
		view.Summary.Total++
		switch f.Severity {
		case values.SeverityError:
			view.Summary.Errors++
		case values.SeverityWarning:
			view.Summary.Warnings++
		}
	}
	return &view
}
