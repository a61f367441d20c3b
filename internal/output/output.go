// Package output provides formatters for validation results.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/firmware-tools/preflight/internal/boot"
	"github.com/firmware-tools/preflight/internal/report"
)

// Result is what the CLI emits for one configuration document: the ordered
// validation report and the boot sequencer's decision under it. The run ID
// and timestamp are emission metadata stamped here; the report itself stays
// a pure function of the validated inputs.
type Result struct {
	RunID       string         `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
	Path        string         `json:"path" yaml:"path"`
	Report      *report.Report `json:"report" yaml:"report"`
	Boot        *boot.Outcome  `json:"boot" yaml:"boot"`
}

// NewResult wraps a report for emission, stamping the run identity and
// generation time.
func NewResult(path string, rep *report.Report, outcome *boot.Outcome) *Result {
	return &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Path:        path,
		Report:      rep,
		Boot:        outcome,
	}
}

// Formatter renders a result to a writer.
type Formatter interface {
	Format(result *Result) error
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	case "sarif":
		return NewSARIFFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: table, json, yaml, sarif)", name)
	}
}
