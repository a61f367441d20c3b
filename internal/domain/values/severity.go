// Package values defines the small value types shared across the validator:
// severities, verdicts, finding codes, linker sections, and the scheduler
// capability flags.
package values

import (
	"fmt"
	"strings"
)

// Severity classifies a finding. Errors block boot; warnings are advisory
// unless the caller escalates them.
type Severity string

const (
	// SeverityError marks a finding that makes the image unbootable.
	SeverityError Severity = "error"
	// SeverityWarning marks an advisory finding. Boot proceeds unless
	// warnings are escalated (--strict).
	SeverityWarning Severity = "warning"
)

// NewSeverity parses a severity from its string form.
func NewSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	default:
		return "", fmt.Errorf("invalid severity: %q", s)
	}
}

// Rank returns the sort rank of the severity. Errors sort before warnings so
// reports lead with what blocks boot.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// IsBlocking reports whether the severity prevents boot.
func (s Severity) IsBlocking() bool {
	return s == SeverityError
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// Validate returns an error if the severity value is invalid.
func (s Severity) Validate() error {
	switch s {
	case SeverityError, SeverityWarning:
		return nil
	default:
		return fmt.Errorf("invalid severity: %q", string(s))
	}
}

// Verdict is the aggregate outcome of one validation run.
type Verdict string

const (
	// VerdictClean means no findings at all.
	VerdictClean Verdict = "clean"
	// VerdictWarning means warnings only.
	VerdictWarning Verdict = "warning"
	// VerdictError means at least one error finding exists.
	VerdictError Verdict = "error"
)

// String returns the string representation.
func (v Verdict) String() string {
	return string(v)
}

// Bootable reports whether a boot sequencer may transfer control to the
// runtime under this verdict.
func (v Verdict) Bootable() bool {
	return v != VerdictError
}
