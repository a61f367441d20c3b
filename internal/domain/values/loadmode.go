package values

import (
	"fmt"
	"strings"
)

// LoadMode selects how RAM-resident sections are populated at boot.
type LoadMode string

const (
	// LoadModeAuto performs copy-down of initialized sections from the
	// image store to their execution regions before the entry point runs.
	LoadModeAuto LoadMode = "auto"
	// LoadModeExplicit skips copy-down; an external loader is responsible
	// for populating RAM-resident sections.
	LoadModeExplicit LoadMode = "explicit"
)

// NewLoadMode parses a load-control mode from its string form.
func NewLoadMode(s string) (LoadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return LoadModeAuto, nil
	case "explicit":
		return LoadModeExplicit, nil
	default:
		return "", fmt.Errorf("invalid load-control mode: %q (expected auto or explicit)", s)
	}
}

// Validate returns an error if the load mode value is invalid.
func (m LoadMode) Validate() error {
	switch m {
	case LoadModeAuto, LoadModeExplicit:
		return nil
	default:
		return fmt.Errorf("invalid load-control mode: %q", string(m))
	}
}

// String returns the string representation.
func (m LoadMode) String() string {
	return string(m)
}
