package values

import (
	"fmt"
	"strings"
)

// Section identifies one of the linker output sections an image places into a
// memory region.
type Section string

const (
	// SectionExceptions holds the exception vector table.
	SectionExceptions Section = "exceptions"
	// SectionReset holds the reset vector and early boot stub.
	SectionReset Section = "reset"
	// SectionRodata holds initialized read-only data.
	SectionRodata Section = "rodata"
	// SectionRwdata holds initialized read-write data (and the runtime
	// heap, which the allocator carves out of the same device).
	SectionRwdata Section = "rwdata"
	// SectionText holds executable code.
	SectionText Section = "text"
)

// Sections lists every linker section in canonical order. Iteration over
// assignments follows this order so reports are reproducible.
var Sections = []Section{
	SectionExceptions,
	SectionReset,
	SectionRodata,
	SectionRwdata,
	SectionText,
}

// NewSection parses a section name from its string form.
func NewSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	if err := sec.Validate(); err != nil {
		return "", err
	}
	return sec, nil
}

// Validate returns an error if the section value is invalid.
func (s Section) Validate() error {
	switch s {
	case SectionExceptions, SectionReset, SectionRodata, SectionRwdata, SectionText:
		return nil
	default:
		return fmt.Errorf("invalid section: %q", string(s))
	}
}

// String returns the string representation.
func (s Section) String() string {
	return string(s)
}

// CopiedDown reports whether the section participates in auto-load copy-down:
// sections whose run-time contents must be copied from the image store to
// their execution device before the entry point runs.
func (s Section) CopiedDown() bool {
	return s == SectionRodata || s == SectionRwdata
}
