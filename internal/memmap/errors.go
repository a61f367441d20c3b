package memmap

import "fmt"

// DuplicateNameError indicates a region was re-declared with different
// bounds. Identical re-declaration is idempotent and does not produce one.
type DuplicateNameError struct {
	Name     string
	Existing Region
	Proposed Region
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("region %q already declared with different bounds: have %s, got %s",
		e.Name, e.Existing, e.Proposed)
}

// OverlapError indicates two differently-named regions with intersecting
// address ranges.
type OverlapError struct {
	Existing Region
	Proposed Region
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("region %s overlaps declared region %s", e.Proposed, e.Existing)
}

// NotFoundError indicates a reference to an undeclared region.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("region %q is not declared", e.Name)
}

// RangeError indicates a structurally invalid value: a zero span, a wrapped
// address range, an empty name.
type RangeError struct {
	Entity string
	Detail string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Detail)
}

// AssignmentError indicates a section assigned more than once.
type AssignmentError struct {
	Section  string
	Existing string
	Proposed string
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("section %s already assigned to region %q (got %q)",
		e.Section, e.Existing, e.Proposed)
}
