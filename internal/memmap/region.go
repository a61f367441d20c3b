// Package memmap models the physical memory map of a firmware image: named
// regions bound to hardware memory devices, and the assignment of linker
// sections to those regions.
package memmap

import "fmt"

// Region is one contiguous address range bound to a single memory device.
// Bounds are fixed when the region is declared and never change.
type Region struct {
	Name string `json:"name" yaml:"name"`
	Base uint32 `json:"base" yaml:"base"`
	Span uint32 `json:"span" yaml:"span"`
}

// NewRegion constructs a region, rejecting zero spans and ranges that wrap
// the 32-bit address space.
func NewRegion(name string, base, span uint32) (Region, error) {
	if name == "" {
		return Region{}, &RangeError{Entity: "region", Detail: "region name must not be empty"}
	}
	if span == 0 {
		return Region{}, &RangeError{Entity: name, Detail: "region span must be greater than zero"}
	}
	// End math in uint64: base+span is allowed to equal 2^32 (a region
	// touching the top of the address space) but must not exceed it.
	if uint64(base)+uint64(span) > 1<<32 {
		return Region{}, &RangeError{
			Entity: name,
			Detail: fmt.Sprintf("region [0x%X, +%d) wraps the 32-bit address space", base, span),
		}
	}
	return Region{Name: name, Base: base, Span: span}, nil
}

// End returns the exclusive upper bound of the region, computed in 64 bits so
// a region ending exactly at 2^32 does not wrap to zero.
func (r Region) End() uint64 {
	return uint64(r.Base) + uint64(r.Span)
}

// Overlaps reports whether two regions' address ranges intersect.
func (r Region) Overlaps(other Region) bool {
	return !(r.End() <= uint64(other.Base) || other.End() <= uint64(r.Base))
}

// Contains reports whether the given range lies entirely inside the region.
func (r Region) Contains(base uint32, span uint32) bool {
	return uint64(base) >= uint64(r.Base) && uint64(base)+uint64(span) <= r.End()
}

// String renders the region as name plus its half-open range.
func (r Region) String() string {
	return fmt.Sprintf("%s [0x%X, 0x%X)", r.Name, r.Base, r.End())
}
