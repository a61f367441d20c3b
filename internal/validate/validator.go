// Package validate cross-checks the memory map and scheduler parameters of a
// firmware image against a board profile and produces the ordered validation
// report the boot sequencer consumes.
package validate

import (
	"fmt"

	"github.com/firmware-tools/preflight/internal/board"
	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/memmap"
	"github.com/firmware-tools/preflight/internal/report"
	"github.com/firmware-tools/preflight/internal/sched"
)

// Validator runs the consistency checks for one configuration. All checks
// are pure functions of the inputs and accumulate findings rather than
// stopping at the first problem; the final ordering is deterministic.
type Validator struct {
	profile *board.Profile
}

// New creates a validator bound to a board profile.
func New(profile *board.Profile) *Validator {
	return &Validator{profile: profile}
}

// Validate checks the memory map and scheduler parameters against each other
// and the board profile. The image name only labels the report. Structural
// findings accumulated while the configuration was built (rejected regions,
// dangling assignments) are folded into the same report so one run surfaces
// every problem.
func (v *Validator) Validate(image string, mem *memmap.Map, params *sched.Parameters, prior []report.Finding) *report.Report {
	findings := make([]report.Finding, 0, len(prior))
	findings = append(findings, prior...)

	findings = append(findings, v.checkAssignments(mem)...)
	findings = append(findings, v.checkRegionsAddressable(mem)...)
	findings = append(findings, params.Validate()...)
	findings = append(findings, v.checkFootprints(mem)...)
	findings = append(findings, v.checkHeapBacking(mem, params)...)
	findings = append(findings, v.checkISRs(params)...)

	return report.New(image, findings)
}

// checkAssignments verifies every linker section resolves to a declared
// region. The loader already rejects dangling names; this catches sections
// that were never assigned at all.
func (v *Validator) checkAssignments(mem *memmap.Map) []report.Finding {
	var findings []report.Finding
	for _, section := range mem.MissingSections() {
		findings = append(findings, report.Errorf(values.CodeNotFound,
			[]string{entSection(section)},
			"section %s has no region assignment", section))
	}
	return findings
}

// checkRegionsAddressable verifies each region lies inside the board's
// addressable range and clear of peripheral register windows.
func (v *Validator) checkRegionsAddressable(mem *memmap.Map) []report.Finding {
	var findings []report.Finding
	addr := v.profile.Addressable

	for _, region := range mem.Regions() {
		if uint64(region.Base) < uint64(addr.Base) || region.End() > addr.End() {
			findings = append(findings, report.Errorf(values.CodeRegionUnaddressable,
				[]string{entRegion(region.Name)},
				"region %s extends outside the addressable range [0x%X, 0x%X)",
				region, addr.Base, addr.End()))
		}

		for _, p := range v.profile.Peripherals {
			window := memmap.Region{Name: p.Name, Base: p.Base, Span: p.Span}
			if region.Overlaps(window) {
				findings = append(findings, report.Errorf(values.CodePeripheralCollision,
					[]string{entRegion(region.Name), "peripheral:" + p.Name},
					"region %s intersects the %s register window %s",
					region, p.Name, window))
			}
		}
	}
	return findings
}

// checkFootprints verifies each assigned region can hold the built size the
// board profile estimates for its section.
func (v *Validator) checkFootprints(mem *memmap.Map) []report.Finding {
	var findings []report.Finding
	for _, a := range mem.Assignments() {
		size, ok := v.profile.SectionSize(a.Section)
		if !ok {
			continue // profile carries no estimate for this section
		}
		if uint64(size) > uint64(a.Region.Span) {
			findings = append(findings, report.Errorf(values.CodeFootprintOverflow,
				[]string{entSection(a.Section), entRegion(a.Region.Name)},
				"section %s needs %d bytes but region %s spans only %d",
				a.Section, size, a.Region.Name, a.Region.Span))
		}
	}
	return findings
}

// checkHeapBacking verifies the region backing the scheduler heap can hold
// the declared heap. The heap is carved out of the read-write data device,
// so the rwdata assignment identifies the backing region.
func (v *Validator) checkHeapBacking(mem *memmap.Map, params *sched.Parameters) []report.Finding {
	region, err := mem.RegionFor(values.SectionRwdata)
	if err != nil {
		return nil // missing assignment is already reported
	}

	if uint64(params.TotalHeapBytes) > uint64(region.Span) {
		return []report.Finding{report.Errorf(values.CodeHeapBackingTooSmall,
			[]string{"scheduler.total_heap_size", entRegion(region.Name)},
			"declared heap of %d bytes exceeds the %d-byte span of backing region %s",
			params.TotalHeapBytes, region.Span, region.Name)}
	}
	return nil
}

// checkISRs verifies no ISR declared at a priority numerically above the
// syscall ceiling invokes general kernel operations. Beyond the ceiling only
// interrupt-safe entry points are legal.
func (v *Validator) checkISRs(params *sched.Parameters) []report.Finding {
	var findings []report.Finding
	for _, isr := range v.profile.ISRs {
		if isr.Priority > params.MaxSyscallInterruptPriority && isr.KernelCalls == board.CallsGeneral {
			findings = append(findings, report.Errorf(values.CodeUnsafeIsrCall,
				[]string{"isr:" + isr.Name, "scheduler.max_syscall_interrupt_priority"},
				"ISR %s at priority %d is above the syscall ceiling %d but invokes general kernel operations",
				isr.Name, isr.Priority, params.MaxSyscallInterruptPriority))
		}
	}
	return findings
}

func entRegion(name string) string {
	return "region:" + name
}

func entSection(section values.Section) string {
	return fmt.Sprintf("section:%s", section)
}
