// Package boot interprets the validated configuration's load-control mode at
// the earliest startup stage. It decides, from the validation verdict and
// the declared load mode alone, whether control reaches the runtime entry
// point and which sections must be copied down first.
package boot

import (
	"log/slog"

	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/memmap"
	"github.com/firmware-tools/preflight/internal/report"
)

// State is one stage of the boot sequence.
type State string

const (
	// StateReset is the initial state after hardware reset.
	StateReset State = "RESET"
	// StateAutoLoad performs copy-down of initialized sections.
	StateAutoLoad State = "AUTO_LOAD"
	// StateExplicitLoad defers section population to an external loader.
	StateExplicitLoad State = "EXPLICIT_LOAD"
	// StateEntry transfers control to the runtime entry point. Terminal.
	StateEntry State = "ENTRY"
	// StateHalt stops the boot awaiting operator or debugger intervention.
	// Terminal.
	StateHalt State = "HALT"
)

// CopyStep is one copy-down operation: a section moved from the image store
// to its execution region before the entry point runs.
type CopyStep struct {
	Section values.Section `json:"section" yaml:"section"`
	From    memmap.Region  `json:"from" yaml:"from"`
	To      memmap.Region  `json:"to" yaml:"to"`
}

// Outcome is the result of running the sequencer: the terminal state, the
// ordered states traversed, and the copy-down plan (empty unless the
// sequence passed through AUTO_LOAD).
type Outcome struct {
	Terminal State      `json:"terminal" yaml:"terminal"`
	Trace    []State    `json:"trace" yaml:"trace"`
	CopyPlan []CopyStep `json:"copy_plan,omitempty" yaml:"copy_plan,omitempty"`
}

// Sequencer is the pre-runtime boot state machine. It consumes only the
// load-control mode and the validation verdict; it performs no I/O.
type Sequencer struct {
	mode values.LoadMode
	mem  *memmap.Map
}

// NewSequencer creates a sequencer for the given load mode and memory map.
func NewSequencer(mode values.LoadMode, mem *memmap.Map) *Sequencer {
	return &Sequencer{mode: mode, mem: mem}
}

// Run executes the state machine against a validation report. An
// error-severe report halts from RESET; otherwise the declared load mode
// selects the path to ENTRY.
func (s *Sequencer) Run(rep *report.Report) Outcome {
	trace := []State{StateReset}

	if !rep.Bootable() {
		slog.Debug("boot halted by validation verdict", "verdict", rep.Verdict.String())
		trace = append(trace, StateHalt)
		return Outcome{Terminal: StateHalt, Trace: trace}
	}

	var plan []CopyStep
	switch s.mode {
	case values.LoadModeAuto:
		trace = append(trace, StateAutoLoad)
		plan = s.copyPlan()
	case values.LoadModeExplicit:
		// RAM-resident sections are the external loader's
		// responsibility.
		trace = append(trace, StateExplicitLoad)
	default:
		// An unvalidated load mode reached the sequencer; never boot
		// on one.
		slog.Error("unknown load mode, halting", "mode", s.mode.String())
		trace = append(trace, StateHalt)
		return Outcome{Terminal: StateHalt, Trace: trace}
	}

	trace = append(trace, StateEntry)
	return Outcome{Terminal: StateEntry, Trace: trace, CopyPlan: plan}
}

// copyPlan lists the copy-down steps for auto load: each copied-down section
// moves from the image store (the region holding the reset section, where
// the image is programmed) to its assigned execution region. A copy whose
// source and destination coincide is dropped; the section already executes
// in place.
func (s *Sequencer) copyPlan() []CopyStep {
	store, err := s.mem.RegionFor(values.SectionReset)
	if err != nil {
		// No reset assignment: validation already reported it, and
		// there is nothing to copy from.
		return nil
	}

	var plan []CopyStep
	for _, a := range s.mem.Assignments() {
		if !a.Section.CopiedDown() {
			continue
		}
		if a.Region.Name == store.Name {
			continue
		}
		plan = append(plan, CopyStep{Section: a.Section, From: store, To: a.Region})
	}
	return plan
}
