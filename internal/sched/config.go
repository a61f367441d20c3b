// Package sched models the real-time scheduler parameters of one firmware
// image and their individual range checks. Cross-checks against the memory
// map and board profile live in the validate package.
package sched

import (
	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/report"
)

// Parameters holds the scheduler configuration exactly as declared. It is
// constructed once by the config loader and never mutated; no defaults are
// substituted for required fields.
//
// Interrupt priorities follow the target core's convention: a lower numeric
// value is a higher hardware urgency.
type Parameters struct {
	PreemptionEnabled bool
	TickRateHz        uint32
	MaxPriorities     uint32

	MinimalStackSizeBytes uint32
	IsrStackSizeBytes     uint32
	ExpectedMaxTasks      uint32

	TimerTaskPriority   uint32
	TimerQueueLength    uint32
	TimerTaskStackBytes uint32

	TotalHeapBytes              uint32
	StackOverflowCheck          values.StackCheckMethod
	KernelInterruptPriority     uint32
	MaxSyscallInterruptPriority uint32

	CoRoutinesEnabled      bool
	MaxCoRoutinePriorities uint32

	APIFlags values.APIFlagSet
}

// HeapLowerBound is the heuristic minimum heap demand: one minimal stack per
// expected concurrent task (at least the idle task), plus the timer service
// task's stack, plus the dedicated ISR stack. All task stacks are carved out
// of the scheduler heap on this port.
func (p *Parameters) HeapLowerBound() uint64 {
	tasks := uint64(p.ExpectedMaxTasks)
	if tasks == 0 {
		tasks = 1 // idle task always exists
	}
	bound := tasks * uint64(p.MinimalStackSizeBytes)
	bound += uint64(p.TimerTaskStackBytes)
	bound += uint64(p.IsrStackSizeBytes)
	return bound
}

// Capabilities returns the optional-API capability set the runtime
// initializer consumes to decide which scheduler features are active.
func (p *Parameters) Capabilities() values.APIFlagSet {
	return p.APIFlags
}

// Validate runs every per-parameter check and accumulates the findings. It
// never stops at the first problem and never panics; a single run surfaces
// everything wrong with the scheduler block.
func (p *Parameters) Validate() []report.Finding {
	var findings []report.Finding

	if p.TickRateHz == 0 {
		findings = append(findings, report.Errorf(values.CodeRange,
			[]string{"scheduler.tick_rate_hz"},
			"tick rate must be greater than zero"))
	}

	if p.MaxPriorities == 0 {
		findings = append(findings, report.Errorf(values.CodeRange,
			[]string{"scheduler.max_priorities"},
			"at least one task priority level is required"))
	}

	if p.MinimalStackSizeBytes == 0 {
		findings = append(findings, report.Errorf(values.CodeRange,
			[]string{"scheduler.minimal_stack_size"},
			"minimal task stack size must be greater than zero"))
	}

	if p.TimerTaskPriority >= p.MaxPriorities {
		findings = append(findings, report.Errorf(values.CodeRange,
			[]string{"scheduler.timer_task_priority", "scheduler.max_priorities"},
			"timer task priority %d is outside the valid range 0..%d",
			p.TimerTaskPriority, int64(p.MaxPriorities)-1))
	}

	if p.KernelInterruptPriority == 0 {
		findings = append(findings, report.Errorf(values.CodeRange,
			[]string{"scheduler.kernel_interrupt_priority"},
			"kernel interrupt priority 0 is the non-maskable level and cannot host the tick handler"))
	}

	if p.KernelInterruptPriority > p.MaxSyscallInterruptPriority {
		findings = append(findings, report.Errorf(values.CodeInterruptPriorityOrdering,
			[]string{"scheduler.kernel_interrupt_priority", "scheduler.max_syscall_interrupt_priority"},
			"kernel interrupt priority %d is less urgent than the syscall ceiling %d",
			p.KernelInterruptPriority, p.MaxSyscallInterruptPriority))
	}

	if bound := p.HeapLowerBound(); uint64(p.TotalHeapBytes) < bound {
		findings = append(findings, report.Warnf(values.CodeInsufficientHeap,
			[]string{"scheduler.total_heap_size"},
			"declared heap of %d bytes is below the estimated worst-case stack demand of %d bytes",
			p.TotalHeapBytes, bound))
	}

	if !p.PreemptionEnabled && p.TickRateHz > 0 {
		findings = append(findings, report.Warnf(values.CodeCooperativeTick,
			[]string{"scheduler.preemption", "scheduler.tick_rate_hz"},
			"tick rate %d Hz is declared but preemption is disabled; tasks reschedule only on yield",
			p.TickRateHz))
	}

	if p.TimerQueueLength == 0 && p.TimerTaskStackBytes > 0 {
		findings = append(findings, report.Warnf(values.CodeTimerQueueUnusable,
			[]string{"scheduler.timer_queue_length"},
			"timer service task is configured but its command queue length is zero"))
	}

	findings = append(findings, p.validateAPIFlags()...)

	// MaxCoRoutinePriorities stays unchecked while co-routines are
	// disabled; the value is inert.

	return findings
}

func (p *Parameters) validateAPIFlags() []report.Finding {
	var findings []report.Finding

	if p.APIFlags.Has(values.APIDelete) && !p.APIFlags.Has(values.APICleanupResources) {
		findings = append(findings, report.Warnf(values.CodeDeleteWithoutCleanup,
			[]string{"scheduler.api"},
			"task deletion is enabled without idle-time cleanup; deleted tasks' stacks and control blocks may never be reclaimed"))
	}

	if p.APIFlags.Has(values.APIDelete) && !p.APIFlags.Has(values.APISuspend) &&
		p.StackOverflowCheck == values.StackCheckMethod2 {
		findings = append(findings, report.Warnf(values.CodeUnusualFlagCombination,
			[]string{"scheduler.api", "scheduler.stack_overflow_check"},
			"task deletion is enabled without suspension while stack overflow checking runs at method2; this combination is rarely intended"))
	}

	return findings
}
