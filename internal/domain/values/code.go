package values

// FindingCode identifies the class of a validation finding. Codes are stable:
// they appear in machine-readable output and are the second sort key of a
// report, so renaming one is a breaking change.
type FindingCode string

const (
	// CodeMalformedInput marks an unparseable or structurally invalid
	// configuration document. It aborts validation entirely.
	CodeMalformedInput FindingCode = "MalformedInput"

	// CodeDuplicateName marks a region re-declared with different bounds.
	CodeDuplicateName FindingCode = "DuplicateNameError"

	// CodeOverlap marks two differently-named regions with intersecting
	// address ranges.
	CodeOverlap FindingCode = "OverlapError"

	// CodeNotFound marks a section assigned to an undeclared region.
	CodeNotFound FindingCode = "NotFoundError"

	// CodeRange marks a scalar parameter outside its permitted range.
	CodeRange FindingCode = "RangeError"

	// CodeInterruptPriorityOrdering marks a kernel interrupt priority less
	// urgent than the syscall ceiling.
	CodeInterruptPriorityOrdering FindingCode = "InterruptPriorityOrderingError"

	// CodeFootprintOverflow marks a built section larger than the region
	// it is assigned to.
	CodeFootprintOverflow FindingCode = "FootprintOverflow"

	// CodeUnsafeIsrCall marks an ISR above the syscall ceiling that is
	// declared to invoke non-ISR-safe kernel operations.
	CodeUnsafeIsrCall FindingCode = "UnsafeIsrCall"

	// CodeRegionUnaddressable marks a region outside the board's
	// addressable range.
	CodeRegionUnaddressable FindingCode = "RegionUnaddressable"

	// CodePeripheralCollision marks a region intersecting a known
	// peripheral register window.
	CodePeripheralCollision FindingCode = "PeripheralCollision"

	// CodeHeapBackingTooSmall marks a heap backing region smaller than the
	// declared total heap size.
	CodeHeapBackingTooSmall FindingCode = "HeapBackingTooSmall"

	// CodeInsufficientHeap warns that the declared heap cannot cover the
	// worst-case expected stack demand. The bound is heuristic.
	CodeInsufficientHeap FindingCode = "InsufficientHeapWarning"

	// CodeDeleteWithoutCleanup warns that deleted tasks' resources may
	// never be reclaimed.
	CodeDeleteWithoutCleanup FindingCode = "DeleteWithoutCleanupWarning"

	// CodeCooperativeTick warns that a tick rate is declared while
	// preemption is disabled.
	CodeCooperativeTick FindingCode = "CooperativeTickWarning"

	// CodeTimerQueueUnusable warns that the timer service cannot accept
	// commands because its queue length is zero.
	CodeTimerQueueUnusable FindingCode = "TimerQueueUnusableWarning"

	// CodeUnusualFlagCombination warns about a flag combination that looks
	// deliberate but has no recorded rationale (delete enabled, suspend
	// disabled, stack overflow checking at method2).
	CodeUnusualFlagCombination FindingCode = "UnusualFlagCombinationWarning"
)

// String returns the string representation.
func (c FindingCode) String() string {
	return string(c)
}
