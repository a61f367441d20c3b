package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmware-tools/preflight/internal/board"
	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/memmap"
	"github.com/firmware-tools/preflight/internal/report"
	"github.com/firmware-tools/preflight/internal/sched"
)

func relayMap(t *testing.T) *memmap.Map {
	t.Helper()
	m := memmap.New()
	require.NoError(t, m.AddRegion("onchip_memory_before_exception", 0x0, 32))
	require.NoError(t, m.AddRegion("onchip_memory", 0x20, 204768))
	require.NoError(t, m.AddRegion("reset", 0x1000000, 32))
	require.NoError(t, m.AddRegion("flash_controller", 0x1000020, 8388576))
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))

	require.NoError(t, m.AssignSection(values.SectionExceptions, "onchip_memory"))
	require.NoError(t, m.AssignSection(values.SectionReset, "flash_controller"))
	require.NoError(t, m.AssignSection(values.SectionRodata, "sdram"))
	require.NoError(t, m.AssignSection(values.SectionRwdata, "sdram"))
	require.NoError(t, m.AssignSection(values.SectionText, "onchip_memory"))
	return m
}

func relayParams() *sched.Parameters {
	flags, _ := values.NewAPIFlagSet([]string{
		"delete", "cleanup-resources", "suspend", "delay-until", "delay", "stack-high-water-mark",
	})
	return &sched.Parameters{
		PreemptionEnabled:           true,
		TickRateHz:                  1000,
		MaxPriorities:               12,
		MinimalStackSizeBytes:       4096,
		IsrStackSizeBytes:           4096,
		ExpectedMaxTasks:            8,
		TimerTaskPriority:           3,
		TimerQueueLength:            10,
		TimerTaskStackBytes:         2048,
		TotalHeapBytes:              512000,
		StackOverflowCheck:          values.StackCheckMethod1,
		KernelInterruptPriority:     1,
		MaxSyscallInterruptPriority: 3,
		APIFlags:                    flags,
	}
}

func relayBoard() *board.Profile {
	return &board.Profile{
		Name:        "nios2-freqrelay",
		Addressable: board.AddressRange{Base: 0x0, Span: 0x10000000},
		Peripherals: []board.Peripheral{
			{Name: "jtag_uart", Base: 0x2000000, Span: 64},
		},
		SectionSizes: map[string]uint32{
			"exceptions": 32,
			"reset":      32,
			"rodata":     16384,
			"rwdata":     65536,
			"text":       131072,
		},
		ISRs: []board.ISR{
			{Name: "freq_sampler", Priority: 6, KernelCalls: board.CallsISRSafe},
			{Name: "keypad", Priority: 2, KernelCalls: board.CallsGeneral},
		},
	}
}

func codes(rep *report.Report) []values.FindingCode {
	out := make([]values.FindingCode, 0, len(rep.Findings))
	for _, f := range rep.Findings {
		out = append(out, f.Code)
	}
	return out
}

func TestValidate_CleanConfiguration(t *testing.T) {
	v := New(relayBoard())
	rep := v.Validate("freqrelay", relayMap(t), relayParams(), nil)

	assert.Equal(t, values.VerdictClean, rep.Verdict, "findings: %v", rep.Findings)
	assert.True(t, rep.Bootable())
	assert.Equal(t, "freqrelay", rep.Image)
}

func TestValidate_PriorFindingsFoldedIn(t *testing.T) {
	v := New(relayBoard())
	prior := []report.Finding{
		report.Errorf(values.CodeOverlap, []string{"region:shadow"}, "shadow overlaps sdram"),
	}

	rep := v.Validate("freqrelay", relayMap(t), relayParams(), prior)
	assert.Equal(t, values.VerdictError, rep.Verdict)
	assert.Contains(t, codes(rep), values.CodeOverlap)
}

func TestValidate_MissingSectionAssignment(t *testing.T) {
	m := memmap.New()
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))
	require.NoError(t, m.AssignSection(values.SectionRwdata, "sdram"))

	v := New(relayBoard())
	rep := v.Validate("freqrelay", m, relayParams(), nil)

	assert.Equal(t, values.VerdictError, rep.Verdict)
	// exceptions, reset, rodata, text are unassigned.
	n := 0
	for _, f := range rep.Findings {
		if f.Code == values.CodeNotFound {
			n++
		}
	}
	assert.Equal(t, 4, n)
}

func TestValidate_FootprintOverflow(t *testing.T) {
	b := relayBoard()
	b.SectionSizes["text"] = 204769 // one byte past the onchip span

	v := New(b)
	rep := v.Validate("freqrelay", relayMap(t), relayParams(), nil)

	assert.Contains(t, codes(rep), values.CodeFootprintOverflow)
	assert.Equal(t, values.VerdictError, rep.Verdict)
}

func TestValidate_FootprintExactFitPasses(t *testing.T) {
	b := relayBoard()
	b.SectionSizes["text"] = 204768

	v := New(b)
	rep := v.Validate("freqrelay", relayMap(t), relayParams(), nil)

	assert.NotContains(t, codes(rep), values.CodeFootprintOverflow)
}

func TestValidate_HeapBackingTooSmall(t *testing.T) {
	m := relayMap(t)
	params := relayParams()

	// Rebind rwdata (the heap backing) to the tiny onchip region by
	// rebuilding the map; assignments are write-once.
	small := memmap.New()
	require.NoError(t, small.AddRegion("onchip_memory", 0x20, 204768))
	require.NoError(t, small.AssignSection(values.SectionRwdata, "onchip_memory"))
	require.NoError(t, small.AssignSection(values.SectionExceptions, "onchip_memory"))
	require.NoError(t, small.AssignSection(values.SectionReset, "onchip_memory"))
	require.NoError(t, small.AssignSection(values.SectionRodata, "onchip_memory"))
	require.NoError(t, small.AssignSection(values.SectionText, "onchip_memory"))

	params.TotalHeapBytes = 512000 // larger than the 204768-byte span

	v := New(relayBoard())
	rep := v.Validate("freqrelay", small, params, nil)
	assert.Contains(t, codes(rep), values.CodeHeapBackingTooSmall)

	// The original layout backs the heap with SDRAM and passes.
	rep = v.Validate("freqrelay", m, relayParams(), nil)
	assert.NotContains(t, codes(rep), values.CodeHeapBackingTooSmall)
}

func TestValidate_UnsafeIsrCall(t *testing.T) {
	b := relayBoard()
	b.ISRs = append(b.ISRs, board.ISR{
		Name: "dma_done", Priority: 5, KernelCalls: board.CallsGeneral,
	})

	v := New(b)
	rep := v.Validate("freqrelay", relayMap(t), relayParams(), nil)

	assert.Contains(t, codes(rep), values.CodeUnsafeIsrCall)

	var offender report.Finding
	for _, f := range rep.Findings {
		if f.Code == values.CodeUnsafeIsrCall {
			offender = f
		}
	}
	assert.Contains(t, offender.Entities, "isr:dma_done")
}

func TestValidate_IsrSafeCallsAboveCeilingAllowed(t *testing.T) {
	// freq_sampler at priority 6 > ceiling 3 but only uses isr-safe
	// entry points; keypad uses general calls below the ceiling.
	v := New(relayBoard())
	rep := v.Validate("freqrelay", relayMap(t), relayParams(), nil)

	assert.NotContains(t, codes(rep), values.CodeUnsafeIsrCall)
}

func TestValidate_RegionOutsideAddressableRange(t *testing.T) {
	m := relayMap(t)
	require.NoError(t, m.AddRegion("expansion", 0x20000000, 4096))

	v := New(relayBoard())
	rep := v.Validate("freqrelay", m, relayParams(), nil)

	assert.Contains(t, codes(rep), values.CodeRegionUnaddressable)
}

func TestValidate_PeripheralCollision(t *testing.T) {
	m := relayMap(t)
	require.NoError(t, m.AddRegion("rogue", 0x2000000, 128))

	v := New(relayBoard())
	rep := v.Validate("freqrelay", m, relayParams(), nil)

	assert.Contains(t, codes(rep), values.CodePeripheralCollision)
}

func TestValidate_Deterministic(t *testing.T) {
	b := relayBoard()
	b.SectionSizes["rodata"] = 1 << 30 // force a footprint error
	params := relayParams()
	params.TotalHeapBytes = 100 // force a heap warning

	v := New(b)
	first := v.Validate("freqrelay", relayMap(t), params, nil)
	second := v.Validate("freqrelay", relayMap(t), params, nil)

	// Byte-identical reports for unchanged inputs, not just matching
	// finding lists.
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestValidate_ErrorsSortBeforeWarnings(t *testing.T) {
	b := relayBoard()
	b.SectionSizes["rodata"] = 1 << 30
	params := relayParams()
	params.TotalHeapBytes = 100

	v := New(b)
	rep := v.Validate("freqrelay", relayMap(t), params, nil)

	require.NotEmpty(t, rep.Findings)
	assert.Equal(t, values.SeverityError, rep.Findings[0].Severity)
	last := rep.Findings[len(rep.Findings)-1]
	assert.Equal(t, values.SeverityWarning, last.Severity)
}
