package memmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmware-tools/preflight/internal/domain/values"
)

func TestAddRegion_DisjointRegions(t *testing.T) {
	m := New()

	// The generated linker map of the reference design: all disjoint.
	require.NoError(t, m.AddRegion("onchip_memory_before_exception", 0x0, 32))
	require.NoError(t, m.AddRegion("onchip_memory", 0x20, 204768))
	require.NoError(t, m.AddRegion("reset", 0x1000000, 32))
	require.NoError(t, m.AddRegion("flash_controller", 0x1000020, 8388576))
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))

	assert.Len(t, m.Regions(), 5)
}

func TestAddRegion_OnchipAndFlashDoNotOverlap(t *testing.T) {
	// The first region ends at 0x31FE0, well below the flash base.
	a, err := NewRegion("onchip_memory", 0x20, 204768)
	require.NoError(t, err)
	b, err := NewRegion("flash_controller", 0x1000020, 8388576)
	require.NoError(t, err)

	assert.Equal(t, uint64(0x31FE0), a.End())
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))
}

func TestAddRegion_OverlapFails(t *testing.T) {
	tests := []struct {
		name             string
		base, span       uint32
		otherBase, other uint32
	}{
		{"identical ranges", 0x1000, 0x100, 0x1000, 0x100},
		{"head intersects", 0x1000, 0x100, 0x1080, 0x100},
		{"tail intersects", 0x1080, 0x100, 0x1000, 0x100},
		{"contained", 0x1000, 0x1000, 0x1400, 0x100},
		{"one byte shared", 0x1000, 0x101, 0x1100, 0x100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			require.NoError(t, m.AddRegion("first", tt.base, tt.span))

			err := m.AddRegion("second", tt.otherBase, tt.other)
			require.Error(t, err)

			var overlapErr *OverlapError
			require.ErrorAs(t, err, &overlapErr)
			assert.Equal(t, "first", overlapErr.Existing.Name)

			first, _ := NewRegion("first", tt.base, tt.span)
			second, _ := NewRegion("second", tt.otherBase, tt.other)
			assert.True(t, first.Overlaps(second))
		})
	}
}

func TestAddRegion_AdjacentRegionsDoNotOverlap(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("low", 0x1000, 0x100))
	require.NoError(t, m.AddRegion("high", 0x1100, 0x100))
}

func TestAddRegion_IdenticalRedeclarationIsIdempotent(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))

	assert.Len(t, m.Regions(), 1)
}

func TestAddRegion_SameNameDifferentBounds(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))

	err := m.AddRegion("sdram", 0x8000000, 64)
	var dupErr *DuplicateNameError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "sdram", dupErr.Name)
}

func TestAddRegion_RejectsZeroSpan(t *testing.T) {
	m := New()
	err := m.AddRegion("empty", 0x1000, 0)

	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestAddRegion_RejectsAddressSpaceWrap(t *testing.T) {
	m := New()

	// 0xFFFFFFF0 + 0x20 wraps past 2^32.
	err := m.AddRegion("wrapped", 0xFFFFFFF0, 0x20)
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)

	// Ending exactly at 2^32 is legal.
	require.NoError(t, m.AddRegion("top", 0xFFFFFFF0, 0x10))
}

func TestAssignSection(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("onchip_memory", 0x20, 204768))

	require.NoError(t, m.AssignSection(values.SectionText, "onchip_memory"))

	region, err := m.RegionFor(values.SectionText)
	require.NoError(t, err)
	assert.Equal(t, "onchip_memory", region.Name)
}

func TestAssignSection_UndeclaredRegion(t *testing.T) {
	m := New()

	err := m.AssignSection(values.SectionText, "nonexistent")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonexistent", notFound.Name)
}

func TestAssignSection_DoubleAssignment(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("onchip_memory", 0x20, 204768))
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))
	require.NoError(t, m.AssignSection(values.SectionText, "onchip_memory"))

	err := m.AssignSection(values.SectionText, "sdram")
	var assignErr *AssignmentError
	require.ErrorAs(t, err, &assignErr)
}

func TestResolve(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))

	region, err := m.Resolve("sdram")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x8000000), region.Base)

	_, err = m.Resolve("missing")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAssignments_CanonicalOrder(t *testing.T) {
	m := New()
	require.NoError(t, m.AddRegion("onchip_memory", 0x20, 204768))
	require.NoError(t, m.AddRegion("sdram", 0x8000000, 134217728))

	// Assign out of order; Assignments must come back canonical.
	require.NoError(t, m.AssignSection(values.SectionText, "onchip_memory"))
	require.NoError(t, m.AssignSection(values.SectionRodata, "sdram"))
	require.NoError(t, m.AssignSection(values.SectionExceptions, "onchip_memory"))

	assignments := m.Assignments()
	require.Len(t, assignments, 3)
	assert.Equal(t, values.SectionExceptions, assignments[0].Section)
	assert.Equal(t, values.SectionRodata, assignments[1].Section)
	assert.Equal(t, values.SectionText, assignments[2].Section)

	missing := m.MissingSections()
	assert.Equal(t, []values.Section{values.SectionReset, values.SectionRwdata}, missing)
}
