package memmap

import (
	"sort"

	"github.com/firmware-tools/preflight/internal/domain/values"
)

// Map holds the declared memory regions and the section-to-region
// assignments of one image. It is built once while the configuration is
// parsed and is read-only afterwards.
type Map struct {
	regions     map[string]Region
	assignments map[values.Section]string
}

// Assignment binds one linker section to a declared region.
type Assignment struct {
	Section values.Section `json:"section" yaml:"section"`
	Region  Region         `json:"region" yaml:"region"`
}

// New returns an empty memory map.
func New() *Map {
	return &Map{
		regions:     make(map[string]Region),
		assignments: make(map[values.Section]string),
	}
}

// AddRegion declares a region. Re-declaring identical bounds is a no-op.
// A name collision with different bounds fails with DuplicateNameError; an
// address range intersecting a differently-named region fails with
// OverlapError.
func (m *Map) AddRegion(name string, base, span uint32) error {
	region, err := NewRegion(name, base, span)
	if err != nil {
		return err
	}

	if existing, ok := m.regions[name]; ok {
		if existing == region {
			return nil
		}
		return &DuplicateNameError{Name: name, Existing: existing, Proposed: region}
	}

	for _, other := range m.sortedRegions() {
		if region.Overlaps(other) {
			return &OverlapError{Existing: other, Proposed: region}
		}
	}

	m.regions[name] = region
	return nil
}

// AssignSection binds a section to a declared region. Each section is
// assigned exactly once.
func (m *Map) AssignSection(section values.Section, regionName string) error {
	if err := section.Validate(); err != nil {
		return err
	}
	if _, ok := m.regions[regionName]; !ok {
		return &NotFoundError{Name: regionName}
	}
	if existing, ok := m.assignments[section]; ok {
		return &AssignmentError{Section: section.String(), Existing: existing, Proposed: regionName}
	}
	m.assignments[section] = regionName
	return nil
}

// Resolve returns the region declared under the given name.
func (m *Map) Resolve(name string) (Region, error) {
	region, ok := m.regions[name]
	if !ok {
		return Region{}, &NotFoundError{Name: name}
	}
	return region, nil
}

// RegionFor returns the region a section is assigned to.
func (m *Map) RegionFor(section values.Section) (Region, error) {
	name, ok := m.assignments[section]
	if !ok {
		return Region{}, &NotFoundError{Name: section.String()}
	}
	return m.Resolve(name)
}

// Regions returns the declared regions in name order.
func (m *Map) Regions() []Region {
	return m.sortedRegions()
}

// Assignments returns the section assignments in canonical section order.
// Sections without an assignment are skipped; MissingSections reports those.
func (m *Map) Assignments() []Assignment {
	out := make([]Assignment, 0, len(m.assignments))
	for _, section := range values.Sections {
		name, ok := m.assignments[section]
		if !ok {
			continue
		}
		out = append(out, Assignment{Section: section, Region: m.regions[name]})
	}
	return out
}

// MissingSections returns the sections that have no region assignment, in
// canonical order.
func (m *Map) MissingSections() []values.Section {
	var missing []values.Section
	for _, section := range values.Sections {
		if _, ok := m.assignments[section]; !ok {
			missing = append(missing, section)
		}
	}
	return missing
}

func (m *Map) sortedRegions() []Region {
	out := make([]Region, 0, len(m.regions))
	for _, r := range m.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
