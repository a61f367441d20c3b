// Package config loads the firmware configuration document: the scheduler
// parameter block and the memory map declarations one image is built from.
// Parsing is strict; anything the schema or decoder rejects is malformed
// input and aborts before semantic validation.
package config

import (
	"fmt"
	"sort"

	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/memmap"
	"github.com/firmware-tools/preflight/internal/report"
	"github.com/firmware-tools/preflight/internal/sched"
)

// Document is the configuration document exactly as declared. It is decoded
// once and converted into the typed Image the validator consumes.
type Document struct {
	Image     ImageSection     `yaml:"image"`
	Scheduler SchedulerSection `yaml:"scheduler"`
	Memory    MemorySection    `yaml:"memory"`
}

// ImageSection identifies the image and its boot behavior.
type ImageSection struct {
	Name          string `yaml:"name"`
	SchemaVersion string `yaml:"schema_version"`
	LoadControl   string `yaml:"load_control"`
}

// SchedulerSection mirrors the scheduler.* namespace of the document.
// Required fields carry no defaults; the schema rejects their absence.
type SchedulerSection struct {
	Preemption                  bool     `yaml:"preemption"`
	TickRateHz                  uint32   `yaml:"tick_rate_hz"`
	MaxPriorities               uint32   `yaml:"max_priorities"`
	MinimalStackSize            uint32   `yaml:"minimal_stack_size"`
	IsrStackSize                uint32   `yaml:"isr_stack_size"`
	ExpectedMaxTasks            uint32   `yaml:"expected_max_tasks"`
	TimerTaskPriority           uint32   `yaml:"timer_task_priority"`
	TimerQueueLength            uint32   `yaml:"timer_queue_length"`
	TimerTaskStack              uint32   `yaml:"timer_task_stack"`
	TotalHeapSize               uint32   `yaml:"total_heap_size"`
	StackOverflowCheck          string   `yaml:"stack_overflow_check"`
	KernelInterruptPriority     uint32   `yaml:"kernel_interrupt_priority"`
	MaxSyscallInterruptPriority uint32   `yaml:"max_syscall_interrupt_priority"`
	CoRoutines                  bool     `yaml:"co_routines"`
	MaxCoRoutinePriorities      uint32   `yaml:"max_co_routine_priorities"`
	API                         []string `yaml:"api"`
}

// MemorySection mirrors the memory.* namespace: region declarations and
// section-to-region assignments.
type MemorySection struct {
	Regions  map[string]RegionDecl `yaml:"regions"`
	Sections map[string]string     `yaml:"sections"`
}

// RegionDecl declares one region's bounds.
type RegionDecl struct {
	Base uint32 `yaml:"base"`
	Span uint32 `yaml:"span"`
}

// Image is the immutable configuration value the rest of the system works
// from: the typed memory map, the scheduler parameters, and any structural
// findings accumulated while building them. It is constructed once and
// passed by reference; there is no other process-wide configuration state.
type Image struct {
	Name       string
	LoadMode   values.LoadMode
	Memory     *memmap.Map
	Scheduler  *sched.Parameters
	Structural []report.Finding
}

// Build converts the decoded document into an Image. Enum fields the schema
// already vetted fail hard here; region declarations that the memory map
// rejects become error findings so a single run reports all of them.
func (d *Document) Build() (*Image, error) {
	mode, err := values.NewLoadMode(d.Image.LoadControl)
	if err != nil {
		return nil, fmt.Errorf("image.load_control: %w", err)
	}

	overflowCheck, err := values.NewStackCheckMethod(d.Scheduler.StackOverflowCheck)
	if err != nil {
		return nil, fmt.Errorf("scheduler.stack_overflow_check: %w", err)
	}

	apiFlags, err := values.NewAPIFlagSet(d.Scheduler.API)
	if err != nil {
		return nil, fmt.Errorf("scheduler.api: %w", err)
	}

	mem, structural := d.Memory.build()

	params := &sched.Parameters{
		PreemptionEnabled:           d.Scheduler.Preemption,
		TickRateHz:                  d.Scheduler.TickRateHz,
		MaxPriorities:               d.Scheduler.MaxPriorities,
		MinimalStackSizeBytes:       d.Scheduler.MinimalStackSize,
		IsrStackSizeBytes:           d.Scheduler.IsrStackSize,
		ExpectedMaxTasks:            d.Scheduler.ExpectedMaxTasks,
		TimerTaskPriority:           d.Scheduler.TimerTaskPriority,
		TimerQueueLength:            d.Scheduler.TimerQueueLength,
		TimerTaskStackBytes:         d.Scheduler.TimerTaskStack,
		TotalHeapBytes:              d.Scheduler.TotalHeapSize,
		StackOverflowCheck:          overflowCheck,
		KernelInterruptPriority:     d.Scheduler.KernelInterruptPriority,
		MaxSyscallInterruptPriority: d.Scheduler.MaxSyscallInterruptPriority,
		CoRoutinesEnabled:           d.Scheduler.CoRoutines,
		MaxCoRoutinePriorities:      d.Scheduler.MaxCoRoutinePriorities,
		APIFlags:                    apiFlags,
	}

	return &Image{
		Name:       d.Image.Name,
		LoadMode:   mode,
		Memory:     mem,
		Scheduler:  params,
		Structural: structural,
	}, nil
}

// build declares regions in name order (so overlap findings do not depend on
// map iteration) and assigns sections in canonical section order.
func (m *MemorySection) build() (*memmap.Map, []report.Finding) {
	mem := memmap.New()
	var findings []report.Finding

	names := make([]string, 0, len(m.Regions))
	for name := range m.Regions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		decl := m.Regions[name]
		if err := mem.AddRegion(name, decl.Base, decl.Span); err != nil {
			findings = append(findings, regionFinding(name, err))
		}
	}

	for _, section := range values.Sections {
		regionName, ok := m.Sections[section.String()]
		if !ok {
			continue // validator reports missing assignments
		}
		if err := mem.AssignSection(section, regionName); err != nil {
			findings = append(findings, report.Errorf(values.CodeNotFound,
				[]string{"section:" + section.String(), "region:" + regionName},
				"section %s: %v", section, err))
		}
	}

	return mem, findings
}

// regionFinding maps a memory map construction error to the finding code of
// its class.
func regionFinding(name string, err error) report.Finding {
	entities := []string{"region:" + name}
	switch err.(type) {
	case *memmap.DuplicateNameError:
		return report.Errorf(values.CodeDuplicateName, entities, "%v", err)
	case *memmap.OverlapError:
		return report.Errorf(values.CodeOverlap, entities, "%v", err)
	default:
		return report.Errorf(values.CodeRange, entities, "%v", err)
	}
}
