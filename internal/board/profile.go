// Package board loads the board profile: the externally supplied description
// of the target hardware the configuration is validated against. The profile
// carries the addressable range, known peripheral register windows, the
// built size of each linker section, and the ISRs the board support package
// declares.
package board

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/firmware-tools/preflight/internal/domain/values"
)

// KernelCallClass describes which kernel entry points an ISR invokes.
type KernelCallClass string

const (
	// CallsNone means the ISR never enters the kernel.
	CallsNone KernelCallClass = "none"
	// CallsISRSafe means the ISR only uses interrupt-safe entry points.
	CallsISRSafe KernelCallClass = "isr-safe"
	// CallsGeneral means the ISR uses general kernel operations, which is
	// only legal at or below the syscall priority ceiling.
	CallsGeneral KernelCallClass = "general"
)

// Validate returns an error if the call class is invalid.
func (c KernelCallClass) Validate() error {
	switch c {
	case CallsNone, CallsISRSafe, CallsGeneral:
		return nil
	default:
		return fmt.Errorf("invalid kernel call class: %q (expected none, isr-safe or general)", string(c))
	}
}

// AddressRange is a half-open [Base, Base+Span) window of the address space.
type AddressRange struct {
	Base uint32 `yaml:"base"`
	Span uint32 `yaml:"span"`
}

// End returns the exclusive upper bound, computed in 64 bits.
func (r AddressRange) End() uint64 {
	return uint64(r.Base) + uint64(r.Span)
}

// Peripheral is a memory-mapped peripheral register window. Linker regions
// must not intersect it.
type Peripheral struct {
	Name string `yaml:"name"`
	Base uint32 `yaml:"base"`
	Span uint32 `yaml:"span"`
}

// ISR is an interrupt service routine declared by the board support package.
type ISR struct {
	Name        string          `yaml:"name"`
	Priority    uint32          `yaml:"priority"`
	KernelCalls KernelCallClass `yaml:"kernel_calls"`
}

// Profile is the board description. It is supplied, not computed: the
// validator trusts its section size estimates the way the linker map trusts
// the SOPC system description it was generated from.
type Profile struct {
	Name         string            `yaml:"name"`
	Addressable  AddressRange      `yaml:"addressable"`
	Peripherals  []Peripheral      `yaml:"peripherals"`
	SectionSizes map[string]uint32 `yaml:"section_sizes"`
	ISRs         []ISR             `yaml:"isrs"`
}

type profileDocument struct {
	Board Profile `yaml:"board"`
}

// Load reads a board profile from a YAML file.
func Load(path string) (*Profile, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open board profile directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open board profile: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return LoadFromReader(file)
}

// LoadFromReader reads a board profile from an io.Reader.
func LoadFromReader(r io.Reader) (*Profile, error) {
	var doc profileDocument

	decoder := yaml.NewDecoder(r, yaml.Strict())
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode board profile YAML: %w", err)
	}

	profile := doc.Board
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("board profile validation failed: %w", err)
	}

	return &profile, nil
}

// Validate checks the structural consistency of the profile itself.
func (p *Profile) Validate() error {
	var errs []string

	if p.Name == "" {
		errs = append(errs, "board name is required")
	}
	if p.Addressable.Span == 0 {
		errs = append(errs, "addressable range span must be greater than zero")
	}
	if p.Addressable.End() > 1<<32 {
		errs = append(errs, "addressable range wraps the 32-bit address space")
	}

	for section := range p.SectionSizes {
		if _, err := values.NewSection(section); err != nil {
			errs = append(errs, err.Error())
		}
	}

	for _, isr := range p.ISRs {
		if isr.Name == "" {
			errs = append(errs, "ISR name is required")
		}
		if err := isr.KernelCalls.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("ISR %s: %s", isr.Name, err.Error()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// SectionSize returns the built size estimate for a section, and whether the
// profile carries one.
func (p *Profile) SectionSize(section values.Section) (uint32, bool) {
	size, ok := p.SectionSizes[section.String()]
	return size, ok
}
