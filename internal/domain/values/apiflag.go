package values

import (
	"fmt"
	"sort"
	"strings"
)

// APIFlag names an optional scheduler API that can be compiled into or out of
// the runtime. The set of enabled flags is the capability set the scheduler
// initializer consumes at startup.
type APIFlag string

const (
	// APIDelete includes task deletion.
	APIDelete APIFlag = "delete"
	// APICleanupResources includes the idle-time reclamation of deleted
	// tasks' stacks and control blocks.
	APICleanupResources APIFlag = "cleanup-resources"
	// APISuspend includes task suspension.
	APISuspend APIFlag = "suspend"
	// APIDelayUntil includes absolute-deadline delay.
	APIDelayUntil APIFlag = "delay-until"
	// APIDelay includes relative delay.
	APIDelay APIFlag = "delay"
	// APIStackHighWaterMark includes stack usage introspection.
	APIStackHighWaterMark APIFlag = "stack-high-water-mark"
	// APIPrioritySet includes dynamic priority changes.
	APIPrioritySet APIFlag = "priority-set"
	// APIPriorityGet includes priority queries.
	APIPriorityGet APIFlag = "priority-get"
)

// NewAPIFlag parses an API flag from its string form.
func NewAPIFlag(s string) (APIFlag, error) {
	f := APIFlag(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case APIDelete, APICleanupResources, APISuspend, APIDelayUntil,
		APIDelay, APIStackHighWaterMark, APIPrioritySet, APIPriorityGet:
		return f, nil
	default:
		return "", fmt.Errorf("invalid API flag: %q", s)
	}
}

// String returns the string representation.
func (f APIFlag) String() string {
	return string(f)
}

// APIFlagSet is the set of optional scheduler APIs enabled for one image.
type APIFlagSet map[APIFlag]bool

// NewAPIFlagSet builds a set from string names, rejecting unknown flags.
func NewAPIFlagSet(names []string) (APIFlagSet, error) {
	set := make(APIFlagSet, len(names))
	for _, name := range names {
		f, err := NewAPIFlag(name)
		if err != nil {
			return nil, err
		}
		set[f] = true
	}
	return set, nil
}

// Has reports whether the flag is enabled.
func (s APIFlagSet) Has(f APIFlag) bool {
	return s[f]
}

// Names returns the enabled flags in lexical order.
func (s APIFlagSet) Names() []string {
	names := make([]string, 0, len(s))
	for f, on := range s {
		if on {
			names = append(names, string(f))
		}
	}
	sort.Strings(names)
	return names
}
