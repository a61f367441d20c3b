package values

import (
	"fmt"
	"strings"
)

// StackCheckMethod selects the runtime stack overflow detection strategy.
type StackCheckMethod string

const (
	// StackCheckNone disables overflow detection.
	StackCheckNone StackCheckMethod = "none"
	// StackCheckMethod1 compares the stack pointer against the stack
	// limit on each context switch.
	StackCheckMethod1 StackCheckMethod = "method1"
	// StackCheckMethod2 additionally verifies a known fill pattern at the
	// stack limit. Slower, catches overflows between switches.
	StackCheckMethod2 StackCheckMethod = "method2"
)

// NewStackCheckMethod parses a stack check method from its string form.
func NewStackCheckMethod(s string) (StackCheckMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return StackCheckNone, nil
	case "method1":
		return StackCheckMethod1, nil
	case "method2":
		return StackCheckMethod2, nil
	default:
		return "", fmt.Errorf("invalid stack overflow check method: %q (expected none, method1 or method2)", s)
	}
}

// Validate returns an error if the method value is invalid.
func (m StackCheckMethod) Validate() error {
	switch m {
	case StackCheckNone, StackCheckMethod1, StackCheckMethod2:
		return nil
	default:
		return fmt.Errorf("invalid stack overflow check method: %q", string(m))
	}
}

// String returns the string representation.
func (m StackCheckMethod) String() string {
	return string(m)
}
