// Package report defines validation findings and the ordered report built
// from them.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/firmware-tools/preflight/internal/domain/values"
)

// Finding is one validation result: a severity, a stable code, a
// human-readable message, and the configuration entities it implicates.
type Finding struct {
	Severity values.Severity    `json:"severity" yaml:"severity"`
	Code     values.FindingCode `json:"code" yaml:"code"`
	Message  string             `json:"message" yaml:"message"`
	Entities []string           `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// Errorf builds an error-severity finding.
func Errorf(code values.FindingCode, entities []string, format string, args ...interface{}) Finding {
	return Finding{
		Severity: values.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Entities: entities,
	}
}

// Warnf builds a warning-severity finding.
func Warnf(code values.FindingCode, entities []string, format string, args ...interface{}) Finding {
	return Finding{
		Severity: values.SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Entities: entities,
	}
}

// String renders the finding in the single-line form used by the table
// formatter and error paths.
func (f Finding) String() string {
	if len(f.Entities) == 0 {
		return fmt.Sprintf("%s %s: %s", strings.ToUpper(f.Severity.String()), f.Code, f.Message)
	}
	return fmt.Sprintf("%s %s: %s (%s)",
		strings.ToUpper(f.Severity.String()), f.Code, f.Message, strings.Join(f.Entities, ", "))
}

// firstEntity is the third sort key; findings without entities sort first
// within their code.
func (f Finding) firstEntity() string {
	if len(f.Entities) == 0 {
		return ""
	}
	return f.Entities[0]
}

// Sort orders findings by (severity, code, first entity) so repeated runs
// over the same configuration produce byte-identical reports.
func Sort(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.firstEntity() < b.firstEntity()
	})
}
