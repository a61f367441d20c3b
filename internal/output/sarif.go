package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/version"
)

// SARIFFormatter formats validation results as SARIF 2.1.0 JSON. Finding
// codes become SARIF rules and findings become results, so CI viewers that
// speak SARIF can render the report without knowing this tool.
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(w io.Writer) *SARIFFormatter {
	return &SARIFFormatter{writer: w}
}

// Format writes the result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(result *Result) error {
	sarifReport := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("preflight", "https://github.com/firmware-tools/preflight")
	toolVersion := version.Version
	run.Tool.Driver.Version = &toolVersion

	f.addRules(run, result)
	f.addResults(run, result)

	props := sarif.NewPropertyBag()
	props.Add("image", result.Report.Image)
	props.Add("run_id", result.RunID)
	props.Add("verdict", result.Report.Verdict.String())
	if result.Boot != nil {
		props.Add("boot_terminal_state", string(result.Boot.Terminal))
	}
	run.WithProperties(props)

	sarifReport.AddRun(run)

	if err := sarifReport.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	// Trailing newline for terminal output
	_, err := f.writer.Write([]byte("\n"))
	return err
}

// addRules registers one rule per distinct finding code.
func (f *SARIFFormatter) addRules(run *sarif.Run, result *Result) {
	seen := make(map[values.FindingCode]bool)
	for _, finding := range result.Report.Findings {
		if seen[finding.Code] {
			continue
		}
		seen[finding.Code] = true

		name := finding.Code.String()
		rule := sarif.NewReportingDescriptor().WithID(name)
		rule.WithName(name)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: &name})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: f.severityToLevel(finding.Severity),
		})

		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts findings to SARIF results, preserving report order.
func (f *SARIFFormatter) addResults(run *sarif.Run, result *Result) {
	for _, finding := range result.Report.Findings {
		sarifResult := sarif.NewRuleResult(finding.Code.String())
		sarifResult.Level = f.severityToLevel(finding.Severity)
		sarifResult.Kind = "fail"
		sarifResult.Message = sarif.NewTextMessage(finding.Message)

		props := sarif.NewPropertyBag()
		props.Add("severity", finding.Severity.String())
		if len(finding.Entities) > 0 {
			props.Add("entities", finding.Entities)
		}
		sarifResult.WithProperties(props)

		run.AddResult(sarifResult)
	}
}

func (f *SARIFFormatter) severityToLevel(severity values.Severity) string {
	if severity == values.SeverityError {
		return "error"
	}
	return "warning"
}
