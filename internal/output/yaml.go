package output

import (
	"io"

	"github.com/goccy/go-yaml"
)

// YAMLFormatter formats validation results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the result as YAML.
func (f *YAMLFormatter) Format(result *Result) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))
	defer func() {
		_ = encoder.Close() // Best-effort cleanup
	}()

	return encoder.Encode(result)
}
