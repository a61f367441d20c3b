package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmware-tools/preflight/internal/boot"
	"github.com/firmware-tools/preflight/internal/domain/values"
	"github.com/firmware-tools/preflight/internal/memmap"
	"github.com/firmware-tools/preflight/internal/report"
)

func sampleResult() *Result {
	rep := report.New("freqrelay", []report.Finding{
		report.Errorf(values.CodeFootprintOverflow, []string{"section:text", "region:onchip_memory"},
			"section text (300000 bytes) exceeds region onchip_memory (204768 bytes)"),
		report.Warnf(values.CodeInsufficientHeap, nil,
			"declared heap 4096 is below the estimated requirement 38912"),
	})

	return NewResult("freqrelay.yaml", rep, &boot.Outcome{
		Terminal: boot.StateHalt,
		Trace:    []boot.State{boot.StateReset, boot.StateHalt},
	})
}

func cleanResult() *Result {
	rep := report.New("freqrelay", nil)
	flash := memmap.Region{Name: "flash_controller", Base: 0x1000020, Span: 8388576}
	sdram := memmap.Region{Name: "sdram", Base: 0x8000000, Span: 134217728}

	return NewResult("freqrelay.yaml", rep, &boot.Outcome{
		Terminal: boot.StateEntry,
		Trace:    []boot.State{boot.StateReset, boot.StateAutoLoad, boot.StateEntry},
		CopyPlan: []boot.CopyStep{
			{Section: values.SectionRodata, From: flash, To: sdram},
			{Section: values.SectionRwdata, From: flash, To: sdram},
		},
	})
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewTableFormatter(&buf)

	err := formatter.Format(sampleResult())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Image: freqrelay (freqrelay.yaml)")
	assert.Contains(t, out, "✗ FootprintOverflow:")
	assert.Contains(t, out, "⚠ InsufficientHeapWarning:")
	assert.Contains(t, out, "Entities: section:text, region:onchip_memory")
	assert.Contains(t, out, "Findings: 2 total")
	assert.Contains(t, out, "Verdict: ERROR")
	assert.Contains(t, out, "Boot: RESET → HALT")
}

func TestTableFormatter_CleanWithCopyPlan(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewTableFormatter(&buf)

	err := formatter.Format(cleanResult())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "No findings.")
	assert.Contains(t, out, "Verdict: CLEAN")
	assert.Contains(t, out, "Boot: RESET → AUTO_LOAD → ENTRY")
	assert.Contains(t, out, "copy-down rodata:")
	assert.Contains(t, out, "copy-down rwdata:")
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewJSONFormatter(&buf, true)

	err := formatter.Format(sampleResult())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "freqrelay.yaml", decoded["path"])
	assert.NotEmpty(t, decoded["run_id"], "emission metadata lives on the result")
	rep, ok := decoded["report"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "error", rep["verdict"])
	assert.Len(t, rep["findings"], 2)
}

func TestNewResult_StampsEmissionMetadata(t *testing.T) {
	rep := report.New("freqrelay", nil)

	a := NewResult("freqrelay.yaml", rep, nil)
	b := NewResult("freqrelay.yaml", rep, nil)

	assert.NotEmpty(t, a.RunID)
	assert.False(t, a.GeneratedAt.IsZero())
	assert.NotEqual(t, a.RunID, b.RunID, "each emission gets its own run identity")
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewYAMLFormatter(&buf)

	err := formatter.Format(cleanResult())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "freqrelay.yaml", decoded["path"])
	assert.Contains(t, buf.String(), "terminal: ENTRY")
}

func TestSARIFFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewSARIFFormatter(&buf)

	err := formatter.Format(sampleResult())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc["version"])

	runs, ok := doc["runs"].([]interface{})
	require.True(t, ok)
	require.Len(t, runs, 1)

	run := runs[0].(map[string]interface{})
	results, ok := run["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "FootprintOverflow", first["ruleId"])
	assert.Equal(t, "error", first["level"])
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer

	for _, name := range []string{"table", "json", "yaml", "sarif"} {
		formatter, err := NewFormatter(name, &buf)
		require.NoError(t, err, name)
		assert.NotNil(t, formatter, name)
	}

	_, err := NewFormatter("xml", &buf)
	assert.ErrorContains(t, err, "unknown format")
}
