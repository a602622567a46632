package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaratidy/yaratidy/internal/lint"
)

func TestSARIFFormatter_Structure(t *testing.T) {
	f := &SARIFFormatter{Version: "v1.0.0"}
	var buf bytes.Buffer

	diagnostics := []lint.Diagnostic{
		{File: "rules/a.yar", Line: 4, Column: 3, RuleID: "YR003", Severity: lint.Error, Message: "uses tab to indent"},
		{File: "rules/b.yar", Line: 1, Column: 1, RuleID: "YR005", Severity: lint.Warning, Message: "slow"},
		{File: "rules/c.yar", Line: 1, Column: 1, Severity: lint.Info, Message: "fyi"},
	}
	require.NoError(t, f.Format(&buf, diagnostics))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))

	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "yaratidy", run.Tool.Driver.Name)
	assert.Equal(t, "v1.0.0", run.Tool.Driver.Version)
	require.Len(t, run.Results, 3)

	first := run.Results[0]
	assert.Equal(t, "YR003", first.RuleID)
	assert.Equal(t, "error", first.Level)
	assert.Equal(t, "uses tab to indent", first.Message.Text)
	assert.Equal(t, "rules/a.yar", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 4, first.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, 3, first.Locations[0].PhysicalLocation.Region.StartColumn)

	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Equal(t, "note", run.Results[2].Level)
}

func TestSARIFFormatter_EmptyResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&SARIFFormatter{}).Format(&buf, nil))
	assert.Contains(t, buf.String(), `"results": []`)
}
