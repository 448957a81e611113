package cliutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tbviz/histograms/internal/cliutil"
	"github.com/tbviz/histograms/internal/histogram"
	"github.com/tbviz/histograms/internal/settings"
	"github.com/tbviz/histograms/internal/tbwire"
)

var normalized = []histogram.Histogram{
	{WallTime: 1.5, Step: 2, Bins: []histogram.Bin{
		{X: 0, DX: 1, Y: 3},
		{X: 1, DX: 1, Y: 4},
	}},
}

func TestWriteHistogramsJSON(t *testing.T) {
	var buf bytes.Buffer

	err := cliutil.Output{Format: settings.FormatJSON}.
		WriteHistograms(&buf, normalized)
	require.NoError(t, err)

	series, err := tbwire.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, normalized, series.Bins)
}

func TestWriteHistogramsYAML(t *testing.T) {
	var buf bytes.Buffer

	err := cliutil.Output{Format: settings.FormatYAML}.
		WriteHistograms(&buf, normalized)
	require.NoError(t, err)

	var decoded []histogram.Histogram
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, normalized, decoded)
	assert.Contains(t, buf.String(), "wallTime: 1.5")
}

func TestWriteHistogramsTemplate(t *testing.T) {
	var buf bytes.Buffer

	err := cliutil.Output{
		Template: `{{range .}}{{.Step}}:{{len .Bins}}{{end}}`,
	}.WriteHistograms(&buf, normalized)

	require.NoError(t, err)
	assert.Equal(t, "2:2\n", buf.String())
}

func TestWriteHistogramsBadTemplate(t *testing.T) {
	err := cliutil.Output{Template: `{{`}.
		WriteHistograms(&bytes.Buffer{}, normalized)

	assert.ErrorContains(t, err, "failed to parse template")
}

func TestWriteValue(t *testing.T) {
	var buf bytes.Buffer

	err := cliutil.Output{Format: settings.FormatYAML}.
		WriteValue(&buf, map[string]any{"version": "1.2.3"})

	require.NoError(t, err)
	assert.Equal(t, "version: 1.2.3\n\n", buf.String())
}

func TestOutputFrom(t *testing.T) {
	assert.Equal(t,
		cliutil.Output{Format: "yaml", Template: "{{.}}"},
		cliutil.OutputFrom(&settings.Settings{Format: "yaml", Template: "{{.}}"}))
}
