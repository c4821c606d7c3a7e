package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mm1calc/internal/analysis"
	"mm1calc/internal/export"
	"mm1calc/internal/queue"
)

func TestStartText(t *testing.T) {
	var buf bytes.Buffer
	err := Start(analysis.DefaultConfig(), export.FormatText, "", &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Service rate μ : 15.0000 per hour")
	assert.Contains(t, out, "Utilization ρ  : 0.8000")
	assert.Contains(t, out, "P0 (empty)     : 0.2000")
	assert.Contains(t, out, "P(N = 3) = (1 − ρ) ρ^3 = 0.102400")
	assert.Contains(t, out, "Value (minutes)")
	assert.Contains(t, out, "NOTES")
}

func TestStartUnstable(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.ArrivalRate = 20

	var buf bytes.Buffer
	err := Start(cfg, export.FormatText, "", &buf)
	require.ErrorIs(t, err, queue.ErrUnstableSystem)

	out := buf.String()
	assert.Contains(t, out, "λ = 20.0000, μ = 15.0000 per hour")
	assert.Contains(t, out, "Verdict        : unstable")
	assert.NotContains(t, out, "PERFORMANCE MEASURES")
}

func TestStartUnstableJSON(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.ArrivalRate = 15

	var buf bytes.Buffer
	err := Start(cfg, export.FormatJSON, "", &buf)
	require.Error(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "unstable", got["verdict"])
	assert.EqualValues(t, 15, got["service_rate"])
}

func TestStartInvalid(t *testing.T) {
	cfg := analysis.DefaultConfig()
	cfg.ServiceTime = 0

	var buf bytes.Buffer
	err := Start(cfg, export.FormatText, "", &buf)
	assert.ErrorIs(t, err, queue.ErrInvalidInput)
	assert.Empty(t, buf.String())
}

func TestStartYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Start(analysis.DefaultConfig(), export.FormatYAML, "", &buf))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "stable", got["verdict"])
	assert.Contains(t, got, "table")
}

func TestStartWritesReports(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "report")

	var buf bytes.Buffer
	require.NoError(t, Start(analysis.DefaultConfig(), export.FormatText, prefix, &buf))
	assert.Contains(t, buf.String(), "Reports saved")

	for _, ext := range []string{".csv", ".json", ".yaml"} {
		_, err := os.Stat(prefix + ext)
		assert.NoError(t, err, ext)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[----]", progressBar(0, 4))
	assert.Equal(t, "[██--]", progressBar(0.5, 4))
	assert.Equal(t, "[████]", progressBar(2, 4))
	assert.Equal(t, "[----]", progressBar(-1, 4))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "hours", plural("hour"))
	assert.Equal(t, "minutes", plural("minutes"))
	assert.Equal(t, "", plural(""))
}
