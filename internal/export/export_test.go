package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"mm1calc/internal/analysis"
)

func testReport(t *testing.T) *analysis.Report {
	t.Helper()
	cfg := analysis.DefaultConfig()
	cfg.NMax = 4
	r, err := analysis.Run(cfg)
	require.NoError(t, err)
	return r
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, testReport(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"n", "p", "cumulative"}, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "0.2000000000", rows[1][1])
	assert.Equal(t, "0.1024000000", rows[4][1])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, testReport(t)))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "stable", got["verdict"])
	assert.EqualValues(t, 15, got["service_rate"])
	assert.Contains(t, got, "config")
}

func TestExportAll(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "report")
	r := testReport(t)
	require.NoError(t, ExportAll(r, prefix))

	for _, ext := range []string{".csv", ".json", ".yaml"} {
		_, err := os.Stat(prefix + ext)
		assert.NoError(t, err, ext)
	}

	b, err := os.ReadFile(prefix + ".json")
	require.NoError(t, err)
	var got analysis.Report
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, r.ID, got.ID)
	assert.Len(t, got.Table, 5)
}

func TestExportToMissingDir(t *testing.T) {
	err := ExportCSV(testReport(t), filepath.Join(t.TempDir(), "nope", "x.csv"))
	assert.Error(t, err)
}
