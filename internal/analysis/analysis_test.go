package analysis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mm1calc/internal/queue"
)

func TestRunDefaultConfig(t *testing.T) {
	r, err := Run(DefaultConfig())
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, queue.Stable, r.Verdict)
	mu, ok := r.ServiceRate.Value()
	require.True(t, ok)
	assert.Equal(t, 15.0, mu)
	assert.InDelta(t, 0.8, r.Utilization.Rho, 1e-12)
	assert.InDelta(t, 20.0, r.WsService, 1e-9)
	assert.InDelta(t, 16.0, r.WqService, 1e-9)

	require.Len(t, r.Table, 16)
	assert.Equal(t, 0, r.Table[0].N)
	assert.InDelta(t, 0.2, r.Table[0].P, 1e-12)
	assert.Equal(t, 3, r.Exact.N)
	assert.InDelta(t, 0.1024, r.Exact.P, 1e-12)
	assert.InDelta(t, 1-math.Pow(0.8, 16), r.Table[15].Cumulative, 1e-12)

	require.Len(t, r.Quantiles, 4)
	assert.InDelta(t, math.Ln2/3, r.Quantiles[0].Sojourn, 1e-12)
	assert.Empty(t, r.Warnings)
}

func TestRunExactBeyondTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.N = 40
	cfg.NMax = 5
	r, err := Run(cfg)
	require.NoError(t, err)

	want, err := queue.StateProbability(40, r.Utilization.Rho)
	require.NoError(t, err)
	assert.Equal(t, want, r.Exact.P)
	assert.InDelta(t, 1-math.Pow(0.8, 41), r.Exact.Cumulative, 1e-12)
	assert.Len(t, r.Table, 6)
}

func TestRunUnstable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArrivalRate = 15

	r, err := Run(cfg)
	assert.Nil(t, r)

	var unstable *queue.UnstableError
	require.ErrorAs(t, err, &unstable)
	assert.Equal(t, 15.0, unstable.ServiceRate)
}

func TestRunInvalid(t *testing.T) {
	cases := map[string]func(*Config){
		"zero service time":    func(c *Config) { c.ServiceTime = 0 },
		"negative arrivals":    func(c *Config) { c.ArrivalRate = -1 },
		"negative n":           func(c *Config) { c.N = -1 },
		"negative n_max":       func(c *Config) { c.NMax = -2 },
		"huge n_max":           func(c *Config) { c.NMax = MaxTableSize + 1 },
		"percentile at one":    func(c *Config) { c.Percentiles = []float64{1} },
		"zero unit conversion": func(c *Config) { c.UnitConversion = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := Run(cfg)
			assert.ErrorIs(t, err, queue.ErrInvalidInput)
		})
	}
}

func TestRunDegenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArrivalRate = 0
	r, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, queue.Degenerate, r.Verdict)
	assert.Equal(t, queue.Measures{}, r.Measures)
	assert.Equal(t, 1.0, r.Table[0].P)
	assert.Equal(t, 0.0, r.Table[1].P)
	assert.Equal(t, 0.0, r.Exact.P)
}

func TestRunUnboundedWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ServiceTime = math.SmallestNonzeroFloat64
	r, err := Run(cfg)
	require.NoError(t, err)

	assert.True(t, r.ServiceRate.IsUnbounded())
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, 0.0, r.Utilization.Rho)
	assert.Equal(t, queue.Measures{}, r.Measures)
}

func TestReportJSON(t *testing.T) {
	r, err := Run(DefaultConfig())
	require.NoError(t, err)

	b, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "stable", got["verdict"])
	assert.Equal(t, 15.0, got["service_rate"])
	assert.Equal(t, 12.0, got["arrival_rate"])
	assert.Contains(t, got, "measures")
	assert.Contains(t, got, "table")
}
