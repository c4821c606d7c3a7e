package queue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSojournQuantile(t *testing.T) {
	// T ~ Exp(μ − λ) = Exp(3)
	median, err := SojournQuantile(12, Rate(15), 0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Ln2/3, median, 1e-12)

	p90, err := SojournQuantile(12, Rate(15), 0.9)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(10)/3, p90, 1e-12)
}

func TestWaitingQuantile(t *testing.T) {
	// P(Wq = 0) = 1 − ρ = 0.2
	w, err := WaitingQuantile(12, Rate(15), 0.2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, w)

	w, err = WaitingQuantile(12, Rate(15), 0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.8/0.5)/3, w, 1e-12)

	s, err := SojournQuantile(12, Rate(15), 0.5)
	require.NoError(t, err)
	assert.Less(t, w, s)
}

func TestQuantilesCollapse(t *testing.T) {
	for _, tc := range []struct {
		lambda float64
		mu     ServiceRate
	}{
		{0, Rate(15)},
		{12, Unbounded()},
	} {
		s, err := SojournQuantile(tc.lambda, tc.mu, 0.99)
		require.NoError(t, err)
		assert.Equal(t, 0.0, s)
		w, err := WaitingQuantile(tc.lambda, tc.mu, 0.99)
		require.NoError(t, err)
		assert.Equal(t, 0.0, w)
	}
}

func TestQuantileErrors(t *testing.T) {
	_, err := SojournQuantile(15, Rate(15), 0.5)
	assert.ErrorIs(t, err, ErrUnstableSystem)
	_, err = WaitingQuantile(12, Rate(15), 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SojournQuantile(12, Rate(15), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
