package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func run(t *testing.T, lambda float64) *analysis.Report {
	t.Helper()
	cfg := analysis.DefaultConfig()
	cfg.ArrivalRate = lambda
	r, err := analysis.Run(cfg)
	require.NoError(t, err)
	return r
}

func TestStoreSaveListGet(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	first := run(t, 6)
	second := run(t, 12)
	require.NoError(t, s.Save(NewHistoryItem(first)))
	require.NoError(t, s.Save(NewHistoryItem(second)))

	items, err := s.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "newest first")
	assert.Equal(t, first.ID, items[1].ID)
	assert.Equal(t, queue.Stable, items[0].Summary.Verdict)
	assert.InDelta(t, 0.8, items[0].Summary.Rho, 1e-12)

	got, err := s.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, got.Config.ArrivalRate)
	require.NotNil(t, got.Report)
	assert.Len(t, got.Report.Table, len(first.Table))

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreIsEphemeral(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(NewHistoryItem(run(t, 1))))

	path := s.Path()
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStoreRejectsEmptyID(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	assert.Error(t, s.Save(HistoryItem{}))
}
