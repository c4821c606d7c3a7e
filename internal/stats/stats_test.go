package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsAdd(t *testing.T) {
	s := NewStats()
	s.Add(200, 2*time.Millisecond)
	s.Add(400, 4*time.Millisecond)
	s.Add(422, 4*time.Millisecond)
	s.Add(500, 10*time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, uint64(4), snap.Requests)
	assert.Equal(t, uint64(1), snap.Success)
	assert.Equal(t, uint64(2), snap.Rejected)
	assert.Equal(t, uint64(1), snap.Failed)
	assert.InDelta(t, 10.0, snap.MaxMs, 0.05)
	assert.InDelta(t, 50.0, s.RejectRate(), 1e-9)

	s.Reset()
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestStatsConcurrent(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Add(200, time.Millisecond)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(800), s.Requests.Load())
	assert.Equal(t, int64(800), s.Latency.TotalCount())
}

func TestHistogramClamps(t *testing.T) {
	h := NewSafeHistogram()
	assert.NoError(t, h.RecordDuration(0))
	assert.NoError(t, h.RecordDuration(time.Hour))
	assert.Equal(t, int64(2), h.TotalCount())
	assert.Equal(t, 0.0, NewStats().RejectRate())
}
