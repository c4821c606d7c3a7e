package stats

import (
	"sync/atomic"
	"time"
)

// Stats aggregates request outcomes for the HTTP service.
type Stats struct {
	Requests atomic.Uint64
	Success  atomic.Uint64
	Rejected atomic.Uint64 // 4xx: invalid input or unstable queue
	Failed   atomic.Uint64 // 5xx

	Latency *SafeHistogram
}

// Snapshot is the JSON view served on /stats.
type Snapshot struct {
	Requests uint64  `json:"requests"`
	Success  uint64  `json:"success"`
	Rejected uint64  `json:"rejected"`
	Failed   uint64  `json:"failed"`
	MeanMs   float64 `json:"mean_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P90Ms    float64 `json:"p90_ms"`
	P99Ms    float64 `json:"p99_ms"`
	MaxMs    float64 `json:"max_ms"`
}

func NewStats() *Stats {
	return &Stats{Latency: NewSafeHistogram()}
}

// Add records one finished request.
func (s *Stats) Add(status int, latency time.Duration) {
	s.Requests.Add(1)
	switch {
	case status >= 500:
		s.Failed.Add(1)
	case status >= 400:
		s.Rejected.Add(1)
	default:
		s.Success.Add(1)
	}
	s.Latency.RecordDuration(latency)
}

// RejectRate returns the share of 4xx responses in percent.
func (s *Stats) RejectRate() float64 {
	reqs := s.Requests.Load()
	if reqs == 0 {
		return 0
	}
	return (float64(s.Rejected.Load()) / float64(reqs)) * 100
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Requests: s.Requests.Load(),
		Success:  s.Success.Load(),
		Rejected: s.Rejected.Load(),
		Failed:   s.Failed.Load(),
		MeanMs:   s.Latency.MeanMs(),
		P50Ms:    s.Latency.QuantileMs(50),
		P90Ms:    s.Latency.QuantileMs(90),
		P99Ms:    s.Latency.QuantileMs(99),
		MaxMs:    s.Latency.MaxMs(),
	}
}

func (s *Stats) Reset() {
	s.Requests.Store(0)
	s.Success.Store(0)
	s.Rejected.Store(0)
	s.Failed.Store(0)
	s.Latency.Reset()
}
