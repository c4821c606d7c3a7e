package queue

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SojournQuantile returns the p-quantile of the time a customer spends in the
// system. In a stable M/M/1 queue that time is exponential with rate μ − λ.
func SojournQuantile(lambda float64, mu ServiceRate, p float64) (float64, error) {
	dist, v, err := sojournDist(lambda, mu, p)
	if err != nil || v == Degenerate || dist == nil {
		return 0, err
	}
	return dist.Quantile(p), nil
}

// WaitingQuantile returns the p-quantile of the time spent waiting before
// service. With probability 1 − ρ a customer finds the server idle and waits
// zero; otherwise the wait is exponential with rate μ − λ.
func WaitingQuantile(lambda float64, mu ServiceRate, p float64) (float64, error) {
	dist, v, err := sojournDist(lambda, mu, p)
	if err != nil || v == Degenerate || dist == nil {
		return 0, err
	}
	u := utilization(lambda, mu)
	if p <= u.P0 {
		return 0, nil
	}
	return dist.Quantile((p - u.P0) / u.Rho), nil
}

// sojournDist returns nil for the unbounded service rate, where every time
// measure collapses to zero.
func sojournDist(lambda float64, mu ServiceRate, p float64) (*distuv.Exponential, Verdict, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return nil, Unstable, invalid("quantile must be in (0, 1), got %v", p)
	}
	v, err := requireSteadyState(lambda, mu)
	if err != nil {
		return nil, v, err
	}
	rate, finite := mu.Value()
	if !finite {
		return nil, v, nil
	}
	return &distuv.Exponential{Rate: rate - lambda}, v, nil
}
