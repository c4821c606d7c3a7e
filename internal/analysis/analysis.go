package analysis

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"mm1calc/internal/queue"
)

const unboundedWarning = "Service time is extremely small; μ is unbounded. Results are trivial (all waiting measures are 0)."

// Run validates cfg, derives μ and computes every reported quantity.
// An unstable queue returns the *queue.UnstableError and no report.
func Run(cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var warnings []string
	mu, err := queue.DeriveServiceRate(cfg.ServiceTime, cfg.UnitConversion)
	switch {
	case errors.Is(err, queue.ErrUnboundedServiceRate):
		warnings = append(warnings, unboundedWarning)
	case err != nil:
		return nil, err
	}

	res, err := queue.Evaluate(cfg.ArrivalRate, mu)
	if err != nil {
		return nil, err
	}

	rho := res.Utilization.Rho
	seq, err := queue.Distribution(rho, cfg.NMax)
	if err != nil {
		return nil, err
	}
	table := make([]StateEntry, 0, cfg.NMax+1)
	cum := 0.0
	for n, p := range seq {
		cum += p
		table = append(table, StateEntry{N: n, P: p, Cumulative: cum})
	}

	exact, err := exactEntry(cfg.N, rho, table)
	if err != nil {
		return nil, err
	}

	quantiles := make([]Quantile, 0, len(cfg.Percentiles))
	for _, p := range cfg.Percentiles {
		s, err := queue.SojournQuantile(cfg.ArrivalRate, mu, p)
		if err != nil {
			return nil, err
		}
		w, err := queue.WaitingQuantile(cfg.ArrivalRate, mu, p)
		if err != nil {
			return nil, err
		}
		quantiles = append(quantiles, Quantile{P: p, Sojourn: s, Waiting: w})
	}

	return &Report{
		ID:        newID(),
		Timestamp: time.Now(),
		Config:    cfg,
		Result:    res,
		WsService: res.Measures.Ws * cfg.UnitConversion,
		WqService: res.Measures.Wq * cfg.UnitConversion,
		Exact:     exact,
		Table:     table,
		Quantiles: quantiles,
		Warnings:  warnings,
	}, nil
}

// exactEntry reuses the table row when n falls inside it.
func exactEntry(n int, rho float64, table []StateEntry) (StateEntry, error) {
	if n < len(table) {
		return table[n], nil
	}
	p, err := queue.StateProbability(n, rho)
	if err != nil {
		return StateEntry{}, err
	}
	// P(N ≤ n) = 1 − ρ^(n+1)
	return StateEntry{N: n, P: p, Cumulative: 1 - math.Pow(rho, float64(n+1))}, nil
}

// newID returns a time-ordered identifier so session history sorts by key.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
