// Package queue holds the closed-form steady-state formulas of the M/M/1
// queue. Every function is pure: no logging, no shared state.
package queue

import (
	"fmt"
	"math"
)

// Verdict gates which formula branch applies.
type Verdict int

const (
	Stable Verdict = iota
	Unstable
	// Degenerate is λ = 0: always stable, every measure is zero.
	Degenerate
)

func (v Verdict) String() string {
	switch v {
	case Stable:
		return "stable"
	case Unstable:
		return "unstable"
	case Degenerate:
		return "degenerate"
	default:
		return "unknown"
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "stable":
		*v = Stable
	case "unstable":
		*v = Unstable
	case "degenerate":
		*v = Degenerate
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Parameters are the two rates of the queue, in the same time unit.
type Parameters struct {
	ArrivalRate float64     `json:"arrival_rate" yaml:"arrival_rate"`
	ServiceRate ServiceRate `json:"service_rate" yaml:"service_rate"`
}

// Utilization holds ρ and the probability the system is empty.
type Utilization struct {
	Rho float64 `json:"rho" yaml:"rho"`
	P0  float64 `json:"p0" yaml:"p0"`
}

// Measures are the four expected values. Ls and Lq count customers; Ws and
// Wq are in the time unit of 1/μ.
type Measures struct {
	Ls float64 `json:"ls" yaml:"ls"`
	Lq float64 `json:"lq" yaml:"lq"`
	Ws float64 `json:"ws" yaml:"ws"`
	Wq float64 `json:"wq" yaml:"wq"`
}

// Result bundles everything derivable from the two rates.
type Result struct {
	Parameters  `yaml:",inline"`
	Verdict     Verdict     `json:"verdict" yaml:"verdict"`
	Utilization Utilization `json:"utilization" yaml:"utilization"`
	Measures    Measures    `json:"measures" yaml:"measures"`
}

// CheckStability classifies the queue. λ must be finite and non-negative and
// a finite μ must be positive.
func CheckStability(lambda float64, mu ServiceRate) (Verdict, error) {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
		return Unstable, invalid("arrival rate must be a non-negative finite number, got %v", lambda)
	}
	rate, finite := mu.Value()
	if finite && (math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0) {
		return Unstable, invalid("service rate must be a positive finite number, got %v", rate)
	}

	switch {
	case lambda == 0:
		return Degenerate, nil
	case !finite:
		return Stable, nil
	case lambda >= rate:
		return Unstable, nil
	default:
		return Stable, nil
	}
}

// requireSteadyState runs the stability check and turns an Unstable verdict
// into an *UnstableError.
func requireSteadyState(lambda float64, mu ServiceRate) (Verdict, error) {
	v, err := CheckStability(lambda, mu)
	if err != nil {
		return v, err
	}
	if v == Unstable {
		rate, _ := mu.Value()
		return v, &UnstableError{ArrivalRate: lambda, ServiceRate: rate}
	}
	return v, nil
}

// ComputeUtilization returns ρ = λ/μ (0 when μ is unbounded) and P0 = 1 − ρ.
func ComputeUtilization(lambda float64, mu ServiceRate) (Utilization, error) {
	if _, err := requireSteadyState(lambda, mu); err != nil {
		return Utilization{}, err
	}
	return utilization(lambda, mu), nil
}

func utilization(lambda float64, mu ServiceRate) Utilization {
	rho := 0.0
	if rate, ok := mu.Value(); ok {
		rho = lambda / rate
	}
	return Utilization{Rho: rho, P0: 1 - rho}
}

// ComputeMeasures returns Ls, Lq, Ws and Wq. They are all zero for λ = 0 and
// for an unbounded μ, which is the limit of each formula.
func ComputeMeasures(lambda float64, mu ServiceRate) (Measures, error) {
	v, err := requireSteadyState(lambda, mu)
	if err != nil {
		return Measures{}, err
	}
	return measures(lambda, mu, v), nil
}

func measures(lambda float64, mu ServiceRate, v Verdict) Measures {
	rate, finite := mu.Value()
	if v == Degenerate || !finite {
		return Measures{}
	}
	// Lq = ρ·Ls and Wq = ρ·Ws avoid forming λ² or μ(μ−λ), which leave the
	// float range for extreme but stable rates.
	rho := lambda / rate
	slack := rate - lambda
	ls := lambda / slack
	ws := 1 / slack
	return Measures{
		Ls: ls,
		Lq: rho * ls,
		Ws: ws,
		Wq: rho * ws,
	}
}

// Evaluate runs the stability check once and derives every measure.
func Evaluate(lambda float64, mu ServiceRate) (Result, error) {
	v, err := requireSteadyState(lambda, mu)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Parameters:  Parameters{ArrivalRate: lambda, ServiceRate: mu},
		Verdict:     v,
		Utilization: utilization(lambda, mu),
		Measures:    measures(lambda, mu, v),
	}, nil
}
