package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for negative or non-finite inputs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnboundedServiceRate marks a service time so small that μ overflows.
	// It is a warning: results are valid but trivial.
	ErrUnboundedServiceRate = errors.New("unbounded service rate")

	// ErrUnstableSystem is returned when λ ≥ μ and no steady state exists.
	ErrUnstableSystem = errors.New("unstable system")
)

// UnstableError carries the only values that may be reported for an
// unstable queue: the rates and the verdict.
type UnstableError struct {
	ArrivalRate float64
	ServiceRate float64
}

func (e *UnstableError) Error() string {
	return fmt.Sprintf("unstable system: λ ≥ μ (λ = %.4f, μ = %.4f); steady-state formulas require λ < μ",
		e.ArrivalRate, e.ServiceRate)
}

func (e *UnstableError) Unwrap() error {
	return ErrUnstableSystem
}

// Verdict is always Unstable.
func (e *UnstableError) Verdict() Verdict {
	return Unstable
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
