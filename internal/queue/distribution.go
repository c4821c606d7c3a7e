package queue

import (
	"iter"
	"math"
)

// StateProbability returns Pn = (1 − ρ)·ρⁿ, the steady-state probability of
// exactly n customers in the system.
func StateProbability(n int, rho float64) (float64, error) {
	if n < 0 {
		return 0, invalid("n must be non-negative, got %d", n)
	}
	if err := checkRho(rho); err != nil {
		return 0, err
	}
	return pn(n, rho), nil
}

// Distribution returns the lazy sequence of (n, Pn) for n in [0, nMax].
// The sequence can be ranged over any number of times; every element is
// computed independently so it matches StateProbability bit for bit.
func Distribution(rho float64, nMax int) (iter.Seq2[int, float64], error) {
	if nMax < 0 {
		return nil, invalid("n_max must be non-negative, got %d", nMax)
	}
	if err := checkRho(rho); err != nil {
		return nil, err
	}
	return func(yield func(int, float64) bool) {
		for n := 0; n <= nMax; n++ {
			if !yield(n, pn(n, rho)) {
				return
			}
		}
	}, nil
}

func pn(n int, rho float64) float64 {
	return (1 - rho) * math.Pow(rho, float64(n))
}

func checkRho(rho float64) error {
	if math.IsNaN(rho) || rho < 0 || rho >= 1 {
		return invalid("utilization must be in [0, 1), got %v", rho)
	}
	return nil
}
