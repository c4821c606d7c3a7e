package queue

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

const unboundedLabel = "unbounded"

// ServiceRate is either a finite positive rate or Unbounded, the limit of a
// negligible service time. Branching on it never relies on math.Inf.
type ServiceRate struct {
	value     float64
	unbounded bool
}

// Rate returns a finite service rate. Callers validate v > 0 through
// DeriveServiceRate or CheckStability.
func Rate(v float64) ServiceRate {
	return ServiceRate{value: v}
}

func Unbounded() ServiceRate {
	return ServiceRate{unbounded: true}
}

func (r ServiceRate) IsUnbounded() bool {
	return r.unbounded
}

// Value returns the finite rate and true, or 0 and false when unbounded.
func (r ServiceRate) Value() (float64, bool) {
	if r.unbounded {
		return 0, false
	}
	return r.value, true
}

func (r ServiceRate) String() string {
	if r.unbounded {
		return "∞"
	}
	return strconv.FormatFloat(r.value, 'g', -1, 64)
}

// MarshalJSON encodes a finite rate as a number and Unbounded as "unbounded".
func (r ServiceRate) MarshalJSON() ([]byte, error) {
	if r.unbounded {
		return json.Marshal(unboundedLabel)
	}
	return json.Marshal(r.value)
}

func (r *ServiceRate) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err == nil {
		if label != unboundedLabel {
			return fmt.Errorf("unknown service rate %q", label)
		}
		*r = Unbounded()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

func (r ServiceRate) MarshalYAML() (any, error) {
	if r.unbounded {
		return unboundedLabel, nil
	}
	return r.value, nil
}

// DeriveServiceRate converts a mean service time into a rate expressed in the
// arrival rate's time unit: μ = unitConversion / meanServiceTime.
//
// A positive service time small enough to overflow the quotient yields
// Unbounded together with ErrUnboundedServiceRate as a warning; the returned
// rate is still usable.
func DeriveServiceRate(meanServiceTime, unitConversion float64) (ServiceRate, error) {
	if math.IsNaN(meanServiceTime) || math.IsInf(meanServiceTime, 0) || meanServiceTime <= 0 {
		return ServiceRate{}, invalid("mean service time must be a positive finite number, got %v", meanServiceTime)
	}
	if math.IsNaN(unitConversion) || math.IsInf(unitConversion, 0) || unitConversion <= 0 {
		return ServiceRate{}, invalid("time unit conversion must be a positive finite number, got %v", unitConversion)
	}

	mu := unitConversion / meanServiceTime
	if math.IsInf(mu, 1) {
		return Unbounded(), ErrUnboundedServiceRate
	}
	if mu <= 0 {
		// underflow: the service takes longer than float64 can express
		return ServiceRate{}, invalid("service rate underflows to zero (service time %v)", meanServiceTime)
	}
	return Rate(mu), nil
}
