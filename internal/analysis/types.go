package analysis

import (
	"fmt"
	"math"
	"time"

	"mm1calc/internal/queue"
)

const MaxTableSize = 10000

// Config is the full set of user inputs. The same struct is filled by viper,
// decoded from HTTP requests and embedded in exported reports.
type Config struct {
	ArrivalRate     float64   `mapstructure:"arrival_rate" json:"arrival_rate" yaml:"arrival_rate"`
	ServiceTime     float64   `mapstructure:"service_time" json:"service_time" yaml:"service_time"`
	UnitConversion  float64   `mapstructure:"unit_conversion" json:"unit_conversion" yaml:"unit_conversion"`
	N               int       `mapstructure:"n" json:"n" yaml:"n"`
	NMax            int       `mapstructure:"n_max" json:"n_max" yaml:"n_max"`
	TimeUnit        string    `mapstructure:"time_unit" json:"time_unit" yaml:"time_unit"`
	ServiceTimeUnit string    `mapstructure:"service_time_unit" json:"service_time_unit" yaml:"service_time_unit"`
	Percentiles     []float64 `mapstructure:"percentiles" json:"percentiles,omitempty" yaml:"percentiles,omitempty"`
}

// DefaultConfig matches the textbook example: 12 arrivals per hour, 4 minutes
// of service per customer.
func DefaultConfig() Config {
	return Config{
		ArrivalRate:     12,
		ServiceTime:     4,
		UnitConversion:  60,
		N:               3,
		NMax:            15,
		TimeUnit:        "hour",
		ServiceTimeUnit: "minute",
		Percentiles:     []float64{0.5, 0.9, 0.95, 0.99},
	}
}

// Validate checks the display inputs. Rate inputs are validated by the queue
// package so the error wording stays in one place.
func (c Config) Validate() error {
	if c.N < 0 {
		return fmt.Errorf("%w: n must be non-negative, got %d", queue.ErrInvalidInput, c.N)
	}
	if c.NMax < 0 {
		return fmt.Errorf("%w: n_max must be non-negative, got %d", queue.ErrInvalidInput, c.NMax)
	}
	if c.NMax > MaxTableSize {
		return fmt.Errorf("%w: n_max must be at most %d, got %d", queue.ErrInvalidInput, MaxTableSize, c.NMax)
	}
	for _, p := range c.Percentiles {
		if math.IsNaN(p) || p <= 0 || p >= 1 {
			return fmt.Errorf("%w: percentile must be in (0, 1), got %v", queue.ErrInvalidInput, p)
		}
	}
	return nil
}

// StateEntry is one row of the probability table.
type StateEntry struct {
	N          int     `json:"n" yaml:"n"`
	P          float64 `json:"p" yaml:"p"`
	Cumulative float64 `json:"cumulative" yaml:"cumulative"`
}

// Quantile holds time percentiles in the arrival time unit.
type Quantile struct {
	P       float64 `json:"p" yaml:"p"`
	Sojourn float64 `json:"sojourn" yaml:"sojourn"`
	Waiting float64 `json:"waiting" yaml:"waiting"`
}

// Report is everything the shells render for one analysis.
type Report struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Config    Config    `json:"config" yaml:"config"`

	queue.Result `yaml:",inline"`

	// Ws and Wq converted to the service time unit (e.g. minutes).
	WsService float64 `json:"ws_service_unit" yaml:"ws_service_unit"`
	WqService float64 `json:"wq_service_unit" yaml:"wq_service_unit"`

	Exact     StateEntry   `json:"exact" yaml:"exact"`
	Table     []StateEntry `json:"table" yaml:"table"`
	Quantiles []Quantile   `json:"quantiles,omitempty" yaml:"quantiles,omitempty"`
	Warnings  []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
