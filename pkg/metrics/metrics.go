// Package metrics holds the Prometheus collectors of a scan run.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60} //nolint: gochecknoglobals

// Scan groups the collectors updated by the range scanner.
type Scan struct {
	// Outcomes counts classified identifiers by range and outcome.
	Outcomes *prometheus.CounterVec
	// Cursor is the last identifier number looked at, by range.
	Cursor *prometheus.GaugeVec
	// EmptyRun is the current number of consecutive empty identifiers, by range.
	EmptyRun *prometheus.GaugeVec
	// StepDuration observes the time spent classifying one identifier.
	StepDuration *prometheus.HistogramVec
}

// NewScan creates the scan collectors and registers them with reg. Collectors
// already registered with reg are reused.
func NewScan(reg prometheus.Registerer) (*Scan, error) {
	s := &Scan{
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "companyscan",
			Name:      "identifiers_total",
			Help:      "Number of identifiers classified, by range and outcome.",
		}, []string{"range", "outcome"}),
		Cursor: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "companyscan",
			Name:      "cursor",
			Help:      "Last identifier number looked at, by range.",
		}, []string{"range"}),
		EmptyRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "companyscan",
			Name:      "empty_run",
			Help:      "Consecutive empty identifiers, by range.",
		}, []string{"range"}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "companyscan",
			Name:      "step_duration_seconds",
			Help:      "Time spent classifying one identifier, retries included.",
			Buckets:   DefaultBuckets,
		}, []string{"range"}),
	}

	var err error
	if s.Outcomes, err = register(reg, s.Outcomes); err != nil {
		return nil, err
	}
	if s.Cursor, err = register(reg, s.Cursor); err != nil {
		return nil, err
	}
	if s.EmptyRun, err = register(reg, s.EmptyRun); err != nil {
		return nil, err
	}
	if s.StepDuration, err = register(reg, s.StepDuration); err != nil {
		return nil, err
	}

	return s, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}
