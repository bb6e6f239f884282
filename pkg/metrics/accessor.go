package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AccessorMetrics counts data-access outcomes by operation and result state.
type AccessorMetrics struct {
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewAccessorMetrics(reg prometheus.Registerer) *AccessorMetrics {
	if reg == nil {
		return &AccessorMetrics{}
	}
	results := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hydration_accessor_results_total",
		Help: "Data accessor calls by operation and outcome state.",
	}, []string{"operation", "state"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hydration_accessor_duration_seconds",
		Help:    "Latency of data accessor calls in seconds.",
		Buckets: []float64{.002, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation"})
	reg.MustRegister(results, duration)
	return &AccessorMetrics{results: results, duration: duration}
}

// Observe records one accessor call. state is one of ok, empty, failed.
func (a *AccessorMetrics) Observe(operation, state string, elapsed time.Duration) {
	if a == nil || a.results == nil {
		return
	}
	op := labelOrUnknown(operation)
	a.results.WithLabelValues(op, labelOrUnknown(state)).Inc()
	a.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
