package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DurationBuckets are the histogram bounds, in seconds, for store calls.
var DurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// PrometheusObserver records store calls into three collectors, all labeled
// by operation and table:
//   - db_operations_total: every call
//   - db_operation_duration_seconds: one observation per call
//   - db_operation_errors_total: failed calls only
//
// It also owns the cats_total gauge, refreshed by the health probe.
type PrometheusObserver struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	cats     prometheus.Gauge
}

// NewPrometheusObserver creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is handy in tests that only
// read values back through testutil.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	f := promauto.With(reg)
	labels := []string{"operation", "table"}
	return &PrometheusObserver{
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "db_operations_total",
			Help: "Total number of database operations",
		}, labels),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: DurationBuckets,
		}, labels),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of failed database operations",
		}, labels),
		cats: f.NewGauge(prometheus.GaugeOpts{
			Name: "cats_total",
			Help: "Number of distinct cat pictures stored",
		}),
	}
}

// ObserveOperation implements Observer.
func (o *PrometheusObserver) ObserveOperation(operation, table string, seconds float64, err error) {
	if o == nil {
		return
	}
	o.ops.WithLabelValues(operation, table).Inc()
	o.duration.WithLabelValues(operation, table).Observe(seconds)
	if err != nil {
		o.errors.WithLabelValues(operation, table).Inc()
	}
}

// Preload pre-populates the label pairs for operations on table so every
// series is exported from the first scrape.
func (o *PrometheusObserver) Preload(operations []string, table string) {
	if o == nil {
		return
	}
	for _, op := range operations {
		o.ops.WithLabelValues(op, table)
		o.duration.WithLabelValues(op, table)
		o.errors.WithLabelValues(op, table)
	}
}

// SetCats updates the stored-pictures gauge.
func (o *PrometheusObserver) SetCats(n int64) {
	if o == nil {
		return
	}
	o.cats.Set(float64(n))
}
