// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. HTTPMetrics
// measures request counts, latencies and in-flight concurrency with bounded
// label cardinality:
//
//   - method: HTTP method verb (GET/POST/…)
//   - route:  the registered Gin route (e.g. /api/cat/:id/like), or
//     "unmatched" when no route matched
//   - code:   numeric status code as a string (e.g. "200", "503")
//
// Collectors are registered on the Registerer passed to NewHTTPMetrics so
// tests can use a private registry.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UnmatchedRoute is the route label used for requests no route matched.
const UnmatchedRoute = "unmatched"

// HTTPDurationBuckets are the latency buckets in seconds. They resolve the
// 100ms, 300ms and 1s thresholds that the alerting rules fire on.
var HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.3, 0.5, 1, 1.5, 2, 5}

// HTTPMetrics holds the HTTP collectors.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics creates and registers the HTTP collectors on reg.
// A nil reg leaves them unregistered. Registering twice on one registry panics.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	f := promauto.With(reg)
	return &HTTPMetrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: HTTPDurationBuckets,
			},
			[]string{"method", "route", "code"},
		),
		inflight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_inflight",
				Help: "Current number of in-flight HTTP requests",
			},
		),
	}
}

// Handler returns a Gin middleware that records every request.
//
// Usage:
//
//	m := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
//	r.Use(m.Handler())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = UnmatchedRoute
		}
		method := c.Request.Method
		code := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(method, route, code).Inc()
		m.duration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
	}
}
