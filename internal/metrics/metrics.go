// Package metrics exposes Prometheus HTTP metrics for the gin servers.
package metrics

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hypermedia"

// HTTPMetrics holds Prometheus metrics for HTTP request tracking.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewHTTPMetrics creates and registers HTTP metrics on a fresh registry
// labelled with the app name.
func NewHTTPMetrics(app string) *HTTPMetrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"app": app}

	m := &HTTPMetrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "in_flight_requests",
			Help:        "Number of HTTP requests currently being processed.",
			ConstLabels: constLabels,
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Middleware records HTTP metrics. It skips /metrics, /health and static assets.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/metrics" || route == "/health" || strings.HasPrefix(route, "/static/") {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}

		m.InFlightGauge.Inc()
		defer m.InFlightGauge.Dec()

		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			status := strconv.Itoa(c.Writer.Status())
			m.RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(v)
			m.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		}))

		c.Next()
		timer.ObserveDuration()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
