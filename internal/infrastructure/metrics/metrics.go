// Package metrics exposes reconciliation and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"autoparts/internal/domain/adjustment"
	"autoparts/internal/infrastructure/storage/postgres"
)

// Metrics holds every collector on its own registry.
type Metrics struct {
	registry *prometheus.Registry
	prefix   string

	// HTTP request metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Reconciliation metrics
	adjustmentsTotal *prometheus.CounterVec
	clampedTotal     *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
}

// New creates the collectors under prefix.
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		prefix:   prefix,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		adjustmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_adjustments_total",
				Help: "Committed product quantity and client balance adjustments",
			},
			[]string{"aggregate", "source", "action"},
		),
		clampedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_clamped_total",
				Help: "Stock withdrawals cut short at zero",
			},
			[]string{"source"},
		),
		rejectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_rejections_total",
				Help: "Writes refused by a business rule",
			},
			[]string{"reason"},
		),
	}
}

// ObserveAdjustment implements adjustment.Observer.
func (m *Metrics) ObserveAdjustment(e adjustment.Event) {
	m.adjustmentsTotal.WithLabelValues(string(e.Aggregate), string(e.Source), string(e.Action)).Inc()
	if e.Clamped {
		m.clampedTotal.WithLabelValues(string(e.Source)).Inc()
	}
}

// ObserveRejection implements adjustment.Observer.
func (m *Metrics) ObserveRejection(reason string) {
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

// RegisterPool exports connection pool gauges.
func (m *Metrics) RegisterPool(pool *postgres.Pool) {
	gauge := func(name, help string, value func(postgres.PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: m.prefix + "_db_pool_" + name, Help: help},
			func() float64 { return value(pool.Stats()) },
		)
	}
	m.registry.MustRegister(
		gauge("total_conns", "Open connections", func(s postgres.PoolStats) float64 { return float64(s.TotalConns) }),
		gauge("acquired_conns", "Connections in use", func(s postgres.PoolStats) float64 { return float64(s.AcquiredConns) }),
		gauge("idle_conns", "Idle connections", func(s postgres.PoolStats) float64 { return float64(s.IdleConns) }),
		gauge("max_conns", "Pool size limit", func(s postgres.PoolStats) float64 { return float64(s.MaxConns) }),
	)
}

// Middleware records request count and latency by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ adjustment.Observer = (*Metrics)(nil)
