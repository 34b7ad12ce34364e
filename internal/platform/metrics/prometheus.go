// Package metrics exposes front-desk Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry            prometheus.Gatherer
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	commandsTotal       *prometheus.CounterVec
	activeStays         prometheus.Gauge
	ledgerAmountTotal   *prometheus.CounterVec
	snapshotsTotal      *prometheus.CounterVec
}

// New registers collectors on a fresh registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "frontdesk"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Front-desk commands by outcome",
			},
			[]string{"command", "result"},
		),
		activeStays: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_stays",
				Help:      "Rooms with a checked-in guest",
			},
		),
		ledgerAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_amount_minor_total",
				Help:      "Sum of recorded ledger entries in minor currency units",
			},
			[]string{"entry", "kind"},
		),
		snapshotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_total",
				Help:      "State snapshots saved",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func (m *Metrics) RecordCommand(command string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.commandsTotal.WithLabelValues(command, result).Inc()
}

func (m *Metrics) RecordCharge(category string, amount int64) {
	if m == nil {
		return
	}
	m.ledgerAmountTotal.WithLabelValues("charge", category).Add(float64(amount))
}

func (m *Metrics) RecordPayment(method string, amount int64) {
	if m == nil {
		return
	}
	m.ledgerAmountTotal.WithLabelValues("payment", method).Add(float64(amount))
}

func (m *Metrics) SetActiveStays(n int) {
	if m == nil {
		return
	}
	m.activeStays.Set(float64(n))
}

func (m *Metrics) RecordSnapshot(err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.snapshotsTotal.WithLabelValues(result).Inc()
}
