package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	payouts     *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry to avoid clashing with the default one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fulfillment_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_order_transitions_total",
			Help: "Order state machine calls by action and outcome.",
		}, []string{"action", "outcome"}),
		payouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_payouts_total",
			Help: "Payout requests and approvals by outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(m.requests, m.duration, m.transitions, m.payouts)
	return m
}

// Middleware records every request. Errors are rendered first so the
// recorded status is the one the client saw.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.duration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler serves /metrics.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

func (m *Metrics) observeTransition(action string, err error) {
	m.transitions.WithLabelValues(action, outcome(err)).Inc()
}

func (m *Metrics) observePayout(operation string, err error) {
	m.payouts.WithLabelValues(operation, outcome(err)).Inc()
}

// outcome is a low-cardinality label for err.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strconv.Itoa(StatusOf(err))
}
