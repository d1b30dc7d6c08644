// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gamearena"

// Metrics holds the collectors registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	joins            *prometheus.CounterVec
	joinDuration     prometheus.Histogram
	commitRetries    prometheus.Counter
	reaped           prometheus.Counter
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	leaderboardBuild prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_joins_total",
			Help:      "Join attempts by outcome.",
		}, []string{"result"}),
		joinDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registration_join_duration_seconds",
			Help:      "Time from join request to a terminal stage.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
		commitRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_commit_retries_total",
			Help:      "Commits retried after a concurrent room update.",
		}),
		reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_reaped_total",
			Help:      "Stale pending registrations marked failed.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		leaderboardBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "leaderboard_rebuild_duration_seconds",
			Help:      "Time spent rebuilding the leaderboard cache.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.joins, m.joinDuration, m.commitRetries, m.reaped,
		m.requests, m.requestDuration, m.leaderboardBuild,
	)
	return m
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveJoin records the outcome of one join attempt. A nil receiver is a no-op.
func (m *Metrics) ObserveJoin(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.joins.WithLabelValues(result).Inc()
	m.joinDuration.Observe(d.Seconds())
}

func (m *Metrics) CommitRetried() {
	if m == nil {
		return
	}
	m.commitRetries.Inc()
}

func (m *Metrics) Reaped(n int) {
	if m == nil {
		return
	}
	m.reaped.Add(float64(n))
}

func (m *Metrics) ObserveLeaderboardRebuild(d time.Duration) {
	if m == nil {
		return
	}
	m.leaderboardBuild.Observe(d.Seconds())
}

// Middleware records request counts and latency per matched route. A nil
// receiver returns a pass-through handler.
func (m *Metrics) Middleware() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus text format, or 404 when m is nil.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
