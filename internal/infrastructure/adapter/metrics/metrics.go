package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
)

const namespace = "game_portal"

// Metrics owns the application collectors and their registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	transfers     *prometheus.CounterVec
	syncRuns      *prometheus.CounterVec
	syncEntries   *prometheus.CounterVec
	upstreamCalls *prometheus.CounterVec
	upstreamTime  *prometheus.HistogramVec
	callbacks     *prometheus.CounterVec
	sweptSessions prometheus.Counter
}

// New creates the collectors on a fresh registry, including Go and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "route"},
		),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "transfers_total",
				Help:      "Balance transfers by actor role and outcome.",
			},
			[]string{"role", "outcome"},
		),
		syncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "sync_runs_total",
				Help:      "Catalog synchronization runs by outcome.",
			},
			[]string{"outcome", "dry_run"},
		),
		syncEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "sync_entries_total",
				Help:      "Catalog entries touched by synchronization, by action.",
			},
			[]string{"action"},
		),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "calls_total",
				Help:      "Games API calls by command and outcome.",
			},
			[]string{"cmd", "outcome"},
		),
		upstreamTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "upstream",
				Name:      "call_duration_seconds",
				Help:      "Duration of games API calls including retries.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"cmd"},
		),
		callbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "callbacks_total",
				Help:      "Provider wallet callbacks by command, status and error.",
			},
			[]string{"cmd", "status", "error"},
		),
		sweptSessions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sessions",
				Name:      "swept_total",
				Help:      "Stale game sessions force-closed by the sweeper.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.transfers,
		m.syncRuns,
		m.syncEntries,
		m.upstreamCalls,
		m.upstreamTime,
		m.callbacks,
		m.sweptSessions,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB adds connection pool statistics for db
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one handled request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveTransfer records a transfer attempt; outcome is "ok" or an error code label
func (m *Metrics) ObserveTransfer(role entity.Role, outcome string) {
	m.transfers.WithLabelValues(string(role), outcome).Inc()
}

// ObserveSync records a synchronization run
func (m *Metrics) ObserveSync(result *entity.SyncResult, err error) {
	if err != nil {
		m.syncRuns.WithLabelValues("error", "false").Inc()
		return
	}
	m.syncRuns.WithLabelValues("ok", strconv.FormatBool(result.DryRun)).Inc()
	if result.DryRun {
		return
	}
	m.syncEntries.WithLabelValues("inserted").Add(float64(result.Inserted))
	m.syncEntries.WithLabelValues("updated").Add(float64(result.Updated))
	m.syncEntries.WithLabelValues("unchanged").Add(float64(result.Unchanged))
	m.syncEntries.WithLabelValues("pruned").Add(float64(result.Pruned))
}

// ObserveUpstreamCall implements the upstream client observer
func (m *Metrics) ObserveUpstreamCall(cmd, outcome string, elapsed time.Duration) {
	m.upstreamCalls.WithLabelValues(cmd, outcome).Inc()
	m.upstreamTime.WithLabelValues(cmd).Observe(elapsed.Seconds())
}

// ObserveCallback records a wallet callback reply
func (m *Metrics) ObserveCallback(cmd, status, errorCode string) {
	m.callbacks.WithLabelValues(cmd, status, errorCode).Inc()
}

// ObserveSweep records sessions closed by one sweep
func (m *Metrics) ObserveSweep(closed int64) {
	if closed > 0 {
		m.sweptSessions.Add(float64(closed))
	}
}
