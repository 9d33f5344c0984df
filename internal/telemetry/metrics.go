// Package telemetry holds the Prometheus metrics and Sentry error reporting.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "financezz"

// Metrics owns a private registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	recurringExecuted prometheus.Counter
	recurringSkipped  *prometheus.CounterVec

	workerPasses      *prometheus.CounterVec
	overdueMarked     prometheus.Counter
	remindersNotified prometheus.Counter
	plansExpired      prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		recurringExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_executed_total",
			Help:      "Transactions spawned from recurring templates.",
		}),
		recurringSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_skipped_total",
			Help:      "Recurring templates skipped, by reason.",
		}, []string{"reason"}),
		workerPasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_passes_total",
			Help:      "Background worker passes by result.",
		}, []string{"result"}),
		overdueMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debts_marked_overdue_total",
			Help:      "Debts moved to overdue by the worker.",
		}),
		remindersNotified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_notified_total",
			Help:      "Reminders flagged as notified.",
		}),
		plansExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_expired_total",
			Help:      "Premium subscriptions downgraded after expiry.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.recurringExecuted,
		m.recurringSkipped,
		m.workerPasses,
		m.overdueMarked,
		m.remindersNotified,
		m.plansExpired,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

func (m *Metrics) RecurringExecuted(n int) {
	m.recurringExecuted.Add(float64(n))
}

func (m *Metrics) RecurringSkipped(reason string) {
	m.recurringSkipped.WithLabelValues(reason).Inc()
}

// WorkerPass records one worker pass and what it changed.
func (m *Metrics) WorkerPass(ok bool, overdue, notified, expired int) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.workerPasses.WithLabelValues(result).Inc()
	m.overdueMarked.Add(float64(overdue))
	m.remindersNotified.Add(float64(notified))
	m.plansExpired.Add(float64(expired))
}
