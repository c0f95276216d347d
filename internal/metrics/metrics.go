// Package metrics defines the Prometheus collectors for the ledger daemon.
// Collectors are package-level and registered via promauto on the default
// registry; the HTTP server exposes them at /metrics when enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engine Metrics ─────────────────────────────────────────────────────────

// Operations counts engine operations by name and outcome (ok / rejected).
var Operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "engine",
	Name:      "operations_total",
	Help:      "Engine operations by name and outcome.",
}, []string{"op", "outcome"})

// DrainedEvents counts deferred events applied during the drain step.
var DrainedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "engine",
	Name:      "drained_events_total",
	Help:      "Deferred events applied, by kind (transfer_expiry, cashback).",
}, []string{"kind"})

// ScheduledEvents tracks the number of events still pending in the scheduler.
var ScheduledEvents = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ledgerd",
	Subsystem: "engine",
	Name:      "scheduled_events",
	Help:      "Deferred events currently pending in the scheduler.",
})

// Accounts tracks the number of registered accounts.
var Accounts = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ledgerd",
	Subsystem: "engine",
	Name:      "accounts",
	Help:      "Accounts registered in the ledger.",
})

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// RequestDuration observes HTTP request latency per route.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ledgerd",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route and status code.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "code"})

// ─── Journal Metrics ────────────────────────────────────────────────────────

// JournalEntries counts audit entries appended to the journal.
var JournalEntries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "journal",
	Name:      "entries_total",
	Help:      "Audit entries appended to the journal.",
})

// JournalErrors counts audit entries dropped because the insert failed.
var JournalErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "journal",
	Name:      "errors_total",
	Help:      "Audit entries dropped due to journal write failures.",
})
