// Package metrics defines and registers all custom Prometheus metrics for the
// job connector. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dwjc"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP verb
//   - route: the matched route pattern (e.g. "/jobs/:id")
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Job metrics ───────────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly posted jobs.
var JobsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of jobs posted.",
	},
)

// JobTransitionsTotal counts lifecycle transitions.
// Labels:
//   - to: resulting status ("active", "completed") or "deleted"
var JobTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_transitions_total",
		Help:      "Total number of job lifecycle transitions, by target status.",
	},
	[]string{"to"},
)

// JobTransitionRejectedTotal counts transitions refused by a status guard.
// Labels:
//   - reason: "not_open", "already_completed", "forbidden"
var JobTransitionRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_transition_rejected_total",
		Help:      "Total number of job transitions rejected by a guard.",
	},
	[]string{"reason"},
)

// ── Side-effect metrics ───────────────────────────────────────────────────────

// SideEffectFailuresTotal counts side effects that failed after the primary write succeeded.
// Labels:
//   - kind: "notification", "mail_enqueue", "broadcast", "lookup"
var SideEffectFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Total number of failed best-effort side effects, by kind.",
	},
	[]string{"kind"},
)

// MailDeliveriesTotal counts per-recipient delivery outcomes.
// Labels:
//   - result: "sent", "failed", "dropped"
var MailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_deliveries_total",
		Help:      "Total number of outbound emails, by delivery result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks messages waiting for a mail worker.
var MailQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in the delivery queue.",
	},
)

// ── Real-time metrics ─────────────────────────────────────────────────────────

// RealtimeClients tracks open WebSocket connections on this instance.
var RealtimeClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_clients",
		Help:      "Current number of connected real-time clients.",
	},
)

// RealtimeEventsTotal counts published events.
// Labels:
//   - event: event name (e.g. "job:new")
var RealtimeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_events_total",
		Help:      "Total number of real-time events published, by event name.",
	},
	[]string{"event"},
)
