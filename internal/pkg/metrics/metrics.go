// Package metrics defines and registers all custom Prometheus metrics for the
// portal access gate. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts page navigation decisions.
// Labels:
//   - route: matched route prefix, or "public"
//   - outcome: "allow", "redirect_login", "redirect_home"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of page navigation decisions made by the access gate.",
	},
	[]string{"route", "outcome"},
)

// ── Authorization metrics ─────────────────────────────────────────────────────

// ActionsTotal counts privileged actions by outcome.
// Labels:
//   - action: e.g. "promote", "delete_user", "answer_question"
//   - outcome: "ok", "unauthenticated", "forbidden", "self_action", "blocked", "not_found", "conflict", "error"
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of privileged actions attempted, by outcome.",
	},
	[]string{"action", "outcome"},
)

// ── Identity sync metrics ─────────────────────────────────────────────────────

// IdentityEventsTotal counts identity-provider notifications.
// Labels:
//   - type: "user.created", "user.updated", "user.deleted", or "unknown"
//   - result: "applied", "duplicate", "ignored", "failed"
var IdentityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_events_total",
		Help:      "Total number of identity provider notifications, by type and result.",
	},
	[]string{"type", "result"},
)

// IdentityEventsQueueDepth tracks events waiting in each dispatcher worker channel.
var IdentityEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "identity_events_queue_depth",
		Help:      "Current number of identity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// IdentityEventDuration measures how long applying a single event takes.
var IdentityEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "identity_event_duration_seconds",
		Help:      "Duration of identity event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "blocked", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
