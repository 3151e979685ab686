// Package metrics defines and registers all custom Prometheus metrics for
// the reservation gateway. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package load via
// promauto; the /metrics endpoint serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gateway"

// ── Guard metrics ─────────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the identity guard.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_token" or "revoked"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the identity guard.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts authenticated requests rejected by the role guard.
// Label:
//   - role: the role the rejected principal carried
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests denied for lacking a required role.",
	},
	[]string{"role"},
)

// ── Backend dispatch metrics ──────────────────────────────────────────────────

// DispatchDuration measures the round trip of one backend command dispatch.
// Label:
//   - command: the dispatched command name (e.g. "crear-reserva")
var DispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of backend request/reply dispatches.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"command"},
)

// DispatchErrorsTotal counts failed backend dispatches.
// Labels:
//   - command: the dispatched command name
//   - reason: "timeout" or "error"
var DispatchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_errors_total",
		Help:      "Total number of backend dispatches that failed, by reason.",
	},
	[]string{"command", "reason"},
)

// ── Realtime metrics ──────────────────────────────────────────────────────────

// ConnectionsActive tracks the number of live realtime connections.
var ConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connections_active",
		Help:      "Current number of registered realtime connections.",
	},
)

// ConnectionsTotal counts realtime handshakes by outcome.
// Label:
//   - outcome: "accepted" or "rejected"
var ConnectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "realtime_connections_total",
		Help:      "Total number of realtime handshakes, by outcome.",
	},
	[]string{"outcome"},
)
