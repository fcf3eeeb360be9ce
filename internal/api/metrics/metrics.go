// Package metrics defines and registers all custom Prometheus metrics for the
// Morden Safety admin console client. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init and
// are exposed by the watch command's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "morden"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts finished backend calls.
// Labels:
//   - method: HTTP verb
//   - status: response status code, or "no_response" on transport failure
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend requests sent through the gateway.",
	},
	[]string{"method", "status"},
)

// GatewayRequestDuration measures round-trip time of backend calls.
// Label:
//   - method: HTTP verb
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend requests from dispatch to full body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// SessionExpirationsTotal counts 401-triggered session teardowns.
var SessionExpirationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expirations_total",
		Help:      "Total number of sessions torn down after a 401 response.",
	},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartOperationsTotal counts cart ledger mutations.
// Labels:
//   - op: "add", "update", "remove", "clear"
//   - result: "applied" or "noop"
var CartOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart ledger operations, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsUnread is the unread count seen by the last successful poll.
var NotificationsUnread = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_unread",
		Help:      "Unread notifications reported by the most recent poll.",
	},
)

// NotificationPollErrorsTotal counts failed notification polls.
var NotificationPollErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_poll_errors_total",
		Help:      "Total number of notification polls that failed.",
	},
)
