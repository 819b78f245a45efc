// Package metrics defines and registers all custom Prometheus metrics for
// the investor portal API. It is the single source of truth for metric
// names, labels, and help strings. Metrics register themselves with the
// default registry via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts credential checks.
// Label:
//   - result: "accepted" (passcode issued) or "rejected" (bad credentials)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of credential verification attempts.",
	},
	[]string{"result"},
)

// OTPIssuedTotal counts passcode issuances.
// Label:
//   - channel: "email" or "phone"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of one-time passcodes issued, by channel.",
	},
	[]string{"channel"},
)

// OTPValidatedTotal counts passcode verification outcomes.
// Label:
//   - result: "accepted" or "rejected" (wrong, expired, and replayed codes
//     are deliberately not distinguished)
var OTPValidatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_validated_total",
		Help:      "Total number of one-time passcode verification attempts.",
	},
	[]string{"result"},
)

// SessionsRevokedTotal counts logouts that blacklisted a token id.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of session tokens revoked before expiry.",
	},
)

// ── Delivery metrics ──────────────────────────────────────────────────────────

// DeliveryQueueDepth tracks the number of passcode deliveries waiting in
// each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DeliveryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "delivery_queue_depth",
		Help:      "Current number of passcode deliveries pending per worker.",
	},
	[]string{"worker_id"},
)

// DeliveryErrorsTotal counts failed passcode deliveries (swallowed by
// design; the login flow never observes them).
// Label:
//   - channel: "email" or "phone"
var DeliveryErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_errors_total",
		Help:      "Total number of passcode delivery failures, by channel.",
	},
	[]string{"channel"},
)
