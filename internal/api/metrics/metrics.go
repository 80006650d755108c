// Package metrics defines and registers all custom Prometheus metrics for the
// ForKa forum API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forka"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "locked", "unverified"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LockoutsTotal counts accounts locked by the failed-attempt threshold.
var LockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lockouts_total",
		Help:      "Total number of account lockouts triggered.",
	},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// CodesIssuedTotal counts verification codes issued.
// Label:
//   - purpose: "email_verify" or "password_reset"
var CodesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_issued_total",
		Help:      "Total number of verification codes issued, by purpose.",
	},
	[]string{"purpose"},
)

// CodesConsumedTotal counts verification codes successfully consumed.
// Label:
//   - purpose: "email_verify" or "password_reset"
var CodesConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "codes_consumed_total",
		Help:      "Total number of verification codes successfully consumed, by purpose.",
	},
	[]string{"purpose"},
)

// RateLimitedTotal counts requests rejected by the fixed-window limiter.
// Label:
//   - scope: the limited route group (e.g. "login", "register")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by scope.",
	},
	[]string{"scope"},
)

// PostsCreatedTotal counts new forum posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// NotificationsDispatchedTotal counts notifications written to user inboxes.
// Label:
//   - type: "comment", "reply", "like_post", "like_comment"
var NotificationsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notifications delivered to inboxes, by type.",
	},
	[]string{"type"},
)
