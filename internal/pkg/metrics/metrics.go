// Package metrics defines and registers all custom Prometheus metrics for the
// tweetfi service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tweetfi"

// ── Platform metrics ──────────────────────────────────────────────────────────

// PlatformRequestsTotal counts outbound requests to the platform API.
// Labels:
//   - endpoint: logical endpoint name (e.g. "users_me", "user_tweets", "likes")
//   - status: HTTP status code, or "transport_error" when no response arrived
var PlatformRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "platform_requests_total",
		Help:      "Total number of requests sent to the platform API.",
	},
	[]string{"endpoint", "status"},
)

// PlatformRequestDuration measures round-trip latency of platform calls,
// including time spent waiting on the rate limiter.
var PlatformRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "platform_request_duration_seconds",
		Help:      "Duration of platform API requests, including rate limiter wait.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Poller metrics ────────────────────────────────────────────────────────────

// PollCyclesTotal counts completed poll cycles (a cycle always completes).
var PollCyclesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_cycles_total",
		Help:      "Total number of polling cycles run.",
	},
)

// PollAccountsTotal counts per-account outcomes inside cycles.
// Label:
//   - result: "found" or "missing"
var PollAccountsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_accounts_total",
		Help:      "Total number of tracked-account checks, by result.",
	},
	[]string{"result"},
)

var PollCycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "poll_cycle_duration_seconds",
		Help:      "Duration of a full polling cycle across all tracked accounts.",
		Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
	},
)

// ── Action metrics ────────────────────────────────────────────────────────────

// ActionsTotal counts write actions.
// Labels:
//   - action: "like", "repost" or "reply"
//   - result: "success", "failure" or "replayed"
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of write actions, by action and result.",
	},
	[]string{"action", "result"},
)

// ActionsQueueDepth tracks pending async actions in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActionsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "actions_queue_depth",
		Help:      "Current number of actions pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
