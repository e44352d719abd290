// Package metrics defines and registers the custom Prometheus metrics for
// the issue tracker. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "issuedesk"

// IssuesCreatedTotal counts created issues by priority.
var IssuesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_created_total",
		Help:      "Total number of issues created, by priority.",
	},
	[]string{"priority"},
)

// IssueStatusChangesTotal counts status transitions by new status.
var IssueStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issue_status_changes_total",
		Help:      "Total number of issue status changes, by new status.",
	},
	[]string{"status"},
)

// CommentsCreatedTotal counts created comments.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// EventsBroadcastTotal counts realtime events delivered to client send
// buffers, by event name.
var EventsBroadcastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_broadcast_total",
		Help:      "Total number of realtime events fanned out to connections.",
	},
	[]string{"event"},
)

// ConnectionsActive tracks the number of live realtime connections.
var ConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_connections_active",
		Help:      "Current number of connected realtime clients.",
	},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected with 429.",
	},
)
