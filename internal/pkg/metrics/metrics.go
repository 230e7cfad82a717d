// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_order_transitions_total",
			Help: "Order state transitions by kind",
		},
		[]string{"transition"}, // created, accepted, completed, rated, cancelled_customer, cancelled_driver, cancelled_admin
	)

	OrderRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_order_rejections_total",
			Help: "Rejected order actions by reason",
		},
		[]string{"reason"},
	)

	GatewayFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_gateway_failures_total",
			Help: "Messaging gateway calls that failed, by operation",
		},
		[]string{"operation"},
	)

	RemindersFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_reminders_fired_total",
			Help: "Driver reminders delivered, by milestone offset in minutes",
		},
		[]string{"offset"},
	)

	TrialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_trials_total",
			Help: "Trial lifecycle events",
		},
		[]string{"event"}, // granted, refused, expired, superseded
	)

	InvitesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_invites_total",
			Help: "Region invite links by outcome",
		},
		[]string{"outcome"}, // sent, failed, consumed
	)

	ReceiptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_receipts_total",
			Help: "Payment receipts by outcome",
		},
		[]string{"outcome"}, // submitted, approved, rejected, undeliverable
	)

	SnapshotWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_snapshot_writes_total",
			Help: "Profile snapshot writes by result",
		},
		[]string{"result"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_store_errors_total",
			Help: "Failed snapshot backend commands",
		},
		[]string{"backend", "command"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_admin_http_requests_total",
			Help: "Admin API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	UpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_updates_total",
			Help: "Incoming chat updates by kind",
		},
		[]string{"kind"}, // message, callback, chat_member, ignored
	)

	WatcherSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_watcher_sweep_duration_seconds",
			Help:    "Duration of one entitlement watcher sweep",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordGatewayFailure counts a failed gateway call.
func RecordGatewayFailure(operation string) {
	GatewayFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordTransition counts an order transition.
func RecordTransition(transition string) {
	OrderTransitionsTotal.WithLabelValues(transition).Inc()
}
