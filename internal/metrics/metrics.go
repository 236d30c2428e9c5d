package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters exported on /metrics next to the HTTP middleware series
var (
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Messages accepted for delivery, by content type",
		},
		[]string{"type"},
	)

	PresenceEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_presence_evictions_total",
			Help: "Users marked offline by the presence sweep",
		},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_ws_connections",
			Help: "Open websocket connections on this instance",
		},
	)

	ScheduledTaskRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_scheduled_task_runs_total",
			Help: "Background task executions, by task and outcome",
		},
		[]string{"task", "outcome"},
	)
)
