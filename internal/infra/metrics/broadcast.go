package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		broadcastsTotal,
		broadcastMessagesTotal,
		broadcastDurationSeconds,
	)
}

var (
	broadcastsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcasts_total",
			Help: "Total broadcast runs started.",
		},
	)

	broadcastMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Per-recipient broadcast outcomes (sent/failed).",
		},
		[]string{"status"},
	)

	broadcastDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "broadcast_duration_seconds",
			Help:    "End-to-end broadcast fan-out duration.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)
)

func IncBroadcasts() {
	broadcastsTotal.Inc()
}

func IncBroadcastMessage(status string) {
	broadcastMessagesTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveBroadcastDuration(seconds float64) {
	broadcastDurationSeconds.Observe(seconds)
}
