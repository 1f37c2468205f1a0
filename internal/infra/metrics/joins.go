package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		joinRequestsTotal,
		joinApprovalsTotal,
		welcomeDeliveriesTotal,
	)
}

var (
	joinRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "join_requests_total",
			Help: "Total group join requests received.",
		},
	)

	joinApprovalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "join_approvals_total",
			Help: "Join approval outcomes (approved/failed).",
		},
		[]string{"status"},
	)

	welcomeDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "welcome_deliveries_total",
			Help: "Welcome DM delivery outcomes (sent/failed).",
		},
		[]string{"status"},
	)
)

func IncJoinRequests() {
	joinRequestsTotal.Inc()
}

func IncJoinApprovals(status string) {
	joinApprovalsTotal.WithLabelValues(norm(status)).Inc()
}

func IncWelcomeDeliveries(status string) {
	welcomeDeliveriesTotal.WithLabelValues(norm(status)).Inc()
}
