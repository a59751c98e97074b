package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(accessFlowsTotal) }

var accessFlowsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "access_flows_total",
		Help: "Completed access page flows by flow and outcome.",
	},
	[]string{"flow", "outcome"}, // flow: issue|redeem, outcome: ok|rejected|declined|failed
)

func IncFlow(flow, outcome string) {
	accessFlowsTotal.WithLabelValues(norm(flow), norm(outcome)).Inc()
}
