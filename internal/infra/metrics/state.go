package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(pageStateLookupsTotal) }

var pageStateLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "page_state_lookups_total",
		Help: "Tracks page state hits and misses per store.",
	},
	[]string{"store", "result"}, // e.g., store="redis", result="hit"
)

func IncPageStateLookup(store, result string) {
	pageStateLookupsTotal.WithLabelValues(norm(store), norm(result)).Inc()
}
