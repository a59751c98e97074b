package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(keysRequestLatencyMs) }

var keysRequestLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "keys_request_latency_ms",
		Help:    "Key service call latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
	},
	[]string{"op", "status"},
)

// ObserveKeysRequest records one key service call. status is the HTTP status,
// or 0 when the request never got an answer.
func ObserveKeysRequest(op string, status int, latencyMs int64) {
	keysRequestLatencyMs.WithLabelValues(norm(op), strconv.Itoa(status)).Observe(float64(latencyMs))
}
