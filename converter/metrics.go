package converter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var convertedBlocks = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "block_to_payload",
		Subsystem: "converter",
		Name:      "blocks_total",
		Help:      "Total number of blocks converted to an execution payload",
	},
	[]string{"status", "version"},
)

var convertedTransactions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "block_to_payload",
		Subsystem: "converter",
		Name:      "transactions_total",
		Help:      "Total number of transactions canonicalized, by envelope type",
	},
	[]string{"type"},
)

var blockDurationMillis = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "block_to_payload",
		Subsystem: "converter",
		Name:      "block_duration_millis",
		Help:      "Duration of loading and converting one block in milliseconds",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 4000},
	},
	[]string{"status"},
)

func observeBlock(status string, version string, t0 time.Time) {
	convertedBlocks.WithLabelValues(status, version).Inc()
	blockDurationMillis.WithLabelValues(status).Observe(float64(time.Since(t0).Milliseconds()))
}
