package jsonrpc

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rpcRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "block_to_payload",
		Subsystem: "rpc_client",
		Name:      "request_total",
		Help:      "Total number of requests sent to the RPC node",
	},
	[]string{"status", "method"},
)

var rpcRequestDurationMillis = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "block_to_payload",
		Subsystem: "rpc_client",
		Name:      "request_duration_millis",
		Help:      "Duration of RPC node requests in milliseconds, retries included",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	},
	[]string{"status", "method"},
)

var fetchedBlockBytes = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "block_to_payload",
		Subsystem: "rpc_client",
		Name:      "block_response_bytes",
		Help:      "Size of block responses with full transaction objects",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 10),
	},
	[]string{"method"},
)

func observeRPCRequest(status string, method string, t0 time.Time) {
	rpcRequests.WithLabelValues(status, method).Inc()
	rpcRequestDurationMillis.WithLabelValues(status, method).Observe(float64(time.Since(t0).Milliseconds()))
}

func observeRPCRequestCode(statusCode int, method string, t0 time.Time) {
	observeRPCRequest(strconv.Itoa(statusCode), method, t0)
}

func observeRPCRequestErr(err error, method string, t0 time.Time) {
	observeRPCRequest(errorToStatus(err), method, t0)
}

func errorToStatus(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "timeout"
		}
		return "connection_refused"
	}
	return "unknown_error"
}
