// Package metrics exposes Prometheus collectors for cipher operations and the
// RPC surface that serves them.
package metrics

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cipherlab"

var (
	registry = prometheus.NewRegistry()

	operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of cipher operations executed, by operation and outcome.",
	}, []string{"operation", "outcome"})

	operationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Total number of failed cipher operations, by operation and error kind.",
	}, []string{"operation", "kind"})

	operationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Latency of cipher operations.",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"operation"})

	rpcRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of RPC requests handled.",
	}, []string{"method"})

	rpcErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_errors_total",
		Help:      "Total number of RPC errors returned, by status code.",
	}, []string{"method", "code"})

	rpcLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Latency of RPC handlers broken down by method and code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})

	totalRequests atomic.Uint64
)

func init() {
	registry.MustRegister(operations, operationErrors, operationLatency, rpcRequests, rpcErrors, rpcLatency)
}

// Handler returns an http.Handler that exposes all registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Registry returns the registry backing Handler. Tests gather from it directly.
func Registry() *prometheus.Registry {
	return registry
}

// RecordOperation counts one executed operation. kind is empty on success.
func RecordOperation(operation, kind string, dur time.Duration) {
	outcome := "ok"
	if kind != "" {
		outcome = "error"
		operationErrors.WithLabelValues(operation, kind).Inc()
	}
	operations.WithLabelValues(operation, outcome).Inc()
	operationLatency.WithLabelValues(operation).Observe(dur.Seconds())
}

// RecordRPCRequest increments the RPC request counter.
func RecordRPCRequest(method string) {
	rpcRequests.WithLabelValues(method).Inc()
	totalRequests.Add(1)
}

// RecordRPCError increments the RPC error counter.
func RecordRPCError(method, code string) {
	rpcErrors.WithLabelValues(method, code).Inc()
}

// ObserveRPCLatency records the latency of an RPC handler.
func ObserveRPCLatency(_ context.Context, method, code string, dur time.Duration) {
	rpcLatency.WithLabelValues(method, code).Observe(dur.Seconds())
}

// TotalRequests reports how many RPC requests have been recorded since start.
func TotalRequests() uint64 {
	return totalRequests.Load()
}
