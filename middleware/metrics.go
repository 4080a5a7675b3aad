package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	mediator "github.com/gragra33/blazing-mediator"
)

// MetricsCollector handles request/notification execution metrics.
type MetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewMetricsCollector creates a new execution metrics collector.
func NewMetricsCollector(namespace string) *MetricsCollector {
	return &MetricsCollector{
		// Request execution duration histogram
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Request execution duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"request", "status"},
		),

		// Request execution counter
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_total",
				Help:      "Total number of requests executed by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers all collectors with the given Prometheus registry.
func (c *MetricsCollector) Register(registry *prometheus.Registry) error {
	if registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.requestDuration,
		c.requestsTotal,
	}

	for _, metric := range metrics {
		if err := registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordExecution records one dispatch outcome.
func (c *MetricsCollector) RecordExecution(requestName string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.requestDuration.WithLabelValues(requestName, status).Observe(duration)
	c.requestsTotal.WithLabelValues(requestName, status).Inc()
}

// Metrics creates a middleware that records execution metrics for every
// dispatched request.
//
// This middleware wraps all request execution and records:
// - Execution duration (histogram)
// - Success/failure counts (counter)
func Metrics(collector *MetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		requestName := mediator.TypeName(request)
		start := time.Now()

		response, err := next(ctx, request)

		duration := time.Since(start).Seconds()
		collector.RecordExecution(requestName, duration, err == nil)

		return response, err
	}
}
