package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/middleware"
)

type meteredQuery struct {
	Fail bool
}

func TestMetrics_RecordsOutcomesPerRequestType(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := middleware.NewMetricsCollector("orders")
	require.NoError(t, collector.Register(registry))

	m := mediator.New()
	m.Use(middleware.Metrics(collector))
	err := mediator.RegisterHandlerFunc[meteredQuery](m, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		if request.(meteredQuery).Fail {
			return nil, errors.New("handler failed")
		}
		return "ok", nil
	})
	require.NoError(t, err)

	_, _ = m.Send(context.Background(), meteredQuery{})
	_, _ = m.Send(context.Background(), meteredQuery{})
	_, _ = m.Send(context.Background(), meteredQuery{Fail: true})

	assert.Equal(t, 2.0, counterValue(t, registry, "orders_mediator_requests_total", "meteredQuery", "success"))
	assert.Equal(t, 1.0, counterValue(t, registry, "orders_mediator_requests_total", "meteredQuery", "error"))
}

func TestMetrics_NilCollectorIsPassThrough(t *testing.T) {
	m := mediator.New()
	m.Use(middleware.Metrics(nil))
	err := mediator.RegisterHandlerFunc[meteredQuery](m, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	response, err := m.Send(context.Background(), meteredQuery{})
	require.NoError(t, err)
	assert.Equal(t, "ok", response)
}

func TestMetricsCollector_RejectsDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := middleware.NewMetricsCollector("orders")

	require.NoError(t, collector.Register(registry))
	assert.Error(t, collector.Register(registry))
}

func TestMetricsCollector_NilRegistryDisablesMetrics(t *testing.T) {
	collector := middleware.NewMetricsCollector("orders")
	assert.NoError(t, collector.Register(nil))
}

// counterValue reads one labelled counter from a gathered registry.
func counterValue(t *testing.T, registry *prometheus.Registry, name, request, status string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchesLabels(metric, request, status) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchesLabels(metric *dto.Metric, request, status string) bool {
	var gotRequest, gotStatus string
	for _, label := range metric.GetLabel() {
		switch label.GetName() {
		case "request":
			gotRequest = label.GetValue()
		case "status":
			gotStatus = label.GetValue()
		}
	}
	return gotRequest == request && gotStatus == status
}
