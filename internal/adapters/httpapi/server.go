// Package httpapi translates HTTP requests into mediator dispatches.
package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/statistics"
)

// Server exposes the orders REST API.
type Server struct {
	mediator *mediator.Mediator
	stats    *statistics.Tracker
	registry *prometheus.Registry
}

// NewServer creates a new Server. stats and registry may be nil; the
// corresponding endpoints then report empty data.
func NewServer(m *mediator.Mediator, stats *statistics.Tracker, registry *prometheus.Registry) *Server {
	return &Server{mediator: m, stats: stats, registry: registry}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /orders", s.handleCreateOrder)
	mux.HandleFunc("GET /orders", s.handleListOrders)
	mux.HandleFunc("GET /orders/export", s.handleExportOrders)
	mux.HandleFunc("GET /orders/{id}", s.handleGetOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", s.handleUpdateOrderStatus)
	mux.HandleFunc("DELETE /orders/{id}", s.handleCancelOrder)

	mux.HandleFunc("GET /stats", s.handleStats)
	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return mux
}
