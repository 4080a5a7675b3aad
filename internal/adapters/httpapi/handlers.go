package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	mediator "github.com/gragra33/blazing-mediator"
	"github.com/gragra33/blazing-mediator/internal/application/common"
	"github.com/gragra33/blazing-mediator/internal/application/orders/commands"
	"github.com/gragra33/blazing-mediator/internal/application/orders/queries"
	"github.com/gragra33/blazing-mediator/internal/domain/order"
	"github.com/gragra33/blazing-mediator/statistics"
)

type createOrderRequest struct {
	CustomerEmail string  `json:"customer_email"`
	Total         float64 `json:"total"`
}

type createOrderResponse struct {
	OrderID  int      `json:"order_id"`
	Messages []string `json:"messages,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type orderResponse struct {
	ID            int     `json:"id"`
	Number        string  `json:"number"`
	CustomerEmail string  `json:"customer_email"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
}

type listOrdersResponse struct {
	Orders   []orderResponse `json:"orders"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int64           `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := mediator.Send[common.OperationResult[int]](r.Context(), s.mediator, commands.CreateOrderCommand{
		CustomerEmail: body.CustomerEmail,
		Total:         body.Total,
	})
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		OrderID:  result.Value,
		Messages: result.Messages,
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	o, err := mediator.Send[*order.Order](r.Context(), s.mediator, queries.GetOrderQuery{OrderID: id})
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := queries.ListOrdersQuery{
		Status: order.Status(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		query.Page, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		query.PageSize, _ = strconv.Atoi(raw)
	}

	page, err := mediator.Send[*queries.ListOrdersResponse](r.Context(), s.mediator, query)
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	resp := listOrdersResponse{
		Orders:   make([]orderResponse, 0, len(page.Orders)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
	for _, o := range page.Orders {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := s.mediator.Send(r.Context(), commands.UpdateOrderStatusCommand{OrderID: id, Status: status}); err != nil {
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var body cancelOrderRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if body.Reason == "" {
		body.Reason = "cancelled via API"
	}

	if _, err := s.mediator.Send(r.Context(), commands.CancelOrderCommand{OrderID: id, Reason: body.Reason}); err != nil {
		writeDispatchError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportOrders streams every order as NDJSON, one object per line.
func (s *Server) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	stream, err := s.mediator.SendStream(r.Context(), queries.ExportOrdersQuery{})
	if err != nil {
		writeDispatchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	for item := range stream {
		if item.Err != nil {
			// Headers are already out; the truncated stream is the signal.
			return
		}
		o, ok := item.Value.(*order.Order)
		if !ok {
			continue
		}
		if err := enc.Encode(toOrderResponse(o)); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.stats == nil {
		_, _ = w.Write([]byte("statistics disabled\n"))
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	s.stats.ReportTo(statistics.NewConsoleRenderer(w), detailed)
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		Number:        o.Number,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		Status:        string(o.Status),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeDispatchError maps mediator and domain errors onto HTTP statuses.
func writeDispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, mediator.ErrNoHandler):
		writeError(w, http.StatusNotImplemented, err)
	default:
		writeError(w, http.StatusUnprocessableEntity, err)
	}
}
