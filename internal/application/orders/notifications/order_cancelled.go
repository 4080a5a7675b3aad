package notifications

import (
	"context"
	"fmt"
	"time"

	mediator "github.com/gragra33/blazing-mediator"
)

// OrderCancelledNotification announces that an order was cancelled.
type OrderCancelledNotification struct {
	OrderID     int
	OrderNumber string
	Reason      string
	CancelledAt time.Time
}

// AuditLog is the outbound port for the audit trail.
type AuditLog interface {
	Record(ctx context.Context, event string, metadata map[string]any) error
}

// CancellationAuditHandler records cancelled orders in the audit trail.
type CancellationAuditHandler struct {
	audit AuditLog
}

// NewCancellationAuditHandler creates a new CancellationAuditHandler.
func NewCancellationAuditHandler(audit AuditLog) *CancellationAuditHandler {
	return &CancellationAuditHandler{audit: audit}
}

// Handle writes the audit record.
func (h *CancellationAuditHandler) Handle(ctx context.Context, notification mediator.Notification) error {
	n, ok := notification.(OrderCancelledNotification)
	if !ok {
		return fmt.Errorf("invalid notification type: expected OrderCancelledNotification")
	}

	err := h.audit.Record(ctx, "order.cancelled", map[string]any{
		"order_id":     n.OrderID,
		"order_number": n.OrderNumber,
		"reason":       n.Reason,
		"cancelled_at": n.CancelledAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to record cancellation audit: %w", err)
	}
	return nil
}
