// Package outbound holds stand-in implementations of the notification
// ports. A real deployment replaces these with SMTP, warehouse and audit
// integrations.
package outbound

import (
	"context"

	mediator "github.com/gragra33/blazing-mediator"
)

// ConsoleEmailSender logs outgoing mail instead of sending it.
type ConsoleEmailSender struct {
	Logger mediator.Logger
}

// Send logs the email.
func (s *ConsoleEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.Logger.Log(mediator.LevelInfo, "email sent", map[string]any{
		"to":      to,
		"subject": subject,
	})
	return nil
}

// ConsoleInventoryService logs reservations instead of calling a warehouse.
type ConsoleInventoryService struct {
	Logger mediator.Logger
}

// Reserve logs the reservation.
func (s *ConsoleInventoryService) Reserve(ctx context.Context, orderID int) error {
	s.Logger.Log(mediator.LevelInfo, "inventory reserved", map[string]any{
		"order_id": orderID,
	})
	return nil
}

// ConsoleAuditLog logs audit events.
type ConsoleAuditLog struct {
	Logger mediator.Logger
}

// Record logs the audit event.
func (s *ConsoleAuditLog) Record(ctx context.Context, event string, metadata map[string]any) error {
	s.Logger.Log(mediator.LevelInfo, "audit: "+event, metadata)
	return nil
}
