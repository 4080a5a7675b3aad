package helpers

import (
	"context"
	"sync"
)

// SentEmail captures one call to MockEmailSender.Send
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender records outgoing mail
type MockEmailSender struct {
	mu   sync.Mutex
	Sent []SentEmail
	Fail error
}

// Send records the email, or returns Fail when set
func (m *MockEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// MockInventoryService records reservation calls
type MockInventoryService struct {
	mu       sync.Mutex
	Reserved []int
	Fail     error
}

// Reserve records the order ID, or returns Fail when set
func (m *MockInventoryService) Reserve(ctx context.Context, orderID int) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reserved = append(m.Reserved, orderID)
	return nil
}

// AuditEvent captures one call to MockAuditLog.Record
type AuditEvent struct {
	Event    string
	Metadata map[string]any
}

// MockAuditLog records audit events
type MockAuditLog struct {
	mu     sync.Mutex
	Events []AuditEvent
}

// Record stores the event
func (m *MockAuditLog) Record(ctx context.Context, event string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, AuditEvent{Event: event, Metadata: metadata})
	return nil
}
