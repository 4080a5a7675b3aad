// Package order holds the order domain entity and its repository port.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order not found")

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown order status: %q", raw)
}

// Order is the domain entity for a customer order.
type Order struct {
	ID            int
	Number        string // external reference, assigned at creation
	CustomerEmail string
	Total         float64
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanTransitionTo reports whether the order may move to the target status.
// Cancelled and delivered orders are terminal.
func (o *Order) CanTransitionTo(target Status) bool {
	switch o.Status {
	case StatusCancelled, StatusDelivered:
		return false
	case StatusPending:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	}
	return false
}

// ListFilter narrows and pages List results.
type ListFilter struct {
	Status   Status // empty means any
	Page     int    // 1-based
	PageSize int
}

// Repository is the persistence port for orders.
type Repository interface {
	FindByID(ctx context.Context, id int) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)
	Save(ctx context.Context, order *Order) error
	ForEach(ctx context.Context, fn func(*Order) error) error
}
