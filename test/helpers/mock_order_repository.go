package helpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// MockOrderRepository is an in-memory test double for order.Repository
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[int]*order.Order
	nextID int

	// SaveErr, when set, is returned by Save to simulate storage failures
	SaveErr error
}

// NewMockOrderRepository creates a new mock order repository
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[int]*order.Order),
		nextID: 1,
	}
}

// AddOrder seeds an order, assigning an ID if none is set
func (m *MockOrderRepository) AddOrder(o *order.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.nextID
		m.nextID++
	} else if o.ID >= m.nextID {
		m.nextID = o.ID + 1
	}
	copied := *o
	m.orders[o.ID] = &copied
}

// FindByID retrieves an order by ID
func (m *MockOrderRepository) FindByID(ctx context.Context, id int) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", order.ErrNotFound, id)
	}
	copied := *o
	return &copied, nil
}

// List returns one page of orders plus the unpaged total
func (m *MockOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []*order.Order
	for _, o := range m.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		copied := *o
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if filter.Page > 0 && filter.PageSize > 0 {
		start := (filter.Page - 1) * filter.PageSize
		if start >= len(all) {
			return nil, total, nil
		}
		end := start + filter.PageSize
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

// Save persists an order, assigning the ID on first insert
func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.nextID
		m.nextID++
	}
	copied := *o
	m.orders[o.ID] = &copied
	return nil
}

// ForEach visits every order in ID order
func (m *MockOrderRepository) ForEach(ctx context.Context, fn func(*order.Order) error) error {
	all, _, err := m.List(ctx, order.ListFilter{})
	if err != nil {
		return err
	}
	for _, o := range all {
		if err := fn(o); err != nil {
			return err
		}
	}
	return nil
}
