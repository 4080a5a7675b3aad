// Package persistence holds the GORM implementations of the domain
// repository ports.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gragra33/blazing-mediator/internal/domain/order"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id int) (*order.Order, error) {
	var model OrderModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", order.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find order: %w", result.Error)
	}

	return r.modelToOrder(&model)
}

// List retrieves one page of orders plus the unpaged total count
func (r *GormOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var models []OrderModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*order.Order, 0, len(models))
	for i := range models {
		o, err := r.modelToOrder(&models[i])
		if err != nil {
			continue // Skip rows with invalid status values
		}
		orders = append(orders, o)
	}

	return orders, total, nil
}

// Save persists an order, assigning the ID on first insert
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := r.orderToModel(o)

	// Upsert: create or update
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save order: %w", result.Error)
	}

	o.ID = model.ID
	return nil
}

// ForEach visits every order in ID order, one row at a time. The visitor
// returning an error stops the scan and propagates the error.
func (r *GormOrderRepository) ForEach(ctx context.Context, fn func(*order.Order) error) error {
	rows, err := r.db.WithContext(ctx).Model(&OrderModel{}).Order("id").Rows()
	if err != nil {
		return fmt.Errorf("failed to open order scan: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var model OrderModel
		if err := r.db.ScanRows(rows, &model); err != nil {
			return fmt.Errorf("failed to scan order row: %w", err)
		}
		o, err := r.modelToOrder(&model)
		if err != nil {
			continue
		}
		if err := fn(o); err != nil {
			return err
		}
	}
	return rows.Err()
}

// modelToOrder converts database model to domain entity
func (r *GormOrderRepository) modelToOrder(model *OrderModel) (*order.Order, error) {
	status, err := order.ParseStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid order status in database: %w", err)
	}

	return &order.Order{
		ID:            model.ID,
		Number:        model.Number,
		CustomerEmail: model.CustomerEmail,
		Total:         model.Total,
		Status:        status,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}, nil
}

// orderToModel converts domain entity to database model
func (r *GormOrderRepository) orderToModel(o *order.Order) *OrderModel {
	return &OrderModel{
		ID:            o.ID,
		Number:        o.Number,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
