package persistence

import (
	"time"
)

// OrderModel represents the orders table
type OrderModel struct {
	ID            int       `gorm:"column:id;primaryKey;autoIncrement"`
	Number        string    `gorm:"column:number;unique;not null"`
	CustomerEmail string    `gorm:"column:customer_email;not null"`
	Total         float64   `gorm:"column:total;not null"`
	Status        string    `gorm:"column:status;not null;default:'PENDING'"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null"`
}

func (OrderModel) TableName() string {
	return "orders"
}
