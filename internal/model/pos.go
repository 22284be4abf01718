package model

import (
	"time"

	"gorm.io/gorm"
)

// POS order statuses
const (
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ProductCategory groups catalog products
type ProductCategory struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null;unique"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Product is an ancillary sale item with a tracked stock count
type Product struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"type:varchar(255);not null"`
	SKU        string         `json:"sku" gorm:"type:varchar(100);uniqueIndex"`
	Price      float64        `json:"price" gorm:"not null"`
	Stock      int            `json:"stock" gorm:"default:0"`
	CategoryID uint           `json:"category_id" gorm:"index"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// PosOrder is a point-of-sale order attributed to the shift it was rung on.
// Line items snapshot name and price at sale time.
type PosOrder struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	OrderNumber   string         `json:"order_number" gorm:"type:varchar(30);uniqueIndex"`
	ShiftID       uint           `json:"shift_id" gorm:"index;not null"`
	UserID        uint           `json:"user_id" gorm:"index"`
	PaymentMethod string         `json:"payment_method" gorm:"type:varchar(20);default:'CASH'"`
	Total         float64        `json:"total"`
	Status        string         `json:"status" gorm:"type:varchar(20);index;default:'COMPLETED'"`
	Items         []PosOrderItem `json:"items" gorm:"foreignKey:PosOrderID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PosOrderItem is one order line; Name and Price are copied from the product
// at sale time, never re-read
type PosOrderItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PosOrderID uint      `json:"pos_order_id" gorm:"index;not null"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Price      float64   `json:"price"`
	Qty        int       `json:"qty"`
	LineTotal  float64   `json:"line_total"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
