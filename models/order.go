package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled,
}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `json:"user_id"`
	CustomerName     string          `json:"customer_name" validate:"required,max=255"`
	CustomerEmail    string          `json:"customer_email" validate:"required,email"`
	CustomerPhone    string          `json:"customer_phone" validate:"required"`
	CustomerLocation string          `json:"customer_location" validate:"required"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status           string          `gorm:"default:pending" json:"status"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem is the order/product pivot. Price is the unit price at the time
// of purchase and never changes with the product afterwards.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index" json:"order_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `gorm:"type:decimal(8,2)" json:"price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
