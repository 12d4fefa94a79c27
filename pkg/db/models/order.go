package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villageessence/marketplace-backend/pkg/enums"
)

// Order is the committed purchase created at checkout. It is the source of
// truth for a sale; the shopper's cart is only a convenience cache.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber string            `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	CustomerID  uuid.UUID         `gorm:"column:customer_id;type:uuid;not null" json:"customer_id"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	Notes       *string           `gorm:"column:notes" json:"notes,omitempty"`
	Customer    *Customer         `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
