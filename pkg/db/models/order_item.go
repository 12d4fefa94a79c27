package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one purchased line. UnitPrice is the storefront sell
// price the shopper saw; BaseUnitPrice is the vendor's price at commit time.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	VendorID      uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null" json:"vendor_id"`
	ProductName   string          `gorm:"column:product_name;not null" json:"product_name"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	BaseUnitPrice decimal.Decimal `gorm:"column:base_unit_price;type:numeric(12,2);not null" json:"base_unit_price"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null" json:"total_price"`
}
