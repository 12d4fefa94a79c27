package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a vendor listing. BasePrice is the vendor's price; the
// storefront sell price is derived by applying the category markup on read.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID    uuid.UUID       `gorm:"column:vendor_id;type:uuid;not null" json:"vendor_id"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null" json:"base_price"`
	Quantity    int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Tags        pq.StringArray  `gorm:"column:tags;type:text[]" json:"tags,omitempty"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
