package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups products and carries the storefront markup applied on top
// of the vendor's base price.
type Category struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string          `gorm:"column:name;not null;uniqueIndex" json:"name"`
	MarkupPercentage decimal.Decimal `gorm:"column:markup_percentage;type:numeric(5,2);not null;default:0" json:"markup_percentage"`
	Description      *string         `gorm:"column:description" json:"description,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
