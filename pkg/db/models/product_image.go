package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores one object-storage URL attached to a product.
type ProductImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	ImageURL     string    `gorm:"column:image_url;not null" json:"image_url"`
	StorageKey   string    `gorm:"column:storage_key;not null" json:"-"`
	AltText      *string   `gorm:"column:alt_text" json:"alt_text,omitempty"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0" json:"display_order"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
