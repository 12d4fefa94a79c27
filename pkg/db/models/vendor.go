package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is the seller profile keyed by the owning user's id.
type Vendor struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"column:name;not null" json:"name"`
	Email             string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PhoneNumber       string    `gorm:"column:phone_number;not null" json:"phone_number"`
	Age               *int      `gorm:"column:age" json:"age,omitempty"`
	Gender            *string   `gorm:"column:gender" json:"gender,omitempty"`
	ProfilePictureURL *string   `gorm:"column:profile_picture_url" json:"profile_picture_url,omitempty"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
