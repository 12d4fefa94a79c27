package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer captures the shipping contact submitted at checkout. Guests are
// not authenticated, so a row is created per order submission.
type Customer struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Email       *string   `gorm:"column:email" json:"email,omitempty"`
	PhoneNumber string    `gorm:"column:phone_number;not null" json:"phone_number"`
	Address     string    `gorm:"column:address;not null" json:"address"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
