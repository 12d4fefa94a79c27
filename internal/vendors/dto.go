package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/villageessence/marketplace-backend/pkg/db/models"
)

// ProfileDTO is the vendor's own view of their profile.
type ProfileDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phone_number"`
	Age               *int      `json:"age,omitempty"`
	Gender            *string   `json:"gender,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PublicDTO is the storefront-facing vendor summary. Contact details stay
// private.
type PublicDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
}

// NewProfileDTO maps a vendor row to the profile response.
func NewProfileDTO(vendor models.Vendor) *ProfileDTO {
	return &ProfileDTO{
		ID:                vendor.ID,
		Name:              vendor.Name,
		Email:             vendor.Email,
		PhoneNumber:       vendor.PhoneNumber,
		Age:               vendor.Age,
		Gender:            vendor.Gender,
		ProfilePictureURL: vendor.ProfilePictureURL,
		IsActive:          vendor.IsActive,
		CreatedAt:         vendor.CreatedAt,
		UpdatedAt:         vendor.UpdatedAt,
	}
}

// NewPublicDTO maps a vendor row to the public summary.
func NewPublicDTO(vendor models.Vendor) PublicDTO {
	return PublicDTO{
		ID:                vendor.ID,
		Name:              vendor.Name,
		ProfilePictureURL: vendor.ProfilePictureURL,
	}
}
