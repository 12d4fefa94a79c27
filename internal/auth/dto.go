package auth

import (
	"github.com/google/uuid"

	"github.com/villageessence/marketplace-backend/pkg/db/models"
	"github.com/villageessence/marketplace-backend/pkg/enums"
)

// RegisterRequest is the vendor onboarding payload.
type RegisterRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=5,max=30"`
	Age         *int    `json:"age,omitempty" validate:"omitempty,gte=18,lte=120"`
	Gender      *string `json:"gender,omitempty"`
}

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the tokens needed to rotate a session.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserSummary is the authenticated identity echoed in auth responses.
type UserSummary struct {
	ID    uuid.UUID  `json:"id"`
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
}

// LoginResponse is the token pair plus identity returned on login/refresh.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

func newUserSummary(user *models.User) UserSummary {
	return UserSummary{ID: user.ID, Email: user.Email, Role: user.Role}
}
