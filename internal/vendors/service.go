package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/pkg/config"
	"github.com/villageessence/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
	"github.com/villageessence/marketplace-backend/pkg/security"
	"github.com/villageessence/marketplace-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

const (
	minPasswordLength = 8
	minVendorAge      = 18
	maxVendorAge      = 120
)

// ProfileInput carries the updatable vendor profile fields.
type ProfileInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=5,max=30"`
	Age         *int    `json:"age,omitempty" validate:"omitempty,gte=18,lte=120"`
	Gender      *string `json:"gender,omitempty"`
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Service exposes vendor profile operations plus the public vendor listing.
type Service interface {
	GetProfile(ctx context.Context, vendorID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, input ProfileInput) (*ProfileDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	SetProfilePicture(ctx context.Context, vendorID uuid.UUID, url *string) error

	PublicList(ctx context.Context, page pagination.Params) (*types.Page, error)
	PublicGet(ctx context.Context, vendorID uuid.UUID) (*PublicDTO, error)

	AdminList(ctx context.Context, page pagination.Params) (*types.Page, error)
	AdminDeleteVendor(ctx context.Context, vendorID uuid.UUID) error
}

type service struct {
	repo        VendorRepository
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewService builds the vendors service.
func NewService(repo VendorRepository, tx txRunner, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, passwordCfg: passwordCfg}, nil
}

func (s *service) GetProfile(ctx context.Context, vendorID uuid.UUID) (*ProfileDTO, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return NewProfileDTO(*vendor), nil
}

func (s *service) UpdateProfile(ctx context.Context, vendorID uuid.UUID, input ProfileInput) (*ProfileDTO, error) {
	if err := validateProfileInput(&input); err != nil {
		return nil, err
	}

	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	vendor.Name = input.Name
	vendor.PhoneNumber = input.PhoneNumber
	vendor.Age = input.Age
	vendor.Gender = input.Gender

	if err := s.repo.UpdateVendor(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating vendor")
	}
	return NewProfileDTO(*vendor), nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("new password must be at least %d characters", minPasswordLength))
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account")
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing password")
	}
	return nil
}

func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting account")
	}
	return nil
}

func (s *service) SetProfilePicture(ctx context.Context, vendorID uuid.UUID, url *string) error {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return err
	}
	vendor.ProfilePictureURL = url
	if err := s.repo.UpdateVendor(ctx, vendor); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating vendor")
	}
	return nil
}

func (s *service) PublicList(ctx context.Context, page pagination.Params) (*types.Page, error) {
	page = page.Normalize()
	rows, total, err := s.repo.ListVendors(ctx, page, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendors")
	}
	items := make([]PublicDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewPublicDTO(row))
	}
	return &types.Page{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *service) PublicGet(ctx context.Context, vendorID uuid.UUID) (*PublicDTO, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	dto := NewPublicDTO(*vendor)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, page pagination.Params) (*types.Page, error) {
	page = page.Normalize()
	rows, total, err := s.repo.ListVendors(ctx, page, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendors")
	}
	items := make([]*ProfileDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewProfileDTO(row))
	}
	return &types.Page{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *service) AdminDeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	return s.DeleteAccount(ctx, vendorID)
}

func (s *service) loadVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	vendor, err := s.repo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading vendor")
	}
	return vendor, nil
}

func validateProfileInput(input *ProfileInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PhoneNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number is required")
	}
	if input.Age != nil && (*input.Age < minVendorAge || *input.Age > maxVendorAge) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("age must be between %d and %d", minVendorAge, maxVendorAge))
	}
	if input.Gender != nil {
		trimmed := strings.TrimSpace(*input.Gender)
		if trimmed == "" {
			input.Gender = nil
		} else {
			input.Gender = &trimmed
		}
	}
	return nil
}
