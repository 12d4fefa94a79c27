package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/internal/repo"
	"github.com/villageessence/marketplace-backend/pkg/db/models"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
)

// VendorRepository defines persistence operations for vendor profiles and
// their owning user rows.
type VendorRepository interface {
	WithTx(tx *gorm.DB) VendorRepository
	FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, vendor *models.Vendor) error
	ListVendors(ctx context.Context, page pagination.Params, activeOnly bool) ([]models.Vendor, int64, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Repository implements VendorRepository on gorm.
type Repository struct {
	repo.Base
}

// NewRepository builds a vendors repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) VendorRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Rebind(tx)}
}

func (r *Repository) FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.DB(ctx).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *Repository) UpdateVendor(ctx context.Context, vendor *models.Vendor) error {
	return r.DB(ctx).Save(vendor).Error
}

func (r *Repository) ListVendors(ctx context.Context, page pagination.Params, activeOnly bool) ([]models.Vendor, int64, error) {
	page = page.Normalize()

	query := r.DB(ctx).Model(&models.Vendor{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Vendor
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser removes the user row; the vendor profile and its products go
// with it through the schema's cascading foreign keys.
func (r *Repository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result := r.DB(ctx).Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
