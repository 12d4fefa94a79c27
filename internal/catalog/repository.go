package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/internal/repo"
	"github.com/villageessence/marketplace-backend/pkg/db/models"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
)

// CatalogRepository defines the persistence surface required by the catalog service.
type CatalogRepository interface {
	WithTx(tx *gorm.DB) CatalogRepository
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	ListStorefront(ctx context.Context, filters StorefrontFilters, page pagination.Params) ([]models.Product, int64, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error)
	ReplaceProductImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error
	FetchVendorSummary(ctx context.Context, vendorID uuid.UUID) (*VendorSummary, error)
}

// StorefrontFilters describe the supported filter knobs for the browse endpoint.
type StorefrontFilters struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Query      string     `json:"q,omitempty"`
	ActiveOnly bool       `json:"active_only"`
	VendorID   *uuid.UUID `json:"vendor_id,omitempty"`
}

// VendorSummary exposes the minimal vendor data used by product read paths.
type VendorSummary struct {
	VendorID          uuid.UUID
	Name              string
	ProfilePictureURL *string
}

// Repository wires together catalog persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CatalogRepository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Rebind(tx)}
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.DB(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindCategoryByID loads one category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateProduct inserts a new product row with its images.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Omit("Images", "Category").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID. Images cascade at the DB level.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindProductByID fetches a product with category and ordered images.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock atomically reduces the stock when enough is available.
// Returns false when the product is missing or stock is insufficient.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	result := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListStorefront returns a page of products with category and images plus the total count.
func (r *Repository) ListStorefront(ctx context.Context, filters StorefrontFilters, page pagination.Params) ([]models.Product, int64, error) {
	query := r.DB(ctx).Model(&models.Product{})
	query = applyStorefrontFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).
		Error
	return rows, total, err
}

// ListByVendor lists the products owned by a vendor, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ReplaceProductImages replaces the image set for the product.
func (r *Repository) ReplaceProductImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ProductID = productID
	}
	return tx.Create(&images).Error
}

// FetchVendorSummary returns the public vendor fields shown on product pages.
func (r *Repository) FetchVendorSummary(ctx context.Context, vendorID uuid.UUID) (*VendorSummary, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Select("id", "name", "profile_picture_url").First(&vendor, "id = ?", vendorID).Error; err != nil {
		return nil, err
	}
	return &VendorSummary{
		VendorID:          vendor.ID,
		Name:              vendor.Name,
		ProfilePictureURL: vendor.ProfilePictureURL,
	}, nil
}

func applyStorefrontFilters(query *gorm.DB, filters StorefrontFilters) *gorm.DB {
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.VendorID != nil {
		query = query.Where("vendor_id = ?", *filters.VendorID)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", like, like)
	}
	return query
}
