package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/internal/cart"
	"github.com/villageessence/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
	"github.com/villageessence/marketplace-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog reads for the storefront and product CRUD for
// vendors and admins.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListStorefront(ctx context.Context, filters StorefrontFilters, page pagination.Params) (*types.Page, error)
	GetProductDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	Snapshot(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error)

	CreateProduct(ctx context.Context, vendorID uuid.UUID, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error
	ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]*ProductDTO, error)

	AdminListProducts(ctx context.Context, page pagination.Params) (*types.Page, error)
	AdminDeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo CatalogRepository
	tx   txRunner
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo CatalogRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// ProductImageInput is one image reference attached to a product payload.
type ProductImageInput struct {
	ImageURL     string  `json:"image_url" validate:"required,url"`
	StorageKey   string  `json:"storage_key" validate:"required"`
	AltText      *string `json:"alt_text,omitempty"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
	IsPrimary    bool    `json:"is_primary"`
}

// ProductInput captures the vendor-provided product payload.
type ProductInput struct {
	Name        string              `json:"name" validate:"required,min=2,max=200"`
	Description *string             `json:"description,omitempty"`
	CategoryID  uuid.UUID           `json:"category_id" validate:"required"`
	BasePrice   decimal.Decimal     `json:"base_price"`
	Quantity    int                 `json:"quantity" validate:"gte=0"`
	IsActive    *bool               `json:"is_active,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Images      []ProductImageInput `json:"images,omitempty"`
}

// ListCategories returns all categories for the storefront navigation.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCategoryDTO(row))
	}
	return out, nil
}

// ListStorefront returns a page of active products with frontend prices.
func (s *service) ListStorefront(ctx context.Context, filters StorefrontFilters, page pagination.Params) (*types.Page, error) {
	filters.ActiveOnly = true
	page = page.Normalize()

	rows, total, err := s.repo.ListStorefront(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list storefront products")
	}

	items := make([]*ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, NewProductDTO(&rows[i], nil, false))
	}
	return &types.Page{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// GetProductDetail returns one active product with images and vendor summary.
func (s *service) GetProductDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	summary, err := s.repo.FetchVendorSummary(ctx, product.VendorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor summary")
	}
	return NewProductDTO(product, summary, false), nil
}

// Snapshot captures the storefront view of a product for cart mutations.
func (s *service) Snapshot(ctx context.Context, productID uuid.UUID) (cart.ProductSnapshot, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return cart.ProductSnapshot{}, err
	}
	if !product.IsActive {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	price := product.BasePrice.Round(2)
	if product.Category != nil {
		price = FrontendPrice(product.BasePrice, product.Category.MarkupPercentage)
	}
	return cart.ProductSnapshot{
		ProductID:     product.ID,
		Name:          product.Name,
		FrontendPrice: price,
		Stock:         product.Quantity,
	}, nil
}

// CreateProduct validates and persists a new vendor listing atomically.
func (s *service) CreateProduct(ctx context.Context, vendorID uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	product := &models.Product{
		VendorID:    vendorID,
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		BasePrice:   input.BasePrice,
		Quantity:    input.Quantity,
		IsActive:    true,
		Tags:        input.Tags,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	for _, image := range input.Images {
		product.Images = append(product.Images, buildImage(image))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateProduct(ctx, product)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product")
	}

	return s.reloadAsVendor(ctx, product.ID)
}

// UpdateProduct applies the payload to an owned product, replacing images.
func (s *service) UpdateProduct(ctx context.Context, vendorID, productID uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.loadOwnedProduct(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}

	if product.CategoryID != input.CategoryID {
		if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.BasePrice = input.BasePrice
	product.Quantity = input.Quantity
	product.Tags = input.Tags
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	images := make([]models.ProductImage, 0, len(input.Images))
	for _, image := range input.Images {
		images = append(images, buildImage(image))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return err
		}
		return txRepo.ReplaceProductImages(ctx, product.ID, images)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product update")
	}

	return s.reloadAsVendor(ctx, product.ID)
}

// DeleteProduct removes an owned product.
func (s *service) DeleteProduct(ctx context.Context, vendorID, productID uuid.UUID) error {
	if _, err := s.loadOwnedProduct(ctx, vendorID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ListVendorProducts returns the vendor's own listings with base prices.
func (s *service) ListVendorProducts(ctx context.Context, vendorID uuid.UUID) ([]*ProductDTO, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor products")
	}
	out := make([]*ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductDTO(&rows[i], nil, true))
	}
	return out, nil
}

// AdminListProducts pages through every product, active or not.
func (s *service) AdminListProducts(ctx context.Context, page pagination.Params) (*types.Page, error) {
	page = page.Normalize()
	rows, total, err := s.repo.ListStorefront(ctx, StorefrontFilters{}, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	items := make([]*ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, NewProductDTO(&rows[i], nil, true))
	}
	return &types.Page{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

// AdminDeleteProduct removes any product regardless of owner.
func (s *service) AdminDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) loadOwnedProduct(ctx context.Context, vendorID, productID uuid.UUID) (*models.Product, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func (s *service) reloadAsVendor(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product, nil, true), nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CategoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if input.BasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	primaries := 0
	for _, image := range input.Images {
		if strings.TrimSpace(image.ImageURL) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
		}
		if image.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "only one image can be primary")
	}
	return nil
}

func buildImage(input ProductImageInput) models.ProductImage {
	return models.ProductImage{
		ImageURL:     input.ImageURL,
		StorageKey:   input.StorageKey,
		AltText:      input.AltText,
		DisplayOrder: input.DisplayOrder,
		IsPrimary:    input.IsPrimary,
	}
}
