package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/villageessence/marketplace-backend/pkg/db/models"
)

var oneHundred = decimal.NewFromInt(100)

// FrontendPrice applies the category markup to the vendor's base price,
// rounded to 2 decimal places.
func FrontendPrice(basePrice, markupPercentage decimal.Decimal) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Add(markupPercentage.Div(oneHundred))
	return basePrice.Mul(multiplier).Round(2)
}

// CategoryDTO is the public category payload.
type CategoryDTO struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	MarkupPercentage decimal.Decimal `json:"markup_percentage"`
	Description      *string         `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewCategoryDTO converts the persisted model.
func NewCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:               category.ID,
		Name:             category.Name,
		MarkupPercentage: category.MarkupPercentage,
		Description:      category.Description,
		CreatedAt:        category.CreatedAt,
	}
}

// ProductImageDTO captures one stored image.
type ProductImageDTO struct {
	ID           uuid.UUID `json:"id"`
	ImageURL     string    `json:"image_url"`
	AltText      *string   `json:"alt_text,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsPrimary    bool      `json:"is_primary"`
}

// VendorSummaryDTO surfaces limited vendor data for product responses.
type VendorSummaryDTO struct {
	VendorID          uuid.UUID `json:"vendor_id"`
	Name              string    `json:"name"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
}

// ProductDTO is the storefront product payload. FrontendPrice is the sell
// price with the category markup applied; BasePrice is only exposed on
// vendor-facing responses.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	VendorID      uuid.UUID         `json:"vendor_id"`
	CategoryID    uuid.UUID         `json:"category_id"`
	CategoryName  string            `json:"category_name,omitempty"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	BasePrice     *decimal.Decimal  `json:"base_price,omitempty"`
	FrontendPrice decimal.Decimal   `json:"frontend_price"`
	Quantity      int               `json:"quantity"`
	IsActive      bool              `json:"is_active"`
	Tags          []string          `json:"tags,omitempty"`
	Images        []ProductImageDTO `json:"images,omitempty"`
	Vendor        *VendorSummaryDTO `json:"vendor,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewProductDTO builds the storefront payload from the persisted model.
// The category must be preloaded to derive the frontend price.
func NewProductDTO(product *models.Product, summary *VendorSummary, includeBasePrice bool) *ProductDTO {
	dto := &ProductDTO{
		ID:            product.ID,
		VendorID:      product.VendorID,
		CategoryID:    product.CategoryID,
		Name:          product.Name,
		Description:   product.Description,
		FrontendPrice: product.BasePrice.Round(2),
		Quantity:      product.Quantity,
		IsActive:      product.IsActive,
		Tags:          append([]string{}, product.Tags...),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
	if product.Category != nil {
		dto.CategoryName = product.Category.Name
		dto.FrontendPrice = FrontendPrice(product.BasePrice, product.Category.MarkupPercentage)
	}
	if includeBasePrice {
		base := product.BasePrice
		dto.BasePrice = &base
	}
	for _, image := range product.Images {
		dto.Images = append(dto.Images, ProductImageDTO{
			ID:           image.ID,
			ImageURL:     image.ImageURL,
			AltText:      image.AltText,
			DisplayOrder: image.DisplayOrder,
			IsPrimary:    image.IsPrimary,
		})
	}
	if summary != nil {
		dto.Vendor = &VendorSummaryDTO{
			VendorID:          summary.VendorID,
			Name:              summary.Name,
			ProfilePictureURL: summary.ProfilePictureURL,
		}
	}
	return dto
}
