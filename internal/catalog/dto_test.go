package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/villageessence/marketplace-backend/pkg/db/models"
)

func TestFrontendPrice(t *testing.T) {
	cases := []struct {
		name   string
		base   string
		markup string
		want   string
	}{
		{"zero markup", "100", "0", "100.00"},
		{"whole markup", "100", "25", "125.00"},
		{"fractional markup rounds", "19.99", "7.5", "21.49"},
		{"half cent rounds up", "10", "0.05", "10.01"},
		{"zero base", "0", "50", "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FrontendPrice(
				decimal.RequireFromString(tc.base),
				decimal.RequireFromString(tc.markup),
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"expected %s, got %s", tc.want, got)
		})
	}
}

func TestNewProductDTOAppliesCategoryMarkup(t *testing.T) {
	desc := "organic soap"
	product := &models.Product{
		ID:          uuid.New(),
		VendorID:    uuid.New(),
		CategoryID:  uuid.New(),
		Name:        "Lavender Soap",
		Description: &desc,
		BasePrice:   decimal.RequireFromString("8.00"),
		Quantity:    12,
		IsActive:    true,
		Category: &models.Category{
			Name:             "Bath",
			MarkupPercentage: decimal.RequireFromString("50"),
		},
		Images: []models.ProductImage{
			{ImageURL: "https://cdn.example.com/soap.png", IsPrimary: true},
		},
	}

	dto := NewProductDTO(product, &VendorSummary{VendorID: product.VendorID, Name: "Herbal Hands"}, false)

	assert.True(t, dto.FrontendPrice.Equal(decimal.RequireFromString("12.00")))
	assert.Nil(t, dto.BasePrice)
	assert.Equal(t, "Bath", dto.CategoryName)
	assert.Len(t, dto.Images, 1)
	assert.NotNil(t, dto.Vendor)
	assert.Equal(t, "Herbal Hands", dto.Vendor.Name)
}

func TestNewProductDTOVendorViewExposesBasePrice(t *testing.T) {
	product := &models.Product{
		ID:        uuid.New(),
		BasePrice: decimal.RequireFromString("8.00"),
	}

	dto := NewProductDTO(product, nil, true)

	assert.NotNil(t, dto.BasePrice)
	assert.True(t, dto.BasePrice.Equal(decimal.RequireFromString("8.00")))
	// without a preloaded category the frontend price falls back to base
	assert.True(t, dto.FrontendPrice.Equal(decimal.RequireFromString("8.00")))
}
