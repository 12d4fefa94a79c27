package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
)

type stubRepo struct {
	categories map[uuid.UUID]*models.Category
	products   map[uuid.UUID]*models.Product
	created    []*models.Product
	deleted    []uuid.UUID
	replaced   map[uuid.UUID][]models.ProductImage
	listRows   []models.Product
	listTotal  int64
	lastFilter StorefrontFilters
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		categories: map[uuid.UUID]*models.Category{},
		products:   map[uuid.UUID]*models.Product{},
		replaced:   map[uuid.UUID][]models.ProductImage{},
	}
}

func (s *stubRepo) WithTx(_ *gorm.DB) CatalogRepository { return s }

func (s *stubRepo) ListCategories(context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	s.created = append(s.created, product)
	return product, nil
}

func (s *stubRepo) UpdateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRepo) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) (bool, error) {
	p, ok := s.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (s *stubRepo) ListStorefront(_ context.Context, filters StorefrontFilters, _ pagination.Params) ([]models.Product, int64, error) {
	s.lastFilter = filters
	return s.listRows, s.listTotal, nil
}

func (s *stubRepo) ListByVendor(_ context.Context, vendorID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.VendorID == vendorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubRepo) ReplaceProductImages(_ context.Context, productID uuid.UUID, images []models.ProductImage) error {
	s.replaced[productID] = images
	return nil
}

func (s *stubRepo) FetchVendorSummary(_ context.Context, vendorID uuid.UUID) (*VendorSummary, error) {
	return &VendorSummary{VendorID: vendorID, Name: "Vendor"}, nil
}

type stubTx struct{ calls int }

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func seedProduct(repo *stubRepo, vendorID uuid.UUID, markup string, stock int) *models.Product {
	category := &models.Category{
		ID:               uuid.New(),
		Name:             "Bath",
		MarkupPercentage: decimal.RequireFromString(markup),
	}
	repo.categories[category.ID] = category

	product := &models.Product{
		ID:         uuid.New(),
		VendorID:   vendorID,
		CategoryID: category.ID,
		Name:       "Lavender Soap",
		BasePrice:  decimal.RequireFromString("8.00"),
		Quantity:   stock,
		IsActive:   true,
		Category:   category,
	}
	repo.products[product.ID] = product
	return product
}

func TestSnapshotComputesFrontendPrice(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo, uuid.New(), "50", 7)

	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	snap, err := svc.Snapshot(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, product.ID, snap.ProductID)
	assert.True(t, snap.FrontendPrice.Equal(decimal.RequireFromString("12.00")))
	assert.Equal(t, 7, snap.Stock)
}

func TestSnapshotInactiveProductIsNotFound(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo, uuid.New(), "0", 5)
	product.IsActive = false

	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	_, err = svc.Snapshot(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateProductValidation(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	ctx := context.Background()
	vendorID := uuid.New()

	cases := []struct {
		name  string
		input ProductInput
	}{
		{"missing name", ProductInput{CategoryID: uuid.New(), BasePrice: decimal.NewFromInt(1)}},
		{"missing category", ProductInput{Name: "Soap", BasePrice: decimal.NewFromInt(1)}},
		{"negative price", ProductInput{Name: "Soap", CategoryID: uuid.New(), BasePrice: decimal.NewFromInt(-1)}},
		{"negative quantity", ProductInput{Name: "Soap", CategoryID: uuid.New(), BasePrice: decimal.NewFromInt(1), Quantity: -2}},
		{"unknown category", ProductInput{Name: "Soap", CategoryID: uuid.New(), BasePrice: decimal.NewFromInt(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, vendorID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed, "expected coded error")
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestCreateProductPersistsWithinTransaction(t *testing.T) {
	repo := newStubRepo()
	category := &models.Category{ID: uuid.New(), Name: "Bath", MarkupPercentage: decimal.Zero}
	repo.categories[category.ID] = category
	tx := &stubTx{}

	svc, err := NewService(repo, tx)
	require.NoError(t, err)

	vendorID := uuid.New()
	dto, err := svc.CreateProduct(context.Background(), vendorID, ProductInput{
		Name:       "  Oat Soap  ",
		CategoryID: category.ID,
		BasePrice:  decimal.RequireFromString("4.50"),
		Quantity:   10,
		Images: []ProductImageInput{
			{ImageURL: "https://cdn.example.com/1.png", StorageKey: "product-images/x/1", IsPrimary: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Oat Soap", repo.created[0].Name)
	assert.Equal(t, vendorID, dto.VendorID)
	require.NotNil(t, dto.BasePrice)
}

func TestUpdateProductEnforcesOwnership(t *testing.T) {
	repo := newStubRepo()
	product := seedProduct(repo, uuid.New(), "0", 5)

	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), uuid.New(), product.ID, ProductInput{
		Name:       "Renamed",
		CategoryID: product.CategoryID,
		BasePrice:  decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestUpdateProductReplacesImages(t *testing.T) {
	repo := newStubRepo()
	vendorID := uuid.New()
	product := seedProduct(repo, vendorID, "0", 5)

	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), vendorID, product.ID, ProductInput{
		Name:       "Renamed",
		CategoryID: product.CategoryID,
		BasePrice:  decimal.NewFromInt(5),
		Quantity:   3,
		Images: []ProductImageInput{
			{ImageURL: "https://cdn.example.com/2.png", StorageKey: "product-images/x/2"},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.replaced[product.ID], 1)
	assert.Equal(t, "Renamed", repo.products[product.ID].Name)
}

func TestListStorefrontForcesActiveOnly(t *testing.T) {
	repo := newStubRepo()
	repo.listTotal = 3

	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	page, err := svc.ListStorefront(context.Background(), StorefrontFilters{ActiveOnly: false}, pagination.Params{})
	require.NoError(t, err)

	assert.True(t, repo.lastFilter.ActiveOnly)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, pagination.DefaultLimit, page.Limit)
}

func TestDeleteProductUnknownIDIsNotFound(t *testing.T) {
	repo := newStubRepo()
	svc, err := NewService(repo, &stubTx{})
	require.NoError(t, err)

	err = svc.AdminDeleteProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
