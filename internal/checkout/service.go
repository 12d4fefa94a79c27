package checkout

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/internal/cart"
	"github.com/villageessence/marketplace-backend/internal/catalog"
	"github.com/villageessence/marketplace-backend/internal/orders"
	"github.com/villageessence/marketplace-backend/pkg/db/models"
	"github.com/villageessence/marketplace-backend/pkg/enums"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

const orderNumberAttempts = 5

// CheckoutInput is the shipping contact submitted with the cart.
type CheckoutInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=5,max=30"`
	Address     string  `json:"address" validate:"required,min=5"`
	Notes       *string `json:"notes,omitempty"`
}

// Receipt is returned to the shopper after an order commits.
type Receipt struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	PlacedAt    time.Time       `json:"placed_at"`
}

// Service turns a session cart into a committed order.
type Service interface {
	Submit(ctx context.Context, store *cart.Store, input CheckoutInput) (*Receipt, error)
}

type service struct {
	tx          txRunner
	catalogRepo catalog.CatalogRepository
	ordersRepo  orders.Repository
	metrics     *metrics.CheckoutMetrics
	now         func() time.Time
}

// NewService builds the checkout service. Metrics may be nil.
func NewService(tx txRunner, catalogRepo catalog.CatalogRepository, ordersRepo orders.Repository, checkoutMetrics *metrics.CheckoutMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:          tx,
		catalogRepo: catalogRepo,
		ordersRepo:  ordersRepo,
		metrics:     checkoutMetrics,
		now:         time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, store *cart.Store, input CheckoutInput) (*Receipt, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	lines := store.Lines(ctx)
	total := decimal.Zero
	orderable := 0
	for _, line := range lines {
		if line.Quantity > 0 {
			orderable++
		}
		total = total.Add(line.LineTotal())
	}
	// Quantity-0 lines are zero-stock placeholders; a cart holding only
	// those has nothing to order.
	if orderable == 0 {
		s.metrics.IncRejected("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		items, conflictNames, err := s.buildItems(ctx, catalogRepo, lines)
		if err != nil {
			return err
		}
		if len(conflictNames) > 0 {
			sort.Strings(conflictNames)
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
				WithDetails(map[string]any{"products": conflictNames})
		}

		customer := &models.Customer{
			ID:          uuid.New(),
			Name:        input.Name,
			Email:       input.Email,
			PhoneNumber: input.PhoneNumber,
			Address:     input.Address,
		}
		if err := ordersRepo.CreateCustomer(ctx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating customer")
		}

		number, err := s.reserveOrderNumber(ctx, ordersRepo)
		if err != nil {
			return err
		}

		order = &models.Order{
			ID:          uuid.New(),
			OrderNumber: number,
			CustomerID:  customer.ID,
			TotalAmount: total,
			Status:      enums.OrderStatusPending,
			Notes:       input.Notes,
		}
		if err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order items")
		}
		return nil
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeConflict {
			s.metrics.IncRejected("insufficient_stock")
		}
		return nil, err
	}

	// The cart is only a cache; clear it once the order is durable.
	store.Clear(ctx)
	placedTotal, _ := total.Float64()
	s.metrics.IncPlaced(placedTotal)

	return &Receipt{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: total,
		Status:      string(order.Status),
		PlacedAt:    s.now(),
	}, nil
}

// buildItems re-checks live stock for every cart line and decrements it.
// Lines that no longer have enough stock are reported by product name.
func (s *service) buildItems(ctx context.Context, catalogRepo catalog.CatalogRepository, lines []cart.LineItem) ([]models.OrderItem, []string, error) {
	items := make([]models.OrderItem, 0, len(lines))
	var conflicts []string

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}

		product, err := catalogRepo.FindProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				conflicts = append(conflicts, line.Name)
				continue
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
		}
		if !product.IsActive {
			conflicts = append(conflicts, product.Name)
			continue
		}

		ok, err := catalogRepo.DecrementStock(ctx, product.ID, line.Quantity)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserving stock")
		}
		if !ok {
			conflicts = append(conflicts, product.Name)
			continue
		}

		items = append(items, models.OrderItem{
			ID:            uuid.New(),
			ProductID:     product.ID,
			VendorID:      product.VendorID,
			ProductName:   product.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.FrontendPrice,
			BaseUnitPrice: product.BasePrice,
			TotalPrice:    line.LineTotal(),
		})
	}
	return items, conflicts, nil
}

func (s *service) reserveOrderNumber(ctx context.Context, ordersRepo orders.Repository) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number := generateOrderNumber(s.now())
		exists, err := ordersRepo.OrderNumberExists(ctx, number)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking order number")
		}
		if !exists {
			return number, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate order number")
}

// generateOrderNumber produces VE-YYYYMMDD-NNNNNN with a random suffix.
func generateOrderNumber(now time.Time) string {
	var buf [4]byte
	_, _ = rand.Read(buf[:])
	suffix := binary.BigEndian.Uint32(buf[:]) % 1_000_000
	return fmt.Sprintf("VE-%s-%06d", now.UTC().Format("20060102"), suffix)
}

func validateInput(input *CheckoutInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Address = strings.TrimSpace(input.Address)

	var missing []string
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.PhoneNumber == "" {
		missing = append(missing, "phone_number")
	}
	if input.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
	}
	if input.Email != nil {
		trimmed := strings.TrimSpace(*input.Email)
		if trimmed == "" {
			input.Email = nil
		} else {
			input.Email = &trimmed
		}
	}
	return nil
}
