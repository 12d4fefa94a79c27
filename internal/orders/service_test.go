package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/pkg/db/models"
	"github.com/villageessence/marketplace-backend/pkg/enums"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
)

type stubRepo struct {
	orders map[uuid.UUID]*models.Order

	updatedStatus *enums.OrderStatus
	deleted       []uuid.UUID
	lastFilters   OrderFilters
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error { return nil }
func (s *stubRepo) CreateOrder(ctx context.Context, order *models.Order) error          { return nil }
func (s *stubRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (s *stubRepo) ListOrders(ctx context.Context, filters OrderFilters, page pagination.Params) ([]models.Order, int64, error) {
	s.lastFilters = filters
	rows := make([]models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		rows = append(rows, *order)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubRepo) FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	s.updatedStatus = &status
	return nil
}

func (s *stubRepo) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if _, ok := s.orders[orderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.orders, orderID)
	s.deleted = append(s.deleted, orderID)
	return nil
}

func (s *stubRepo) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	for _, order := range s.orders {
		if order.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

func seedOrder(repo *stubRepo, status enums.OrderStatus) uuid.UUID {
	id := uuid.New()
	repo.orders[id] = &models.Order{
		ID:          id,
		OrderNumber: "VE-20250810-" + id.String()[:6],
		Status:      status,
	}
	return id
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	cases := []struct {
		name     string
		from     enums.OrderStatus
		to       enums.OrderStatus
		wantCode pkgerrors.Code
	}{
		{name: "pending to confirmed", from: enums.OrderStatusPending, to: enums.OrderStatusConfirmed},
		{name: "processing to shipped", from: enums.OrderStatusProcessing, to: enums.OrderStatusShipped},
		{name: "pending can cancel", from: enums.OrderStatusPending, to: enums.OrderStatusCancelled},
		{name: "shipped cannot cancel", from: enums.OrderStatusShipped, to: enums.OrderStatusCancelled, wantCode: pkgerrors.CodeConflict},
		{name: "no skipping ahead", from: enums.OrderStatusPending, to: enums.OrderStatusShipped, wantCode: pkgerrors.CodeConflict},
		{name: "delivered is terminal", from: enums.OrderStatusDelivered, to: enums.OrderStatusPending, wantCode: pkgerrors.CodeConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubRepo()
			svc, err := NewService(repo)
			if err != nil {
				t.Fatalf("new service: %v", err)
			}
			id := seedOrder(repo, tc.from)

			dto, err := svc.UpdateStatus(context.Background(), id, tc.to)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected transition to succeed, got %v", err)
				}
				if repo.orders[id].Status != tc.to {
					t.Fatalf("status not persisted, got %s", repo.orders[id].Status)
				}
				if dto == nil || dto.Status != tc.to {
					t.Fatalf("expected updated order in response, got %+v", dto)
				}
				return
			}
			if err == nil {
				t.Fatal("expected transition to be rejected")
			}
			if coded := pkgerrors.As(err); coded == nil || coded.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	id := seedOrder(repo, enums.OrderStatusConfirmed)

	if _, err := svc.UpdateStatus(context.Background(), id, enums.OrderStatusConfirmed); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if repo.updatedStatus != nil {
		t.Fatal("expected no repository write for unchanged status")
	}
}

func TestUpdateStatusValidatesInput(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	id := seedOrder(repo, enums.OrderStatusPending)

	_, err := svc.UpdateStatus(context.Background(), id, enums.OrderStatus("parked"))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownOrderIsNotFound(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)

	_, err := svc.Get(context.Background(), uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	id := seedOrder(repo, enums.OrderStatusCancelled)

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Fatal("expected order to be deleted")
	}
	if err := svc.Delete(context.Background(), id); pkgerrors.As(err) == nil {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListPassesStatusFilter(t *testing.T) {
	repo := newStubRepo()
	svc, _ := NewService(repo)
	seedOrder(repo, enums.OrderStatusPending)
	seedOrder(repo, enums.OrderStatusShipped)

	status := enums.OrderStatusShipped
	page, err := svc.List(context.Background(), OrderFilters{Status: &status}, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one shipped order, got %d", page.Total)
	}
	if repo.lastFilters.Status == nil || *repo.lastFilters.Status != status {
		t.Fatal("expected status filter to reach the repository")
	}
	if page.Limit != pagination.DefaultLimit {
		t.Fatalf("expected normalized limit, got %d", page.Limit)
	}
}
