package vendors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/villageessence/marketplace-backend/pkg/config"
	"github.com/villageessence/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/villageessence/marketplace-backend/pkg/errors"
	"github.com/villageessence/marketplace-backend/pkg/pagination"
	"github.com/villageessence/marketplace-backend/pkg/security"
)

type stubRepo struct {
	vendors map[uuid.UUID]*models.Vendor
	users   map[uuid.UUID]*models.User

	deletedUsers  []uuid.UUID
	passwordSet   string
	lastActiveArg bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		vendors: make(map[uuid.UUID]*models.Vendor),
		users:   make(map[uuid.UUID]*models.User),
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) VendorRepository { return s }

func (s *stubRepo) FindVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *vendor
	return &copied, nil
}

func (s *stubRepo) UpdateVendor(ctx context.Context, vendor *models.Vendor) error {
	s.vendors[vendor.ID] = vendor
	return nil
}

func (s *stubRepo) ListVendors(ctx context.Context, page pagination.Params, activeOnly bool) ([]models.Vendor, int64, error) {
	s.lastActiveArg = activeOnly
	rows := make([]models.Vendor, 0, len(s.vendors))
	for _, vendor := range s.vendors {
		if activeOnly && !vendor.IsActive {
			continue
		}
		rows = append(rows, *vendor)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubRepo) UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := s.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	s.passwordSet = passwordHash
	return nil
}

func (s *stubRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, ok := s.users[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, userID)
	delete(s.vendors, userID)
	s.deletedUsers = append(s.deletedUsers, userID)
	return nil
}

type stubTx struct {
	calls int
}

func (s *stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *stubRepo, *stubTx) {
	t.Helper()
	repo := newStubRepo()
	tx := &stubTx{}
	svc, err := NewService(repo, tx, testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, tx
}

func seedVendor(t *testing.T, repo *stubRepo, password string, active bool) uuid.UUID {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	id := uuid.New()
	repo.users[id] = &models.User{ID: id, Email: id.String() + "@example.com", PasswordHash: hash}
	repo.vendors[id] = &models.Vendor{
		ID:          id,
		Name:        "Original Name",
		Email:       id.String() + "@example.com",
		PhoneNumber: "555-0100",
		IsActive:    active,
	}
	return id
}

func TestUpdateProfileValidatesAge(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedVendor(t, repo, "hunter2hunter2", true)

	young := 17
	_, err := svc.UpdateProfile(context.Background(), id, ProfileInput{
		Name:        "New Name",
		PhoneNumber: "555-0101",
		Age:         &young,
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	ok := 34
	profile, err := svc.UpdateProfile(context.Background(), id, ProfileInput{
		Name:        "  New Name  ",
		PhoneNumber: "555-0101",
		Age:         &ok,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if profile.Name != "New Name" {
		t.Fatalf("expected trimmed name, got %q", profile.Name)
	}
	if repo.vendors[id].Age == nil || *repo.vendors[id].Age != 34 {
		t.Fatal("expected age to be persisted")
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedVendor(t, repo, "correct-horse-battery", true)

	err := svc.ChangePassword(context.Background(), id, ChangePasswordInput{
		CurrentPassword: "wrong-password",
		NewPassword:     "a-new-password",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	err = svc.ChangePassword(context.Background(), id, ChangePasswordInput{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "a-new-password",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	verified, err := security.VerifyPassword("a-new-password", repo.passwordSet)
	if err != nil || !verified {
		t.Fatalf("new password not stored correctly: %v", err)
	}
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedVendor(t, repo, "correct-horse-battery", true)

	err := svc.ChangePassword(context.Background(), id, ChangePasswordInput{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "short",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteAccountRunsInTransaction(t *testing.T) {
	svc, repo, tx := newTestService(t)
	id := seedVendor(t, repo, "hunter2hunter2", true)

	if err := svc.DeleteAccount(context.Background(), id); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}
	if len(repo.deletedUsers) != 1 || repo.deletedUsers[0] != id {
		t.Fatal("expected user row to be deleted")
	}

	err := svc.DeleteAccount(context.Background(), id)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPublicListOnlyShowsActiveVendors(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedVendor(t, repo, "hunter2hunter2", true)
	seedVendor(t, repo, "hunter2hunter2", false)

	page, err := svc.PublicList(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("public list: %v", err)
	}
	if !repo.lastActiveArg {
		t.Fatal("expected active-only listing")
	}
	if page.Total != 1 {
		t.Fatalf("expected one active vendor, got %d", page.Total)
	}

	items, ok := page.Items.([]PublicDTO)
	if !ok {
		t.Fatalf("unexpected items type %T", page.Items)
	}
	if items[0].Name != "Original Name" {
		t.Fatalf("unexpected vendor name %q", items[0].Name)
	}
}

func TestPublicGetHidesInactiveVendor(t *testing.T) {
	svc, repo, _ := newTestService(t)
	id := seedVendor(t, repo, "hunter2hunter2", false)

	_, err := svc.PublicGet(context.Background(), id)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminListIncludesInactiveVendors(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedVendor(t, repo, "hunter2hunter2", true)
	seedVendor(t, repo, "hunter2hunter2", false)

	page, err := svc.AdminList(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected both vendors, got %d", page.Total)
	}
}
