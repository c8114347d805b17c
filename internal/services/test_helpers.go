package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/repositories"
	pkgauth "github.com/BradenHooton/roster/pkg/auth"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	ListFunc           func(ctx context.Context, search repositories.Search) ([]*models.User, error)
	CreateFunc         func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc         func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, search repositories.Search) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, search)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, user)
	}
	return user, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCustomerRepository implements CustomerRepository for testing
type MockCustomerRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.Customer, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.Customer, error)
	ListFunc           func(ctx context.Context, search repositories.Search) ([]*models.Customer, error)
	CreateFunc         func(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	UpdateFunc         func(ctx context.Context, id string, customer *models.Customer) (*models.Customer, error)
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	DeleteFunc         func(ctx context.Context, id string) error
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockCustomerRepository) List(ctx context.Context, search repositories.Search) ([]*models.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, search)
	}
	return []*models.Customer{}, nil
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCustomerRepository) Update(ctx context.Context, id string, customer *models.Customer) (*models.Customer, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, customer)
	}
	return customer, nil
}

func (m *MockCustomerRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// testHasher is bcrypt at the minimum cost so tests stay fast
var testHasher = pkgauth.BcryptHasher{Cost: 4}

func mustHash(password string) string {
	hash, err := testHasher.Hash(password)
	if err != nil {
		panic(err)
	}
	return hash
}

func newTestAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(slog.Default())
}

// NewTestUser creates a user with the given fields
func NewTestUser(id, email, name string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestUserWithPassword creates a user whose password hashes to password
func NewTestUserWithPassword(id, email, name, password string) *models.User {
	user := NewTestUser(id, email, name)
	user.PasswordHash = mustHash(password)
	return user
}

// NewTestCustomer creates a customer with the given fields
func NewTestCustomer(id, email, city string, total float64) *models.Customer {
	now := time.Now()
	return &models.Customer{
		ID:            id,
		Name:          "Customer " + id,
		Email:         email,
		PhoneNumber:   "0812345678",
		TotalPurchase: total,
		City:          city,
		PaymentStatus: models.PaymentStatusNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
