package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/repositories"
	pkgauth "github.com/BradenHooton/roster/pkg/auth"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

const subjectCustomer = "customer"

// CustomerRepository defines the storage operations CustomerService needs
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, search repositories.Search) ([]*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Update(ctx context.Context, id string, customer *models.Customer) (*models.Customer, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// CustomerInput carries the editable customer attributes
type CustomerInput struct {
	Name          string
	Email         string
	PhoneNumber   string
	TotalPurchase float64
	City          string
	PaymentStatus string
}

// CustomerResponse is the public shape of a customer
type CustomerResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PhoneNumber   string  `json:"phone_number"`
	TotalPurchase float64 `json:"total_purchase"`
	City          string  `json:"city"`
	PaymentStatus string  `json:"payment_status"`
}

// ToCustomerResponse converts a customer to its public shape
func ToCustomerResponse(c *models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		PhoneNumber:   c.PhoneNumber,
		TotalPurchase: c.TotalPurchase,
		City:          c.City,
		PaymentStatus: c.PaymentStatus,
	}
}

// CustomerListSchema lists the fields customers can be sorted and searched by
var CustomerListSchema = listing.Schema[*models.Customer]{
	"name":           listing.StringField(func(c *models.Customer) string { return c.Name }),
	"email":          listing.StringField(func(c *models.Customer) string { return c.Email }),
	"city":           listing.StringField(func(c *models.Customer) string { return c.City }),
	"phone_number":   listing.StringField(func(c *models.Customer) string { return c.PhoneNumber }),
	"payment_status": listing.StringField(func(c *models.Customer) string { return c.PaymentStatus }),
	"total_purchase": listing.NumberField(func(c *models.Customer) float64 { return c.TotalPurchase }),
	"created_at":     listing.TimeField(func(c *models.Customer) time.Time { return c.CreatedAt }),
}

// CustomerService handles customer business logic
type CustomerService struct {
	repo        CustomerRepository
	hasher      pkgauth.Hasher
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo CustomerRepository, hasher pkgauth.Hasher, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *CustomerService {
	return &CustomerService{
		repo:        repo,
		hasher:      hasher,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

func (in CustomerInput) apply(c *models.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = normalizeEmail(in.Email)
	c.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	c.TotalPurchase = in.TotalPurchase
	c.City = strings.TrimSpace(in.City)
	c.PaymentStatus = in.PaymentStatus
	if c.PaymentStatus == "" {
		c.PaymentStatus = models.PaymentStatusNone
	}
}

// GetCustomerByID retrieves a customer by ID
func (s *CustomerService) GetCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("customer not found", slog.String("customer_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get customer", slog.String("customer_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return customer, nil
}

// ListCustomers returns one page of customers filtered, sorted and paginated per req
func (s *CustomerService) ListCustomers(ctx context.Context, req listing.PageRequest) (*listing.PageResult[CustomerResponse], error) {
	if err := listing.Validate(req, CustomerListSchema); err != nil {
		return nil, err
	}

	customers, err := s.repo.List(ctx, repositories.Search{Column: req.SearchField, Keyword: req.SearchKeyword})
	if err != nil {
		s.logger.Error("failed to list customers", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return listing.ListPage(customers, req, CustomerListSchema, ToCustomerResponse)
}

// EmailIsRegistered reports whether a customer already uses email
func (s *CustomerService) EmailIsRegistered(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrNotFound):
		return false, nil
	default:
		s.logger.Error("failed to look up customer email", slog.Any("error", err))
		return false, models.ErrInternalServer
	}
}

// CreateCustomer validates the password pair and stores a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, in CustomerInput, password, passwordConfirm string) (*models.Customer, error) {
	taken, err := s.EmailIsRegistered(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrConflict
	}

	hash, err := newPasswordHash(s.hasher, s.logger, password, passwordConfirm)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{PasswordHash: hash}
	in.apply(customer)

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create customer", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("customer created", slog.String("customer_id", created.ID))
	s.auditLogger.LogAccountAction("created", subjectCustomer, created.ID)
	return created, nil
}

// UpdateCustomer replaces a customer's editable attributes
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*models.Customer, error) {
	existing, err := s.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email := normalizeEmail(in.Email); email != existing.Email {
		taken, err := s.EmailIsRegistered(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.ErrConflict
		}
	}

	in.apply(existing)

	updated, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to update customer", slog.String("customer_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("customer updated", slog.String("customer_id", id))
	return updated, nil
}

// DeleteCustomer removes a customer by ID
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete customer", slog.String("customer_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("customer deleted", slog.String("customer_id", id))
	s.auditLogger.LogAccountAction("deleted", subjectCustomer, id)
	return nil
}

// ChangePassword replaces a customer's password after checking the old one
func (s *CustomerService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	customer, err := s.GetCustomerByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := checkPassword(s.hasher, customer.PasswordHash, oldPassword)
	if err != nil {
		s.logger.Error("failed to check password", slog.String("customer_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	if !ok {
		s.auditLogger.LogPasswordChange(subjectCustomer, id, false)
		return models.ErrInvalidCredentials
	}

	hash, err := newPasswordHash(s.hasher, s.logger, newPassword, confirm)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to update password", slog.String("customer_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogPasswordChange(subjectCustomer, id, true)
	return nil
}
