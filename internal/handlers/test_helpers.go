package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/services"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Serve routes req through a chi router with register's routes mounted
func Serve(register func(chi.Router), req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, email, password string, meta services.LoginRequestMeta) (*services.AuthResponse, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string, meta services.LoginRequestMeta) (*services.AuthResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, email, password, meta)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	GetUserByIDFunc    func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc      func(ctx context.Context, req listing.PageRequest) (*listing.PageResult[services.UserResponse], error)
	CreateUserFunc     func(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, error)
	UpdateUserFunc     func(ctx context.Context, id, name, email string) (*models.User, error)
	DeleteUserFunc     func(ctx context.Context, id string) error
	ChangePasswordFunc func(ctx context.Context, id, oldPassword, newPassword, confirm string) error
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetUserByIDFunc(ctx, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, req listing.PageRequest) (*listing.PageResult[services.UserResponse], error) {
	if m.ListUsersFunc == nil {
		return &listing.PageResult[services.UserResponse]{Data: []services.UserResponse{}}, nil
	}
	return m.ListUsersFunc(ctx, req)
}

func (m *MockUserService) CreateUser(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, error) {
	if m.CreateUserFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateUserFunc(ctx, name, email, password, passwordConfirm)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id, name, email string) (*models.User, error) {
	if m.UpdateUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateUserFunc(ctx, id, name, email)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, id)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword, confirm)
}

// MockCustomerService implements CustomerService for testing
type MockCustomerService struct {
	GetCustomerByIDFunc func(ctx context.Context, id string) (*models.Customer, error)
	ListCustomersFunc   func(ctx context.Context, req listing.PageRequest) (*listing.PageResult[services.CustomerResponse], error)
	CreateCustomerFunc  func(ctx context.Context, in services.CustomerInput, password, passwordConfirm string) (*models.Customer, error)
	UpdateCustomerFunc  func(ctx context.Context, id string, in services.CustomerInput) (*models.Customer, error)
	DeleteCustomerFunc  func(ctx context.Context, id string) error
	ChangePasswordFunc  func(ctx context.Context, id, oldPassword, newPassword, confirm string) error
}

func (m *MockCustomerService) GetCustomerByID(ctx context.Context, id string) (*models.Customer, error) {
	if m.GetCustomerByIDFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetCustomerByIDFunc(ctx, id)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, req listing.PageRequest) (*listing.PageResult[services.CustomerResponse], error) {
	if m.ListCustomersFunc == nil {
		return &listing.PageResult[services.CustomerResponse]{Data: []services.CustomerResponse{}}, nil
	}
	return m.ListCustomersFunc(ctx, req)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, in services.CustomerInput, password, passwordConfirm string) (*models.Customer, error) {
	if m.CreateCustomerFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateCustomerFunc(ctx, in, password, passwordConfirm)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id string, in services.CustomerInput) (*models.Customer, error) {
	if m.UpdateCustomerFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateCustomerFunc(ctx, id, in)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if m.DeleteCustomerFunc == nil {
		return nil
	}
	return m.DeleteCustomerFunc(ctx, id)
}

func (m *MockCustomerService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, id, oldPassword, newPassword, confirm)
}
