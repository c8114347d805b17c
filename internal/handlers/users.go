package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/services"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user business logic
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, req listing.PageRequest) (*listing.PageResult[services.UserResponse], error)
	CreateUser(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, error)
	UpdateUser(ctx context.Context, id, name, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service    UserService
	pagination PaginationConfig
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, pagination PaginationConfig) *UserHandler {
	return &UserHandler{
		service:    service,
		pagination: pagination,
	}
}

// Request DTOs

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strongpassword"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest is shared by users and customers
type ChangePasswordRequest struct {
	PasswordOld     string `json:"password_old" validate:"required"`
	PasswordNew     string `json:"password_new" validate:"required,strongpassword"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// RegisterRoutes registers all user routes with the chi router
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)                           // GET /users
		r.Post("/", h.CreateUser)                         // POST /users
		r.Get("/{id}", h.GetUser)                         // GET /users/{id}
		r.Put("/{id}", h.UpdateUser)                      // PUT /users/{id}
		r.Delete("/{id}", h.DeleteUser)                   // DELETE /users/{id}
		r.Post("/{id}/change-password", h.ChangePassword) // POST /users/{id}/change-password
	})
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if err := ValidateRequest(dst); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}

// ListUsers returns a page of users
//
// @Summary List users
// @Param page_number query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 10)"
// @Param search query string false "field:keyword, or a bare keyword matched against email"
// @Param sort query string false "field:asc|desc"
// @Produce json
// @Success 200 {object} listing.PageResult[services.UserResponse]
// @Failure 400 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r, h.pagination)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	page, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

// GetUser retrieves a user by ID
//
// @Summary Get user by ID
// @Param id path string true "User ID"
// @Produce json
// @Success 200 {object} services.UserResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Unknown user")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.ToUserResponse(user))
}

// CreateUser creates a new user
//
// @Summary Create a new user
// @Accept json
// @Param request body CreateUserRequest true "Create user request"
// @Produce json
// @Success 201 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Name, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, services.ToUserResponse(user))
}

// UpdateUser updates an existing user
//
// @Summary Update a user
// @Param id path string true "User ID"
// @Accept json
// @Param request body UpdateUserRequest true "Update user request"
// @Produce json
// @Success 200 {object} services.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), req.Name, req.Email)
	if err != nil {
		writeServiceError(w, err, "Unknown user")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.ToUserResponse(user))
}

// DeleteUser deletes a user
//
// @Summary Delete a user
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Unknown user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword replaces a user's password
//
// @Summary Change user password
// @Param id path string true "User ID"
// @Accept json
// @Param request body ChangePasswordRequest true "Change password request"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/change-password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), chi.URLParam(r, "id"), req.PasswordOld, req.PasswordNew, req.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err, "Unknown user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
