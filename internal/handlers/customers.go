package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/services"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
	"github.com/go-chi/chi/v5"
)

type CustomerService interface {
	GetCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context, req listing.PageRequest) (*listing.PageResult[services.CustomerResponse], error)
	CreateCustomer(ctx context.Context, in services.CustomerInput, password, passwordConfirm string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in services.CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error
}

type CustomerHandler struct {
	service    CustomerService
	pagination PaginationConfig
}

func NewCustomerHandler(service CustomerService, pagination PaginationConfig) *CustomerHandler {
	return &CustomerHandler{
		service:    service,
		pagination: pagination,
	}
}

// CustomerFields are the editable attributes shared by create and update
type CustomerFields struct {
	Name          string  `json:"name" validate:"required,min=1,max=100"`
	Email         string  `json:"email" validate:"required,email"`
	PhoneNumber   string  `json:"phone_number" validate:"required,max=20"`
	TotalPurchase float64 `json:"total_purchase" validate:"gte=0"`
	City          string  `json:"city" validate:"required,max=100"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=paid unpaid none"`
}

func (f CustomerFields) input() services.CustomerInput {
	return services.CustomerInput{
		Name:          f.Name,
		Email:         f.Email,
		PhoneNumber:   f.PhoneNumber,
		TotalPurchase: f.TotalPurchase,
		City:          f.City,
		PaymentStatus: f.PaymentStatus,
	}
}

type CreateCustomerRequest struct {
	CustomerFields
	Password        string `json:"password" validate:"required,strongpassword"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type UpdateCustomerRequest struct {
	CustomerFields
}

// RegisterRoutes registers all customer routes with the chi router
func (h *CustomerHandler) RegisterRoutes(router chi.Router) {
	router.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Get("/{id}", h.GetCustomer)
		r.Put("/{id}", h.UpdateCustomer)
		r.Delete("/{id}", h.DeleteCustomer)
		r.Post("/{id}/change-password", h.ChangePassword)
	})
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r, h.pagination)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	page, err := h.service.ListCustomers(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, page)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.service.GetCustomerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "Unknown customer")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.ToCustomerResponse(customer))
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req.input(), req.Password, req.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, services.ToCustomerResponse(customer))
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req UpdateCustomerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, err, "Unknown customer")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, services.ToCustomerResponse(customer))
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "Unknown customer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.ChangePassword(r.Context(), chi.URLParam(r, "id"), req.PasswordOld, req.PasswordNew, req.PasswordConfirm)
	if err != nil {
		writeServiceError(w, err, "Unknown customer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
