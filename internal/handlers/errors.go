package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/roster/internal/models"
	pkgauth "github.com/BradenHooton/roster/pkg/auth"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// writeServiceError maps a service sentinel to its HTTP status
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	var pve *pkgauth.PasswordValidationError

	switch {
	case errors.Is(err, models.ErrTooManyAttempts):
		pkghttp.WriteForbidden(w, "Too many login attempts, please try again later")
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Wrong email or password")
	case errors.Is(err, models.ErrInvalidArgument):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrPasswordMismatch):
		pkghttp.WriteBadRequest(w, "Password confirmation mismatched")
	case errors.As(err, &pve):
		pkghttp.WriteBadRequest(w, pve.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, notFoundMsg)
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "Email is already registered")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
