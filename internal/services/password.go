package services

import (
	"errors"
	"log/slog"

	"github.com/BradenHooton/roster/internal/models"
	pkgauth "github.com/BradenHooton/roster/pkg/auth"
)

// newPasswordHash checks confirmation and strength, then hashes password.
// Validation failures are returned as is so handlers can answer 400.
func newPasswordHash(hasher pkgauth.Hasher, logger *slog.Logger, password, confirm string) (string, error) {
	if password != confirm {
		return "", models.ErrPasswordMismatch
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return "", models.ErrInternalServer
	}
	return hash, nil
}

// checkPassword reports whether password matches hash. Only a mismatch yields
// false with a nil error.
func checkPassword(hasher pkgauth.Hasher, hash, password string) (bool, error) {
	err := hasher.Compare(hash, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pkgauth.ErrPasswordMismatch):
		return false, nil
	default:
		return false, err
	}
}
