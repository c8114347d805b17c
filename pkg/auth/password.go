package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 12
	MinPasswordLen = 6
	MaxPasswordLen = 32

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// ErrPasswordMismatch is returned by Compare when the password does not match the hash
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordValidationError holds validation error details (internal use only)
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	// Return generic error to users - never expose specific requirements to prevent enumeration attacks
	return "invalid password"
}

// Hasher hashes passwords and checks plaintext against a stored digest
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// NewHasher returns the hasher for the named algorithm; unknown names use bcrypt
func NewHasher(name string) Hasher {
	if strings.EqualFold(name, HasherArgon2id) {
		return Argon2idHasher{Params: argon2id.DefaultParams}
	}
	return BcryptHasher{Cost: BcryptCost}
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return ComparePassword(hash, password)
}

type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := argon2id.CreateHash(password, h.Params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (h Argon2idHasher) Compare(hash, password string) error {
	return ComparePassword(hash, password)
}

// ComparePassword checks password against a bcrypt or argon2id digest, chosen by
// the digest's prefix, so stored hashes keep working when the configured hasher changes.
func ComparePassword(hashedPassword, password string) error {
	if strings.HasPrefix(hashedPassword, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, hashedPassword)
		if err != nil {
			return fmt.Errorf("failed to compare password: %w", err)
		}
		if !match {
			return ErrPasswordMismatch
		}
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}
	return nil
}

// HashPassword hashes with bcrypt at the default cost
func HashPassword(password string) (string, error) {
	return BcryptHasher{Cost: BcryptCost}.Hash(password)
}

// ValidatePassword enforces the account password rules: 6-32 Latin characters
// with an upper, a lower, a digit and a special character, and no whitespace.
func ValidatePassword(password string) error {
	errors := make([]string, 0)

	if len(password) < MinPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at most %d characters", MaxPasswordLen))
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			errors = append(errors, "must not contain whitespace")
		case r > unicode.MaxASCII:
			errors = append(errors, "must only contain Latin characters")
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		errors = append(errors, "must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "must contain at least one lowercase letter")
	}
	if !hasDigit {
		errors = append(errors, "must contain at least one digit")
	}
	if !hasSpecial {
		errors = append(errors, "must contain at least one special character")
	}

	if len(errors) > 0 {
		return &PasswordValidationError{Errors: errors}
	}

	return nil
}
