package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		shouldFail bool
	}{
		{name: "valid strong password", password: "SecureP@ss123"},
		{name: "valid at minimum length", password: "Ab1@cd"},
		{name: "valid at maximum length", password: "Ab1@" + strings.Repeat("x", 28)},
		{name: "too short", password: "Ab1@c", shouldFail: true},
		{name: "too long", password: "Ab1@" + strings.Repeat("x", 29), shouldFail: true},
		{name: "missing uppercase", password: "securepass@123", shouldFail: true},
		{name: "missing lowercase", password: "SECUREPASS@123", shouldFail: true},
		{name: "missing digit", password: "SecurePass@xyz", shouldFail: true},
		{name: "missing special character", password: "SecurePass123", shouldFail: true},
		{name: "contains whitespace", password: "Secure P@ss123", shouldFail: true},
		{name: "non-latin characters", password: "SecureP@ss123é", shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)

			if tt.shouldFail {
				require.Error(t, err)
				assert.Equal(t, "invalid password", err.Error())
				var ve *PasswordValidationError
				assert.ErrorAs(t, err, &ve)
				assert.NotEmpty(t, ve.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndComparePassword(t *testing.T) {
	password := "SecureP@ss123"

	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.NoError(t, ComparePassword(hash, password))
	assert.ErrorIs(t, ComparePassword(hash, "WrongPassword123!"), ErrPasswordMismatch)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestNewHasher(t *testing.T) {
	assert.IsType(t, BcryptHasher{}, NewHasher("bcrypt"))
	assert.IsType(t, BcryptHasher{}, NewHasher(""))
	assert.IsType(t, Argon2idHasher{}, NewHasher("argon2id"))
	assert.IsType(t, Argon2idHasher{}, NewHasher("ARGON2ID"))
}

func TestHashers_RoundTrip(t *testing.T) {
	hashers := map[string]Hasher{
		"bcrypt":   BcryptHasher{Cost: 4},
		"argon2id": NewHasher(HasherArgon2id),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("SecureP@ss123")
			require.NoError(t, err)

			assert.NoError(t, h.Compare(hash, "SecureP@ss123"))
			assert.ErrorIs(t, h.Compare(hash, "nope"), ErrPasswordMismatch)
		})
	}
}

func TestComparePassword_AcrossAlgorithms(t *testing.T) {
	argonHash, err := NewHasher(HasherArgon2id).Hash("SecureP@ss123")
	require.NoError(t, err)

	// A bcrypt-configured hasher still verifies argon2id digests
	assert.NoError(t, BcryptHasher{Cost: 4}.Compare(argonHash, "SecureP@ss123"))
}

func TestComparePassword_MalformedHash(t *testing.T) {
	err := ComparePassword("not-a-hash", "SecureP@ss123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}
