package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/throttle"
	pkgauth "github.com/BradenHooton/roster/pkg/auth"
	pkglogger "github.com/BradenHooton/roster/pkg/logger"
)

// LoginRequestMeta carries request details recorded in the audit log
type LoginRequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	tm          *auth.TokenManager
	guard       *throttle.Guard
	hasher      pkgauth.Hasher
	timing      *auth.TimingDelay
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService. timing may be nil.
func NewAuthService(
	repo UserRepository,
	tm *auth.TokenManager,
	guard *throttle.Guard,
	hasher pkgauth.Hasher,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		tm:          tm,
		guard:       guard,
		hasher:      hasher,
		timing:      timing,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Login checks credentials under the per-email attempt guard and issues an
// access token. Failures are ErrInvalidCredentials or wrap ErrTooManyAttempts.
func (s *AuthService) Login(ctx context.Context, email, password string, meta LoginRequestMeta) (*AuthResponse, error) {
	identifier := normalizeEmail(email)
	event := pkglogger.AuditEvent{
		EventType:   "login",
		SubjectType: subjectUser,
		Email:       identifier,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	}

	var user *models.User
	err := s.guard.Attempt(ctx, identifier, func(ctx context.Context, attempt int) (bool, error) {
		start := time.Now()
		event.Attempt = attempt

		found, err := s.repo.GetByEmail(ctx, identifier)
		if errors.Is(err, models.ErrNotFound) {
			s.timing.WaitFrom(start, false)
			return false, nil
		}
		if err != nil {
			return false, err
		}

		ok, err := checkPassword(s.hasher, found.PasswordHash, password)
		if err != nil {
			return false, err
		}
		s.timing.WaitFrom(start, ok)
		if ok {
			user = found
		}
		return ok, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, models.ErrTooManyAttempts):
		event.FailureReason = "too_many_attempts"
		s.auditLogger.LogAuthAttempt(event)
		return nil, err
	case errors.Is(err, models.ErrInvalidCredentials):
		event.FailureReason = "invalid_credentials"
		s.auditLogger.LogAuthAttempt(event)
		return nil, models.ErrInvalidCredentials
	default:
		s.logger.Error("failed to verify login credentials", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	event.SubjectID = user.ID
	event.Success = true
	s.auditLogger.LogAuthAttempt(event)
	s.logger.Info("user logged in", slog.String("user_id", user.ID))

	return &AuthResponse{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  token,
	}, nil
}
