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

const subjectUser = "user"

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, search repositories.Search) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

// UserResponse is the public shape of a user
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserResponse converts a user to its public shape
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

// UserListSchema lists the fields users can be sorted and searched by
var UserListSchema = listing.Schema[*models.User]{
	"name":       listing.StringField(func(u *models.User) string { return u.Name }),
	"email":      listing.StringField(func(u *models.User) string { return u.Email }),
	"created_at": listing.TimeField(func(u *models.User) time.Time { return u.CreatedAt }),
}

// UserService handles user business logic
type UserService struct {
	repo        UserRepository
	hasher      pkgauth.Hasher
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, hasher pkgauth.Hasher, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		hasher:      hasher,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// ListUsers returns one page of users filtered, sorted and paginated per req
func (s *UserService) ListUsers(ctx context.Context, req listing.PageRequest) (*listing.PageResult[UserResponse], error) {
	if err := listing.Validate(req, UserListSchema); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx, repositories.Search{Column: req.SearchField, Keyword: req.SearchKeyword})
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return listing.ListPage(users, req, UserListSchema, ToUserResponse)
}

// EmailIsRegistered reports whether a user already uses email
func (s *UserService) EmailIsRegistered(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrNotFound):
		return false, nil
	default:
		s.logger.Error("failed to look up user email", slog.Any("error", err))
		return false, models.ErrInternalServer
	}
}

// CreateUser creates a new user
func (s *UserService) CreateUser(ctx context.Context, name, email, password, passwordConfirm string) (*models.User, error) {
	email = normalizeEmail(email)

	taken, err := s.EmailIsRegistered(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Info("user already exists")
		return nil, models.ErrConflict
	}

	hash, err := newPasswordHash(s.hasher, s.logger, password, passwordConfirm)
	if err != nil {
		return nil, err
	}

	createdUser, err := s.repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", createdUser.ID))
	s.auditLogger.LogAccountAction("created", subjectUser, createdUser.ID)
	return createdUser, nil
}

// UpdateUser changes a user's name and email
func (s *UserService) UpdateUser(ctx context.Context, id, name, email string) (*models.User, error) {
	existing, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	if email != existing.Email {
		taken, err := s.EmailIsRegistered(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.ErrConflict
		}
	}

	existing.Name = strings.TrimSpace(name)
	existing.Email = email

	updatedUser, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updatedUser, nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction("deleted", subjectUser, id)
	return nil
}

// ChangePassword replaces a user's password after checking the old one.
// A wrong old password yields ErrInvalidCredentials.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, confirm string) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := checkPassword(s.hasher, user.PasswordHash, oldPassword)
	if err != nil {
		s.logger.Error("failed to check password", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}
	if !ok {
		s.auditLogger.LogPasswordChange(subjectUser, id, false)
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
		s.logger.Error("failed to update password", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogPasswordChange(subjectUser, id, true)
	return nil
}
