package services

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/repositories"
	pkgauth "github.com/BradenHooton/roster/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPassword = "SecureP@ss1"

func newUserService(repo UserRepository) *UserService {
	return NewUserService(repo, testHasher, slog.Default(), newTestAuditLogger())
}

func TestUserService_GetUserByID(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "found"},
		{name: "not found", repoErr: models.ErrNotFound, wantErr: models.ErrNotFound},
		{name: "database error", repoErr: fmt.Errorf("connection reset"), wantErr: models.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newUserService(&MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return NewTestUser(id, "user@example.com", "Test User"), nil
				},
			})

			user, err := svc.GetUserByID(context.Background(), "user123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user123", user.ID)
		})
	}
}

func TestUserService_ListUsers_PagesSortedProjection(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	users := make([]*models.User, 0, 12)
	for i := 12; i >= 1; i-- {
		u := NewTestUser(fmt.Sprintf("u%02d", i), fmt.Sprintf("user%02d@example.com", i), "User")
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		u.PasswordHash = "secret-hash"
		users = append(users, u)
	}

	svc := newUserService(&MockUserRepository{
		ListFunc: func(ctx context.Context, search repositories.Search) ([]*models.User, error) {
			return users, nil
		},
	})

	page, err := svc.ListUsers(context.Background(), listing.PageRequest{
		PageNumber: 1, PageSize: 5, SortField: "email", SortOrder: listing.Asc,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	require.Len(t, page.Data, 5)
	assert.Equal(t, UserResponse{ID: "u01", Name: "User", Email: "user01@example.com"}, page.Data[0])
	assert.Equal(t, "u05", page.Data[4].ID)
}

func TestUserService_ListUsers_PassesSearchToRepository(t *testing.T) {
	var got repositories.Search
	svc := newUserService(&MockUserRepository{
		ListFunc: func(ctx context.Context, search repositories.Search) ([]*models.User, error) {
			got = search
			// The repository pre-filter may over-match; the listing re-filters exactly
			return []*models.User{
				NewTestUser("1", "abc@example.com", "A"),
				NewTestUser("2", "zzz@example.com", "Z"),
			}, nil
		},
	})

	page, err := svc.ListUsers(context.Background(), listing.PageRequest{
		PageNumber: 1, PageSize: 10, SearchField: "email", SearchKeyword: "ABC",
	})
	require.NoError(t, err)

	assert.Equal(t, repositories.Search{Column: "email", Keyword: "ABC"}, got)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "1", page.Data[0].ID)
}

func TestUserService_ListUsers_NonASCIISearchFoldsCase(t *testing.T) {
	svc := newUserService(&MockUserRepository{
		ListFunc: func(ctx context.Context, search repositories.Search) ([]*models.User, error) {
			return []*models.User{
				NewTestUser("1", "a@example.com", "ÄRGER"),
				NewTestUser("2", "b@example.com", "Berger"),
			}, nil
		},
	})

	page, err := svc.ListUsers(context.Background(), listing.PageRequest{
		PageNumber: 1, PageSize: 10, SearchField: "name", SearchKeyword: "ärg",
	})
	require.NoError(t, err)

	require.Len(t, page.Data, 1)
	assert.Equal(t, "1", page.Data[0].ID)
}

func TestUserService_ListUsers_InvalidRequestSkipsRepository(t *testing.T) {
	called := false
	svc := newUserService(&MockUserRepository{
		ListFunc: func(ctx context.Context, search repositories.Search) ([]*models.User, error) {
			called = true
			return nil, nil
		},
	})

	_, err := svc.ListUsers(context.Background(), listing.PageRequest{PageNumber: 1, PageSize: 10, SortField: "password_hash"})

	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.False(t, called)
}

func TestUserService_ListUsers_RepositoryError(t *testing.T) {
	svc := newUserService(&MockUserRepository{
		ListFunc: func(ctx context.Context, search repositories.Search) ([]*models.User, error) {
			return nil, fmt.Errorf("boom")
		},
	})

	_, err := svc.ListUsers(context.Background(), listing.DefaultPageRequest())
	assert.ErrorIs(t, err, models.ErrInternalServer)
}

func TestUserService_CreateUser_Success(t *testing.T) {
	var stored *models.User
	svc := newUserService(&MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user123"
			stored = user
			return user, nil
		},
	})

	user, err := svc.CreateUser(context.Background(), " Jane ", " Jane@Example.COM ", validPassword, validPassword)
	require.NoError(t, err)

	assert.Equal(t, "user123", user.ID)
	assert.Equal(t, "Jane", stored.Name)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.NotEqual(t, validPassword, stored.PasswordHash)
	assert.NoError(t, testHasher.Compare(stored.PasswordHash, validPassword))
}

func TestUserService_CreateUser_Rejections(t *testing.T) {
	existing := NewTestUser("existing", "taken@example.com", "Taken")

	tests := []struct {
		name     string
		email    string
		password string
		confirm  string
		check    func(t *testing.T, err error)
	}{
		{
			name: "email taken", email: "TAKEN@example.com", password: validPassword, confirm: validPassword,
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, models.ErrConflict) },
		},
		{
			name: "confirmation mismatch", email: "new@example.com", password: validPassword, confirm: "Other@123",
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, models.ErrPasswordMismatch) },
		},
		{
			name: "weak password", email: "new@example.com", password: "weakpass", confirm: "weakpass",
			check: func(t *testing.T, err error) {
				var ve *pkgauth.PasswordValidationError
				assert.ErrorAs(t, err, &ve)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newUserService(&MockUserRepository{
				GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					if email == existing.Email {
						return existing, nil
					}
					return nil, models.ErrNotFound
				},
				CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
					t.Fatal("Create must not be called")
					return nil, nil
				},
			})

			user, err := svc.CreateUser(context.Background(), "Name", tt.email, tt.password, tt.confirm)

			assert.Nil(t, user)
			tt.check(t, err)
		})
	}
}

func TestUserService_CreateUser_UniqueViolationRace(t *testing.T) {
	svc := newUserService(&MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	})

	_, err := svc.CreateUser(context.Background(), "Name", "new@example.com", validPassword, validPassword)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserService_UpdateUser(t *testing.T) {
	owner := NewTestUser("u1", "me@example.com", "Me")
	other := NewTestUser("u2", "other@example.com", "Other")

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			if id == owner.ID {
				copied := *owner
				return &copied, nil
			}
			return nil, models.ErrNotFound
		},
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == other.Email {
				return other, nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := newUserService(repo)

	t.Run("same email keeps ownership", func(t *testing.T) {
		user, err := svc.UpdateUser(context.Background(), "u1", "New Name", "ME@example.com")
		require.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Equal(t, "me@example.com", user.Email)
	})

	t.Run("email owned by another user", func(t *testing.T) {
		_, err := svc.UpdateUser(context.Background(), "u1", "Me", "other@example.com")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.UpdateUser(context.Background(), "nope", "Me", "me@example.com")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "deleted"},
		{name: "not found", repoErr: models.ErrNotFound, wantErr: models.ErrNotFound},
		{name: "database error", repoErr: fmt.Errorf("boom"), wantErr: models.ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newUserService(&MockUserRepository{
				DeleteFunc: func(ctx context.Context, id string) error { return tt.repoErr },
			})

			err := svc.DeleteUser(context.Background(), "u1")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	const newPassword = "Fresh#Pass9"

	tests := []struct {
		name        string
		oldPassword string
		newPassword string
		confirm     string
		wantErr     error
		wantUpdate  bool
	}{
		{name: "success", oldPassword: validPassword, newPassword: newPassword, confirm: newPassword, wantUpdate: true},
		{name: "wrong old password", oldPassword: "Wrong@123", newPassword: newPassword, confirm: newPassword, wantErr: models.ErrInvalidCredentials},
		{name: "confirmation mismatch", oldPassword: validPassword, newPassword: newPassword, confirm: "Other#Pass9", wantErr: models.ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updatedHash string
			svc := newUserService(&MockUserRepository{
				GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
					return NewTestUserWithPassword(id, "me@example.com", "Me", validPassword), nil
				},
				UpdatePasswordFunc: func(ctx context.Context, id, hash string) error {
					updatedHash = hash
					return nil
				},
			})

			err := svc.ChangePassword(context.Background(), "u1", tt.oldPassword, tt.newPassword, tt.confirm)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantUpdate {
				assert.NoError(t, testHasher.Compare(updatedHash, newPassword))
			} else {
				assert.Empty(t, updatedHash)
			}
		})
	}
}

func TestUserService_EmailIsRegistered(t *testing.T) {
	svc := newUserService(&MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == "taken@example.com" {
				return NewTestUser("u1", email, "Taken"), nil
			}
			return nil, models.ErrNotFound
		},
	})

	taken, err := svc.EmailIsRegistered(context.Background(), " Taken@Example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = svc.EmailIsRegistered(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}
