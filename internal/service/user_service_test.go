package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a client", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ana@example.com" &&
				u.Role == domain.RoleClient &&
				!u.IsStaff &&
				u.Password == "correct-horse-battery"
		})).Return(nil)

		svc := service.NewUserService(users, &mocks.MockPasswordVerifier{}, quietLogger())
		user, err := svc.Register(ctx, "  ana@example.com ", "correct-horse-battery")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleClient, user.Role)
		assert.False(t, user.IsAdmin())
		users.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		svc := service.NewUserService(users, &mocks.MockPasswordVerifier{}, quietLogger())
		_, err := svc.Register(ctx, "ana@example.com", "correct-horse-battery")

		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("short password never reaches the store", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)

		svc := service.NewUserService(users, &mocks.MockPasswordVerifier{}, quietLogger())
		_, err := svc.Register(ctx, "ana@example.com", "short")

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		svc := service.NewUserService(users, &mocks.MockPasswordVerifier{}, quietLogger())
		_, err := svc.Register(ctx, "ana@example.com", "correct-horse-battery")

		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrEmailTaken)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()
	stored := &domain.User{
		ID:             uuid.New(),
		Email:          "ana@example.com",
		HashedPassword: mocks.HashPrefix + "correct-horse-battery",
		Role:           domain.RoleClient,
	}

	t.Run("valid credentials", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

		svc := service.NewUserService(users, &mocks.MockPasswordVerifier{}, quietLogger())
		user, err := svc.Authenticate(ctx, "ana@example.com", "correct-horse-battery")

		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

		svc := service.NewUserService(users, &mocks.MockPasswordVerifier{}, quietLogger())
		_, err := svc.Authenticate(ctx, "ana@example.com", "wrong-password-here")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email still compares a hash", func(t *testing.T) {
		users := new(mocks.TestifyMockUserStore)
		users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, store.ErrUserNotFound)
		verifier := &mocks.MockPasswordVerifier{}

		svc := service.NewUserService(users, verifier, quietLogger())
		_, err := svc.Authenticate(ctx, "ghost@example.com", "whatever-password")

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, 1, verifier.CallCount())
		assert.Equal(t, auth.DummyHash(), verifier.Hashes[0])
	})
}

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	users := new(mocks.TestifyMockUserStore)
	users.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)

	svc := service.NewUserService(users, nil, quietLogger())
	_, err := svc.GetUser(ctx, id)

	assert.ErrorIs(t, err, service.ErrUserNotFound)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the admin", func(t *testing.T) {
		db := mocks.NewMemoryDB()
		users := mocks.NewMemoryUserStore(db)
		svc := service.NewUserService(users, nil, quietLogger())

		created, err := svc.EnsureAdmin(ctx, "root@example.com", "root-password-1")
		require.NoError(t, err)
		assert.True(t, created)

		admin, err := users.GetByEmail(ctx, "root@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, admin.Role)
		assert.True(t, admin.IsStaff)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		db := mocks.NewMemoryDB()
		users := mocks.NewMemoryUserStore(db)
		svc := service.NewUserService(users, nil, quietLogger())

		_, err := svc.EnsureAdmin(ctx, "root@example.com", "root-password-1")
		require.NoError(t, err)
		created, err := svc.EnsureAdmin(ctx, "ROOT@example.com", "root-password-1")

		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("promotes an existing client", func(t *testing.T) {
		db := mocks.NewMemoryDB()
		client := db.AddUser("ana@example.com", domain.RoleClient)
		users := mocks.NewMemoryUserStore(db)
		svc := service.NewUserService(users, nil, quietLogger())

		created, err := svc.EnsureAdmin(ctx, "ana@example.com", "root-password-1")
		require.NoError(t, err)
		assert.False(t, created)

		promoted, err := users.GetByID(ctx, client.ID)
		require.NoError(t, err)
		assert.True(t, promoted.IsAdmin())
	})
}
