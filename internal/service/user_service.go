package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// UserService provides account operations: registration, credential checks
// and admin provisioning.
type UserService interface {
	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// Register creates a client account. Registration never grants admin.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user when email and password match, or
	// auth.ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// EnsureAdmin creates an admin account, or promotes the existing account
	// with that email. It reports whether a new account was created.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore        store.UserStore
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, verifier auth.PasswordVerifier, logger *slog.Logger) UserService {
	if verifier == nil {
		verifier = auth.NewBcryptVerifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:        userStore,
		passwordVerifier: verifier,
		logger:           logger.With("component", "user_service"),
	}
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// Register implements UserService.Register
func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
			return nil, ErrEmailTaken
		}
		log.Error("failed to save user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Spend the same bcrypt work as a wrong password.
			_ = s.passwordVerifier.Compare(auth.DummyHash(), password)
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", "user_id", user.ID)
		return nil, auth.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin implements UserService.EnsureAdmin
func (s *UserServiceImpl) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin && existing.IsStaff {
			return false, nil
		}
		existing.Role = domain.RoleAdmin
		existing.IsStaff = true
		if err := s.userStore.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("failed to promote user: %w", err)
		}
		log.Info("user promoted to admin", "user_id", existing.ID)
		return false, nil
	case !store.IsNotFoundError(err):
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	user, err := domain.NewUser(email, password, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	user.IsStaff = true

	if err := s.userStore.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info("admin created", "user_id", user.ID)
	return true, nil
}
