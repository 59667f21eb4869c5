package mocks

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MemoryUserStore implements store.UserStore on a MemoryDB. Passwords are
// "hashed" by prefixing them with HashPrefix so tests can assert on the result
// without paying for bcrypt.
type MemoryUserStore struct {
	db *MemoryDB
}

// HashPrefix marks a password stored by MemoryUserStore.
const HashPrefix = "hashed:"

// NewMemoryUserStore returns a user store backed by db.
func NewMemoryUserStore(db *MemoryDB) *MemoryUserStore {
	return &MemoryUserStore{db: db}
}

// Create implements store.UserStore.
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("users.create"); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return store.NewStoreError("create", "user", "invalid user", err)
	}
	if _, ok := s.findByEmail(user.Email); ok {
		return store.ErrEmailExists
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Password != "" {
		user.HashedPassword = HashPrefix + user.Password
		user.Password = ""
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	s.db.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("users.get"); err != nil {
		return nil, err
	}
	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("users.get"); err != nil {
		return nil, err
	}
	u, ok := s.findByEmail(email)
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// Update implements store.UserStore.
func (s *MemoryUserStore) Update(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("users.update"); err != nil {
		return err
	}
	current, ok := s.db.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if other, ok := s.findByEmail(user.Email); ok && other.ID != user.ID {
		return store.ErrEmailExists
	}

	current.Email = strings.TrimSpace(user.Email)
	current.Role = user.Role
	current.IsStaff = user.IsStaff
	if user.Password != "" {
		current.HashedPassword = HashPrefix + user.Password
		user.Password = ""
	}
	current.UpdatedAt = time.Now().UTC()
	s.db.users[user.ID] = current
	return nil
}

// WithTx implements store.UserStore.
func (s *MemoryUserStore) WithTx(*sql.Tx) store.UserStore {
	return s
}

// findByEmail must be called with mu held.
func (s *MemoryUserStore) findByEmail(email string) (domain.User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domain.User{}, false
}

// AddUser stores an account whose password is "password1234" and returns it.
// Admins are also marked as staff. Validation is skipped.
func (db *MemoryDB) AddUser(email string, role domain.Role) *domain.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := time.Now().UTC()
	u := domain.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: HashPrefix + "password1234",
		Role:           role,
		IsStaff:        role == domain.RoleAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	db.users[u.ID] = u
	return &u
}

var _ store.UserStore = (*MemoryUserStore)(nil)
