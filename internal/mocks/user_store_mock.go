package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockUserStore is a testify/mock double of store.UserStore.
type TestifyMockUserStore struct {
	mock.Mock
}

func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *TestifyMockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return userResult(m.Called(ctx, email))
}

func (m *TestifyMockUserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// WithTx returns the mock itself unless an expectation for WithTx returns
// another store.
func (m *TestifyMockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	for _, c := range m.ExpectedCalls {
		if c.Method == "WithTx" {
			if ret, ok := m.Called(tx).Get(0).(store.UserStore); ok {
				return ret
			}
			break
		}
	}
	return m
}

func userResult(args mock.Arguments) (*domain.User, error) {
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)
