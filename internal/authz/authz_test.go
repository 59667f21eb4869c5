package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	client := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
	staff := &domain.User{ID: uuid.New(), Role: domain.RoleClient, IsStaff: true}

	tests := []struct {
		name    string
		user    *domain.User
		cap     Capability
		wantErr error
	}{
		{"anonymous on authenticated", nil, Authenticated, ErrAuthenticationRequired},
		{"anonymous on admin", nil, IsAdmin, ErrAuthenticationRequired},
		{"client on admin", client, IsAdmin, ErrForbidden},
		{"admin on admin", admin, IsAdmin, nil},
		{"staff on admin", staff, IsAdmin, nil},
		{"client on authenticated", client, Authenticated, nil},
		{"admin on client", admin, IsClient, ErrForbidden},
		{"admin on any of", admin, AnyOf(IsAdmin, IsClient), nil},
		{"client on any of", client, AnyOf(IsAdmin, IsClient), nil},
		{"empty any of", client, AnyOf(), ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Require(tc.user, tc.cap)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCanAccessTask(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleClient}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	live := &domain.Task{ID: 1, OwnerID: owner.ID}
	deleted := &domain.Task{ID: 2, OwnerID: owner.ID, IsDeleted: true}

	assert.True(t, CanAccessTask(owner, live))
	assert.False(t, CanAccessTask(owner, deleted), "clients never see deleted tasks")
	assert.False(t, CanAccessTask(stranger, live))
	assert.True(t, CanAccessTask(admin, live))
	assert.True(t, CanAccessTask(admin, deleted))
	assert.False(t, CanAccessTask(nil, live))
	assert.False(t, CanAccessTask(admin, nil))
}

func TestVisibleTasks(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	client := &domain.User{ID: uuid.New(), Role: domain.RoleClient}

	assert.True(t, VisibleTasks(admin).All())

	scope := VisibleTasks(client)
	assert.Equal(t, client.ID, scope.OwnerID)
	assert.True(t, scope.ExcludeDeleted)

	nobody := VisibleTasks(nil)
	assert.False(t, nobody.Allows(&domain.Task{OwnerID: client.ID}))
}
