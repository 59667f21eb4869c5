// Package authz holds the access rules of the task tracker: who may mutate
// the vocabularies, who may read the audit log, and which tasks a user can see.
package authz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

var (
	// ErrAuthenticationRequired is returned when no principal is present.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrForbidden is returned when the principal lacks the required capability.
	ErrForbidden = errors.New("permission denied")
)

// Capability is a predicate over an authenticated principal.
type Capability func(u *domain.User) bool

// IsAdmin grants access to admins and staff users.
func IsAdmin(u *domain.User) bool { return u.IsAdmin() }

// IsClient grants access to users holding the client role.
func IsClient(u *domain.User) bool { return u.IsClient() }

// Authenticated grants access to any principal.
func Authenticated(u *domain.User) bool { return u != nil }

// AnyOf grants access when at least one of caps does.
func AnyOf(caps ...Capability) Capability {
	return func(u *domain.User) bool {
		for _, c := range caps {
			if c(u) {
				return true
			}
		}
		return false
	}
}

// Require checks c against u. A nil principal always yields
// ErrAuthenticationRequired, a failing capability ErrForbidden.
func Require(u *domain.User, c Capability) error {
	if u == nil {
		return ErrAuthenticationRequired
	}
	if !c(u) {
		return ErrForbidden
	}
	return nil
}

// CanAccessTask reports whether u may read or change task. Admins reach every
// task; clients only their own tasks that are not deleted.
func CanAccessTask(u *domain.User, task *domain.Task) bool {
	if u == nil || task == nil {
		return false
	}
	return VisibleTasks(u).Allows(task)
}

// VisibleTasks returns the row scope u is allowed to see.
func VisibleTasks(u *domain.User) store.TaskScope {
	if u.IsAdmin() {
		return store.TaskScope{}
	}
	if u == nil {
		// No user owns uuid.Max, so the scope matches nothing.
		return store.TaskScope{OwnerID: uuid.Max, ExcludeDeleted: true}
	}
	return store.TaskScope{OwnerID: u.ID, ExcludeDeleted: true}
}
