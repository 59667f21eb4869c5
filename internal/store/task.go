package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskScope restricts which task rows a query may see.
// The zero value sees every row, including deleted ones.
type TaskScope struct {
	OwnerID        uuid.UUID // uuid.Nil means any owner
	ExcludeDeleted bool
}

// All reports whether the scope is unrestricted.
func (s TaskScope) All() bool {
	return s.OwnerID == uuid.Nil && !s.ExcludeDeleted
}

// Allows reports whether task falls inside the scope.
func (s TaskScope) Allows(task *domain.Task) bool {
	if task == nil {
		return false
	}
	if s.OwnerID != uuid.Nil && task.OwnerID != s.OwnerID {
		return false
	}
	return !(s.ExcludeDeleted && task.IsDeleted)
}

// TaskFilter narrows a task listing. Nil fields do not filter.
type TaskFilter struct {
	StatusID   *int64
	CategoryID *int64
}

// TaskStore persists tasks. Reads return tasks joined with owner, status and
// category, newest first.
type TaskStore interface {
	// Create inserts the task and sets its ID and CreatedAt.
	// Returns ErrTaskTitleExists if the owner already has a task with that title.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound when the task does not exist or is outside scope.
	GetByID(ctx context.Context, id int64, scope TaskScope) (*domain.TaskDetails, error)

	// List returns the tasks in scope matching filter, ordered by created_at
	// and then id, both descending.
	List(ctx context.Context, scope TaskScope, filter TaskFilter) ([]domain.TaskDetails, error)

	// TitleExists reports whether owner has a task titled title other than excludeID.
	// Deleted tasks count. Pass 0 to check all of the owner's tasks.
	TitleExists(ctx context.Context, ownerID uuid.UUID, title string, excludeID int64) (bool, error)

	// Update writes the mutable fields: title, description, status and category.
	Update(ctx context.Context, task *domain.Task) error

	// MarkDeleted sets is_deleted on the task. Returns ErrTaskNotFound if it does not exist.
	MarkDeleted(ctx context.Context, id int64) error

	WithTx(tx *sql.Tx) TaskStore
}
