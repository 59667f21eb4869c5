package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskLogFilter narrows an audit log listing. Zero fields do not filter.
type TaskLogFilter struct {
	TaskID int64
	Action domain.TaskAction
}

// TaskLogStore persists the append-only audit trail of task mutations.
// Entries are never updated or deleted.
type TaskLogStore interface {
	// Create appends entry and sets its ID.
	Create(ctx context.Context, entry *domain.TaskLog) error

	// GetByID returns ErrTaskLogNotFound if no entry has the ID.
	GetByID(ctx context.Context, id int64) (*domain.TaskLogDetails, error)

	// List returns entries matching filter, newest first.
	List(ctx context.Context, filter TaskLogFilter) ([]domain.TaskLogDetails, error)

	WithTx(tx *sql.Tx) TaskLogStore
}
