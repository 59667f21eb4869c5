package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// StatusStore persists the task status vocabulary.
type StatusStore interface {
	// Create inserts a status and sets its ID. Returns ErrNameExists on a duplicate name.
	Create(ctx context.Context, status *domain.Status) error
	// GetByID returns ErrStatusNotFound if no status has the ID.
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
	// GetByName matches the name case-insensitively.
	GetByName(ctx context.Context, name string) (*domain.Status, error)
	// List returns every status ordered by ID.
	List(ctx context.Context) ([]domain.Status, error)
	Update(ctx context.Context, status *domain.Status) error
	// Delete returns ErrInUse if any task references the status.
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) StatusStore
}

// CategoryStore persists the task category vocabulary.
type CategoryStore interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete clears the category on every task that referenced it.
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) CategoryStore
}
