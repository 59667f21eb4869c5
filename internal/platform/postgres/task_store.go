package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// taskDetailsColumns selects a task with its owner, status and category.
// scanTaskRow expects exactly this column order.
const taskDetailsColumns = `
	t.id, t.title, t.description, t.user_id, t.status_id, t.category_id, t.is_deleted, t.created_at,
	u.email, u.role, u.is_staff,
	s.name,
	c.name`

const taskDetailsJoins = `
	JOIN users u ON u.id = t.user_id
	JOIN statuses s ON s.id = t.status_id
	LEFT JOIN categories c ON c.id = t.category_id`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// taskRow holds the nullable columns of a task details query.
type taskRow struct {
	details      domain.TaskDetails
	ownerRole    string
	categoryName sql.NullString
}

func (r *taskRow) dest() []any {
	d := &r.details
	return []any{
		&d.ID, &d.Title, &d.Description, &d.OwnerID, &d.StatusID, &d.CategoryID, &d.IsDeleted, &d.CreatedAt,
		&d.Owner.Email, &r.ownerRole, &d.Owner.IsStaff,
		&d.Status.Name,
		&r.categoryName,
	}
}

func (r *taskRow) toDomain() domain.TaskDetails {
	d := r.details
	d.Owner.ID = d.OwnerID
	d.Owner.Role = domain.Role(r.ownerRole)
	d.Status.ID = d.StatusID
	if d.CategoryID != nil && r.categoryName.Valid {
		d.Category = &domain.Category{ID: *d.CategoryID, Name: r.categoryName.String}
	}
	return d
}

func scanTaskRow(sc rowScanner, extra ...any) (domain.TaskDetails, error) {
	var row taskRow
	if err := sc.Scan(append(extra, row.dest()...)...); err != nil {
		return domain.TaskDetails{}, err
	}
	return row.toDomain(), nil
}

// whereClause collects SQL conditions with positional arguments.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereClause) addScope(scope store.TaskScope) {
	if scope.OwnerID != uuid.Nil {
		w.add("t.user_id = $%d", scope.OwnerID)
	}
	if scope.ExcludeDeleted {
		w.conds = append(w.conds, "NOT t.is_deleted")
	}
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (title, description, user_id, status_id, category_id, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.OwnerID,
		task.StatusID,
		task.CategoryID,
		task.IsDeleted,
		task.CreatedAt,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate task title", slog.String("user_id", task.OwnerID.String()))
			return store.ErrTaskTitleExists
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", task.OwnerID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64, scope store.TaskScope) (*domain.TaskDetails, error) {
	var where whereClause
	where.add("t.id = $%d", id)
	where.addScope(scope)

	query := "SELECT " + taskDetailsColumns + " FROM tasks t" + taskDetailsJoins + where.String()

	details, err := scanTaskRow(s.db.QueryRowContext(ctx, query, where.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}
	return &details, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, scope store.TaskScope, filter store.TaskFilter) ([]domain.TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var where whereClause
	where.addScope(scope)
	if filter.StatusID != nil {
		where.add("t.status_id = $%d", *filter.StatusID)
	}
	if filter.CategoryID != nil {
		where.add("t.category_id = $%d", *filter.CategoryID)
	}

	query := "SELECT " + taskDetailsColumns + " FROM tasks t" + taskDetailsJoins + where.String() +
		" ORDER BY t.created_at DESC, t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []domain.TaskDetails{}
	for rows.Next() {
		details, err := scanTaskRow(rows)
		if err != nil {
			log.Error("failed to scan task", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, details)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// TitleExists implements store.TaskStore.TitleExists
func (s *PostgresTaskStore) TitleExists(ctx context.Context, ownerID uuid.UUID, title string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tasks WHERE user_id = $1 AND title = $2 AND id <> $3)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, ownerID, title, excludeID).Scan(&exists); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check task title",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return false, MapError(err)
	}
	return exists, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status_id = $3, category_id = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.StatusID,
		task.CategoryID,
		task.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrTaskTitleExists
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated", slog.Int64("task_id", task.ID))
	return nil
}

// MarkDeleted implements store.TaskStore.MarkDeleted
func (s *PostgresTaskStore) MarkDeleted(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE tasks SET is_deleted = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task marked deleted", slog.Int64("task_id", id))
	return nil
}
