package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// PostgresTaskLogStore implements store.TaskLogStore over the task_logs table.
type PostgresTaskLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskLogStore creates a new PostgreSQL implementation of the TaskLogStore interface.
func NewPostgresTaskLogStore(db store.DBTX, logger *slog.Logger) *PostgresTaskLogStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_log_store")),
	}
}

var _ store.TaskLogStore = (*PostgresTaskLogStore)(nil)

// WithTx implements store.TaskLogStore.WithTx
func (s *PostgresTaskLogStore) WithTx(tx *sql.Tx) store.TaskLogStore {
	return &PostgresTaskLogStore{db: tx, logger: s.logger}
}

// Create implements store.TaskLogStore.Create
func (s *PostgresTaskLogStore) Create(ctx context.Context, entry *domain.TaskLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO task_logs (task_id, action, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, entry.TaskID, string(entry.Action), entry.Timestamp).Scan(&entry.ID)
	if err != nil {
		log.Error("failed to append task log",
			slog.String("error", err.Error()),
			slog.Int64("task_id", entry.TaskID),
			slog.String("action", string(entry.Action)))
		return MapError(err)
	}

	log.Debug("task log appended",
		slog.Int64("log_id", entry.ID),
		slog.Int64("task_id", entry.TaskID),
		slog.String("action", string(entry.Action)))
	return nil
}

const taskLogSelect = "SELECT l.id, l.task_id, l.action, l.timestamp, " + taskDetailsColumns +
	" FROM task_logs l JOIN tasks t ON t.id = l.task_id" + taskDetailsJoins

func scanTaskLog(sc rowScanner) (domain.TaskLogDetails, error) {
	var entry domain.TaskLogDetails
	var action string
	details, err := scanTaskRow(sc, &entry.ID, &entry.TaskID, &action, &entry.Timestamp)
	if err != nil {
		return entry, err
	}
	entry.Action = domain.TaskAction(action)
	entry.Task = details
	return entry, nil
}

// GetByID implements store.TaskLogStore.GetByID
func (s *PostgresTaskLogStore) GetByID(ctx context.Context, id int64) (*domain.TaskLogDetails, error) {
	entry, err := scanTaskLog(s.db.QueryRowContext(ctx, taskLogSelect+" WHERE l.id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskLogNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task log",
			slog.String("error", err.Error()),
			slog.Int64("log_id", id))
		return nil, MapError(err)
	}
	return &entry, nil
}

// List implements store.TaskLogStore.List
func (s *PostgresTaskLogStore) List(ctx context.Context, filter store.TaskLogFilter) ([]domain.TaskLogDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var where whereClause
	if filter.TaskID != 0 {
		where.add("l.task_id = $%d", filter.TaskID)
	}
	if filter.Action != "" {
		where.add("l.action = $%d", string(filter.Action))
	}

	rows, err := s.db.QueryContext(ctx, taskLogSelect+where.String()+" ORDER BY l.timestamp DESC, l.id DESC", where.args...)
	if err != nil {
		log.Error("failed to list task logs", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.TaskLogDetails{}
	for rows.Next() {
		entry, err := scanTaskLog(rows)
		if err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}
