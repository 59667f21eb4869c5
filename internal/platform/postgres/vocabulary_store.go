package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// vocabularyTable holds the queries shared by the statuses and categories
// tables, which both have the shape (id, name).
type vocabularyTable struct {
	db       store.DBTX
	table    string
	entity   string
	notFound error
	// onReferenced is returned when a delete is refused by a foreign key.
	onReferenced error
	logger       *slog.Logger
}

type vocabularyRow struct {
	ID   int64
	Name string
}

func newVocabularyTable(db store.DBTX, table, entity string, notFound, onReferenced error, log *slog.Logger) vocabularyTable {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return vocabularyTable{
		db:           db,
		table:        table,
		entity:       entity,
		notFound:     notFound,
		onReferenced: onReferenced,
		logger:       log.With(slog.String("component", entity+"_store")),
	}
}

func (v vocabularyTable) withTx(tx *sql.Tx) vocabularyTable {
	v.db = tx
	return v
}

func (v vocabularyTable) create(ctx context.Context, name string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)

	var id int64
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id`, v.table)
	if err := v.db.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return 0, store.ErrNameExists
		}
		log.Error("failed to create "+v.entity, slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Info(v.entity+" created", slog.Int64("id", id), slog.String("name", name))
	return id, nil
}

func (v vocabularyTable) getByID(ctx context.Context, id int64) (vocabularyRow, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, v.table)
	return v.getOne(ctx, query, id)
}

func (v vocabularyTable) getByName(ctx context.Context, name string) (vocabularyRow, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`, v.table)
	return v.getOne(ctx, query, name)
}

func (v vocabularyTable) getOne(ctx context.Context, query string, arg any) (vocabularyRow, error) {
	var row vocabularyRow
	if err := v.db.QueryRowContext(ctx, query, arg).Scan(&row.ID, &row.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, v.notFound
		}
		logger.FromContextOrDefault(ctx, v.logger).Error("failed to get "+v.entity,
			slog.String("error", err.Error()))
		return row, MapError(err)
	}
	return row, nil
}

func (v vocabularyTable) list(ctx context.Context) ([]vocabularyRow, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)

	rows, err := v.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, v.table))
	if err != nil {
		log.Error("failed to list "+v.table, slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	result := []vocabularyRow{}
	for rows.Next() {
		var row vocabularyRow
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, MapError(err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return result, nil
}

func (v vocabularyTable) update(ctx context.Context, id int64, name string) error {
	log := logger.FromContextOrDefault(ctx, v.logger)

	query := fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2`, v.table)
	result, err := v.db.ExecContext(ctx, query, name, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrNameExists
		}
		log.Error("failed to update "+v.entity,
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, v.notFound); err != nil {
		return err
	}

	log.Info(v.entity+" updated", slog.Int64("id", id), slog.String("name", name))
	return nil
}

func (v vocabularyTable) delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, v.logger)

	result, err := v.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, v.table), id)
	if err != nil {
		if IsForeignKeyViolation(err) && v.onReferenced != nil {
			log.Debug(v.entity+" still referenced by tasks", slog.Int64("id", id))
			return fmt.Errorf("%w: %v", v.onReferenced, err)
		}
		log.Error("failed to delete "+v.entity,
			slog.String("error", err.Error()),
			slog.Int64("id", id))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, v.notFound); err != nil {
		return err
	}

	log.Info(v.entity+" deleted", slog.Int64("id", id))
	return nil
}

// PostgresStatusStore implements store.StatusStore.
type PostgresStatusStore struct {
	t vocabularyTable
}

var _ store.StatusStore = (*PostgresStatusStore)(nil)

// NewPostgresStatusStore creates a StatusStore over the statuses table.
func NewPostgresStatusStore(db store.DBTX, logger *slog.Logger) *PostgresStatusStore {
	return &PostgresStatusStore{
		t: newVocabularyTable(db, "statuses", "status", store.ErrStatusNotFound, store.ErrInUse, logger),
	}
}

// WithTx implements store.StatusStore.WithTx
func (s *PostgresStatusStore) WithTx(tx *sql.Tx) store.StatusStore {
	return &PostgresStatusStore{t: s.t.withTx(tx)}
}

// Create implements store.StatusStore.Create
func (s *PostgresStatusStore) Create(ctx context.Context, status *domain.Status) error {
	id, err := s.t.create(ctx, status.Name)
	if err != nil {
		return err
	}
	status.ID = id
	return nil
}

// GetByID implements store.StatusStore.GetByID
func (s *PostgresStatusStore) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	row, err := s.t.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Status{ID: row.ID, Name: row.Name}, nil
}

// GetByName implements store.StatusStore.GetByName
func (s *PostgresStatusStore) GetByName(ctx context.Context, name string) (*domain.Status, error) {
	row, err := s.t.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &domain.Status{ID: row.ID, Name: row.Name}, nil
}

// List implements store.StatusStore.List
func (s *PostgresStatusStore) List(ctx context.Context) ([]domain.Status, error) {
	rows, err := s.t.list(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]domain.Status, len(rows))
	for i, row := range rows {
		statuses[i] = domain.Status{ID: row.ID, Name: row.Name}
	}
	return statuses, nil
}

// Update implements store.StatusStore.Update
func (s *PostgresStatusStore) Update(ctx context.Context, status *domain.Status) error {
	return s.t.update(ctx, status.ID, status.Name)
}

// Delete implements store.StatusStore.Delete
func (s *PostgresStatusStore) Delete(ctx context.Context, id int64) error {
	return s.t.delete(ctx, id)
}

// PostgresCategoryStore implements store.CategoryStore. Deleting a category
// leaves its tasks uncategorized through ON DELETE SET NULL.
type PostgresCategoryStore struct {
	t vocabularyTable
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// NewPostgresCategoryStore creates a CategoryStore over the categories table.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	return &PostgresCategoryStore{
		t: newVocabularyTable(db, "categories", "category", store.ErrCategoryNotFound, nil, logger),
	}
}

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{t: s.t.withTx(tx)}
}

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	id, err := s.t.create(ctx, category.Name)
	if err != nil {
		return err
	}
	category.ID = id
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	row, err := s.t.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: row.ID, Name: row.Name}, nil
}

// GetByName implements store.CategoryStore.GetByName
func (s *PostgresCategoryStore) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	row, err := s.t.getByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: row.ID, Name: row.Name}, nil
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.t.list(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, len(rows))
	for i, row := range rows {
		categories[i] = domain.Category{ID: row.ID, Name: row.Name}
	}
	return categories, nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	return s.t.update(ctx, category.ID, category.Name)
}

// Delete implements store.CategoryStore.Delete
func (s *PostgresCategoryStore) Delete(ctx context.Context, id int64) error {
	return s.t.delete(ctx, id)
}
