package postgres_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "tasks",
		ColumnName:     "title",
		ConstraintName: constraint,
	}
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	unique := newPgError(pgerrcode.UniqueViolation, "tasks_user_id_title_key")
	fk := newPgError(pgerrcode.ForeignKeyViolation, "tasks_status_id_fkey")
	check := newPgError(pgerrcode.CheckViolation, "task_logs_action_check")
	notNull := newPgError(pgerrcode.NotNullViolation, "")
	generic := errors.New("generic error")

	tests := []struct {
		name  string
		check func(error) bool
		match error
	}{
		{"unique", postgres.IsUniqueViolation, unique},
		{"foreign key", postgres.IsForeignKeyViolation, fk},
		{"check", postgres.IsCheckConstraintViolation, check},
		{"not null", postgres.IsNotNullViolation, notNull},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.check(tt.match))
			assert.False(t, tt.check(nil))
			assert.False(t, tt.check(generic))
			for _, other := range []error{unique, fk, check, notNull} {
				if other != tt.match {
					assert.False(t, tt.check(other))
				}
			}
		})
	}

	assert.Equal(t, "tasks_status_id_fkey", postgres.ConstraintName(fk))
	assert.Empty(t, postgres.ConstraintName(generic))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		errIs  error
		errMsg string
	}{
		{"sql.ErrNoRows", sql.ErrNoRows, store.ErrNotFound, "entity not found"},
		{"unique violation", newPgError(pgerrcode.UniqueViolation, "x"), store.ErrDuplicate, "entity already exists"},
		{"foreign key violation", newPgError(pgerrcode.ForeignKeyViolation, "x"), store.ErrInvalidEntity, "foreign key violation"},
		{"check violation", newPgError(pgerrcode.CheckViolation, "x"), store.ErrInvalidEntity, "check constraint violation"},
		{"not null violation", newPgError(pgerrcode.NotNullViolation, ""), store.ErrInvalidEntity, "not null violation"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := postgres.MapError(tt.err)
			assert.ErrorIs(t, result, tt.errIs)
			assert.Contains(t, result.Error(), tt.errMsg)
		})
	}

	t.Run("passthrough", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, postgres.MapError(nil))

		undefinedTable := newPgError(pgerrcode.UndefinedTable, "")
		assert.Same(t, undefinedTable, postgres.MapError(undefinedTable))
	})
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError(pgerrcode.UniqueViolation, "tasks_user_id_title_key"), store.ErrTaskTitleExists)
	assert.ErrorIs(t, err, store.ErrTaskTitleExists)

	err = postgres.MapUniqueViolation(sql.ErrNoRows, store.ErrTaskTitleExists)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrTaskTitleExists)
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
	assert.ErrorIs(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrTaskNotFound), store.ErrTaskNotFound)
	assert.NoError(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrTaskNotFound))

	failing := sqlmock.NewErrorResult(errors.New("rows affected error"))
	err := postgres.CheckRowsAffected(failing, store.ErrTaskNotFound)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrTaskNotFound)
}
