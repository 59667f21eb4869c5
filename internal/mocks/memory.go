package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MemoryDB is the shared state behind the Memory*Store types.
type MemoryDB struct {
	mu sync.Mutex

	users      map[uuid.UUID]domain.User
	statuses   map[int64]domain.Status
	categories map[int64]domain.Category
	tasks      map[int64]domain.Task
	logs       map[int64]domain.TaskLog

	nextID   int64
	failures map[string]error
}

// NewMemoryDB returns an empty database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:      make(map[uuid.UUID]domain.User),
		statuses:   make(map[int64]domain.Status),
		categories: make(map[int64]domain.Category),
		tasks:      make(map[int64]domain.Task),
		logs:       make(map[int64]domain.TaskLog),
		failures:   make(map[string]error),
	}
}

// FailOn makes the named operation return err until cleared with a nil err.
// Names have the form "<table>.<method>", e.g. "tasks.update".
func (db *MemoryDB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.failures, op)
		return
	}
	db.failures[op] = err
}

// fail must be called with mu held.
func (db *MemoryDB) fail(op string) error {
	return db.failures[op]
}

// id must be called with mu held. IDs are unique across all tables.
func (db *MemoryDB) id() int64 {
	db.nextID++
	return db.nextID
}

// TaskLogs returns a copy of every audit entry in insertion order.
func (db *MemoryDB) TaskLogs() []domain.TaskLog {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]domain.TaskLog, 0, len(db.logs))
	for id := int64(1); id <= db.nextID; id++ {
		if l, ok := db.logs[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// TaskCount returns the number of stored tasks, deleted ones included.
func (db *MemoryDB) TaskCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.tasks)
}

type memorySnapshot struct {
	users      map[uuid.UUID]domain.User
	statuses   map[int64]domain.Status
	categories map[int64]domain.Category
	tasks      map[int64]domain.Task
	logs       map[int64]domain.TaskLog
	nextID     int64
}

func (db *MemoryDB) snapshot() memorySnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memorySnapshot{
		users:      cloneMap(db.users),
		statuses:   cloneMap(db.statuses),
		categories: cloneMap(db.categories),
		tasks:      cloneMap(db.tasks),
		logs:       cloneMap(db.logs),
		nextID:     db.nextID,
	}
}

func (db *MemoryDB) restore(s memorySnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.statuses = s.statuses
	db.categories = s.categories
	db.tasks = s.tasks
	db.logs = s.logs
	db.nextID = s.nextID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MemoryTransactor implements store.Transactor over a MemoryDB. A failed
// unit of work restores the database to its state before the call.
// Units of work are serialized.
type MemoryTransactor struct {
	db *MemoryDB
	mu sync.Mutex

	// BeginErr, when set, is returned before fn runs.
	BeginErr error
	// Commits and Rollbacks count finished units of work.
	Commits   int
	Rollbacks int
}

// NewMemoryTransactor returns a Transactor for db.
func NewMemoryTransactor(db *MemoryDB) *MemoryTransactor {
	return &MemoryTransactor{db: db}
}

// RunInTx implements store.Transactor. fn receives a nil *sql.Tx, which the
// memory stores ignore in WithTx.
func (t *MemoryTransactor) RunInTx(ctx context.Context, fn store.TxFn) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.BeginErr != nil {
		return fmt.Errorf("failed to begin transaction: %w", t.BeginErr)
	}

	snap := t.db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			t.db.restore(snap)
			t.Rollbacks++
			panic(p)
		}
		if err != nil {
			t.db.restore(snap)
			t.Rollbacks++
			return
		}
		t.Commits++
	}()

	return fn(ctx, (*sql.Tx)(nil))
}

var _ store.Transactor = (*MemoryTransactor)(nil)
