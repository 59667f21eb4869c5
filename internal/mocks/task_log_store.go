package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MemoryTaskLogStore implements store.TaskLogStore on a MemoryDB.
type MemoryTaskLogStore struct {
	db *MemoryDB
}

// NewMemoryTaskLogStore returns an audit log store backed by db.
func NewMemoryTaskLogStore(db *MemoryDB) *MemoryTaskLogStore {
	return &MemoryTaskLogStore{db: db}
}

func (s *MemoryTaskLogStore) Create(ctx context.Context, entry *domain.TaskLog) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("task_logs.create"); err != nil {
		return err
	}
	if _, ok := s.db.tasks[entry.TaskID]; !ok {
		return store.ErrInvalidEntity
	}
	entry.ID = s.db.id()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.db.logs[entry.ID] = *entry
	return nil
}

func (s *MemoryTaskLogStore) GetByID(ctx context.Context, id int64) (*domain.TaskLogDetails, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("task_logs.get"); err != nil {
		return nil, err
	}
	l, ok := s.db.logs[id]
	if !ok {
		return nil, store.ErrTaskLogNotFound
	}
	return &domain.TaskLogDetails{TaskLog: l, Task: s.db.details(s.db.tasks[l.TaskID])}, nil
}

func (s *MemoryTaskLogStore) List(ctx context.Context, filter store.TaskLogFilter) ([]domain.TaskLogDetails, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("task_logs.list"); err != nil {
		return nil, err
	}

	out := []domain.TaskLogDetails{}
	for _, l := range s.db.logs {
		if filter.TaskID != 0 && l.TaskID != filter.TaskID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, domain.TaskLogDetails{TaskLog: l, Task: s.db.details(s.db.tasks[l.TaskID])})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryTaskLogStore) WithTx(*sql.Tx) store.TaskLogStore {
	return s
}

var _ store.TaskLogStore = (*MemoryTaskLogStore)(nil)
