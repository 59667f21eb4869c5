package mocks

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MemoryTaskStore implements store.TaskStore on a MemoryDB.
type MemoryTaskStore struct {
	db *MemoryDB
	// now stamps CreatedAt. Tests override it to control ordering.
	now func() time.Time
}

// NewMemoryTaskStore returns a task store backed by db.
func NewMemoryTaskStore(db *MemoryDB) *MemoryTaskStore {
	return &MemoryTaskStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the function used to stamp new tasks.
func (s *MemoryTaskStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *MemoryTaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("tasks.create"); err != nil {
		return err
	}
	if err := s.checkRefs(task); err != nil {
		return err
	}
	if s.titleTaken(task.OwnerID, task.Title, 0) {
		return store.ErrTaskTitleExists
	}

	task.ID = s.db.id()
	task.CreatedAt = s.now()
	s.db.tasks[task.ID] = *task
	return nil
}

func (s *MemoryTaskStore) GetByID(ctx context.Context, id int64, scope store.TaskScope) (*domain.TaskDetails, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("tasks.get"); err != nil {
		return nil, err
	}
	t, ok := s.db.tasks[id]
	if !ok || !scope.Allows(&t) {
		return nil, store.ErrTaskNotFound
	}
	d := s.db.details(t)
	return &d, nil
}

func (s *MemoryTaskStore) List(ctx context.Context, scope store.TaskScope, filter store.TaskFilter) ([]domain.TaskDetails, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("tasks.list"); err != nil {
		return nil, err
	}

	out := []domain.TaskDetails{}
	for _, t := range s.db.tasks {
		if !scope.Allows(&t) {
			continue
		}
		if filter.StatusID != nil && t.StatusID != *filter.StatusID {
			continue
		}
		if filter.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, s.db.details(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryTaskStore) TitleExists(ctx context.Context, ownerID uuid.UUID, title string, excludeID int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("tasks.title_exists"); err != nil {
		return false, err
	}
	return s.titleTaken(ownerID, title, excludeID), nil
}

func (s *MemoryTaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("tasks.update"); err != nil {
		return err
	}
	current, ok := s.db.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if err := s.checkRefs(task); err != nil {
		return err
	}
	if s.titleTaken(current.OwnerID, task.Title, task.ID) {
		return store.ErrTaskTitleExists
	}

	current.Title = task.Title
	current.Description = task.Description
	current.StatusID = task.StatusID
	current.CategoryID = task.CategoryID
	s.db.tasks[task.ID] = current
	return nil
}

func (s *MemoryTaskStore) MarkDeleted(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("tasks.delete"); err != nil {
		return err
	}
	t, ok := s.db.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	t.IsDeleted = true
	s.db.tasks[id] = t
	return nil
}

func (s *MemoryTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return s
}

// checkRefs stands in for the foreign keys. Must be called with mu held.
func (s *MemoryTaskStore) checkRefs(t *domain.Task) error {
	if _, ok := s.db.users[t.OwnerID]; !ok {
		return store.ErrInvalidEntity
	}
	if _, ok := s.db.statuses[t.StatusID]; !ok {
		return store.ErrInvalidEntity
	}
	if t.CategoryID != nil {
		if _, ok := s.db.categories[*t.CategoryID]; !ok {
			return store.ErrInvalidEntity
		}
	}
	return nil
}

// titleTaken must be called with mu held.
func (s *MemoryTaskStore) titleTaken(owner uuid.UUID, title string, except int64) bool {
	for _, t := range s.db.tasks {
		if t.ID != except && t.OwnerID == owner && t.Title == title {
			return true
		}
	}
	return false
}

// details resolves the joins of t. Must be called with mu held.
func (db *MemoryDB) details(t domain.Task) domain.TaskDetails {
	d := domain.TaskDetails{
		Task:   t,
		Owner:  db.users[t.OwnerID],
		Status: db.statuses[t.StatusID],
	}
	if t.CategoryID != nil {
		if c, ok := db.categories[*t.CategoryID]; ok {
			d.Category = &c
		}
	}
	return d
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)
