package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MemoryStatusStore implements store.StatusStore on a MemoryDB.
type MemoryStatusStore struct {
	db *MemoryDB
}

// NewMemoryStatusStore returns a status store backed by db.
func NewMemoryStatusStore(db *MemoryDB) *MemoryStatusStore {
	return &MemoryStatusStore{db: db}
}

func (s *MemoryStatusStore) Create(ctx context.Context, status *domain.Status) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("statuses.create"); err != nil {
		return err
	}
	if nameTaken(s.db.statuses, status.Name, 0) {
		return store.ErrNameExists
	}
	status.ID = s.db.id()
	s.db.statuses[status.ID] = *status
	return nil
}

func (s *MemoryStatusStore) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("statuses.get"); err != nil {
		return nil, err
	}
	st, ok := s.db.statuses[id]
	if !ok {
		return nil, store.ErrStatusNotFound
	}
	return &st, nil
}

func (s *MemoryStatusStore) GetByName(ctx context.Context, name string) (*domain.Status, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("statuses.get"); err != nil {
		return nil, err
	}
	for _, st := range sortedValues(s.db.statuses) {
		if strings.EqualFold(st.Name, name) {
			return &st, nil
		}
	}
	return nil, store.ErrStatusNotFound
}

func (s *MemoryStatusStore) List(ctx context.Context) ([]domain.Status, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("statuses.list"); err != nil {
		return nil, err
	}
	return sortedValues(s.db.statuses), nil
}

func (s *MemoryStatusStore) Update(ctx context.Context, status *domain.Status) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("statuses.update"); err != nil {
		return err
	}
	if _, ok := s.db.statuses[status.ID]; !ok {
		return store.ErrStatusNotFound
	}
	if nameTaken(s.db.statuses, status.Name, status.ID) {
		return store.ErrNameExists
	}
	s.db.statuses[status.ID] = *status
	return nil
}

// Delete refuses to remove a status that any task references, matching the
// RESTRICT foreign key.
func (s *MemoryStatusStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("statuses.delete"); err != nil {
		return err
	}
	if _, ok := s.db.statuses[id]; !ok {
		return store.ErrStatusNotFound
	}
	for _, t := range s.db.tasks {
		if t.StatusID == id {
			return store.ErrInUse
		}
	}
	delete(s.db.statuses, id)
	return nil
}

func (s *MemoryStatusStore) WithTx(*sql.Tx) store.StatusStore {
	return s
}

// MemoryCategoryStore implements store.CategoryStore on a MemoryDB.
type MemoryCategoryStore struct {
	db *MemoryDB
}

// NewMemoryCategoryStore returns a category store backed by db.
func NewMemoryCategoryStore(db *MemoryDB) *MemoryCategoryStore {
	return &MemoryCategoryStore{db: db}
}

func (s *MemoryCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("categories.create"); err != nil {
		return err
	}
	if nameTaken(s.db.categories, category.Name, 0) {
		return store.ErrNameExists
	}
	category.ID = s.db.id()
	s.db.categories[category.ID] = *category
	return nil
}

func (s *MemoryCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("categories.get"); err != nil {
		return nil, err
	}
	c, ok := s.db.categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *MemoryCategoryStore) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range sortedValues(s.db.categories) {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, store.ErrCategoryNotFound
}

func (s *MemoryCategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("categories.list"); err != nil {
		return nil, err
	}
	return sortedValues(s.db.categories), nil
}

func (s *MemoryCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.categories[category.ID]; !ok {
		return store.ErrCategoryNotFound
	}
	if nameTaken(s.db.categories, category.Name, category.ID) {
		return store.ErrNameExists
	}
	s.db.categories[category.ID] = *category
	return nil
}

// Delete clears the category on referencing tasks, matching ON DELETE SET NULL.
func (s *MemoryCategoryStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.fail("categories.delete"); err != nil {
		return err
	}
	if _, ok := s.db.categories[id]; !ok {
		return store.ErrCategoryNotFound
	}
	for tid, t := range s.db.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			s.db.tasks[tid] = t
		}
	}
	delete(s.db.categories, id)
	return nil
}

func (s *MemoryCategoryStore) WithTx(*sql.Tx) store.CategoryStore {
	return s
}

// AddStatus stores a status named name and returns it.
func (db *MemoryDB) AddStatus(name string) domain.Status {
	db.mu.Lock()
	defer db.mu.Unlock()
	st := domain.Status{ID: db.id(), Name: name}
	db.statuses[st.ID] = st
	return st
}

// AddCategory stores a category named name and returns it.
func (db *MemoryDB) AddCategory(name string) domain.Category {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := domain.Category{ID: db.id(), Name: name}
	db.categories[c.ID] = c
	return c
}

type named interface {
	domain.Status | domain.Category
}

func nameOf[T named](v T) (int64, string) {
	switch x := any(v).(type) {
	case domain.Status:
		return x.ID, x.Name
	case domain.Category:
		return x.ID, x.Name
	}
	return 0, ""
}

// nameTaken mirrors the exact-match UNIQUE constraint on name.
func nameTaken[T named](m map[int64]T, name string, except int64) bool {
	for _, v := range m {
		if id, n := nameOf(v); id != except && n == name {
			return true
		}
	}
	return false
}

func sortedValues[T named](m map[int64]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := nameOf(out[i])
		b, _ := nameOf(out[j])
		return a < b
	})
	return out
}

var (
	_ store.StatusStore   = (*MemoryStatusStore)(nil)
	_ store.CategoryStore = (*MemoryCategoryStore)(nil)
)
