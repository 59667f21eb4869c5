package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// VocabularyRepository is the subset of store.StatusStore and
// store.CategoryStore the vocabulary service needs.
type VocabularyRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int64) error
}

// VocabularyService manages one admin-curated vocabulary (statuses or
// categories). Any authenticated user may read; only admins may write.
type VocabularyService[T any] struct {
	repo     VocabularyRepository[T]
	entity   string
	notFound error
	build    func(id int64, name string) *T
	logger   *slog.Logger
}

// StatusService manages the task status vocabulary.
type StatusService = VocabularyService[domain.Status]

// CategoryService manages the task category vocabulary.
type CategoryService = VocabularyService[domain.Category]

// NewStatusService creates the status vocabulary service.
func NewStatusService(statuses store.StatusStore, logger *slog.Logger) *StatusService {
	return newVocabularyService[domain.Status](statuses, "status", ErrStatusNotFound,
		func(id int64, name string) *domain.Status { return &domain.Status{ID: id, Name: name} },
		logger)
}

// NewCategoryService creates the category vocabulary service.
func NewCategoryService(categories store.CategoryStore, logger *slog.Logger) *CategoryService {
	return newVocabularyService[domain.Category](categories, "category", ErrCategoryNotFound,
		func(id int64, name string) *domain.Category { return &domain.Category{ID: id, Name: name} },
		logger)
}

func newVocabularyService[T any](
	repo VocabularyRepository[T],
	entity string,
	notFound error,
	build func(id int64, name string) *T,
	logger *slog.Logger,
) *VocabularyService[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabularyService[T]{
		repo:     repo,
		entity:   entity,
		notFound: notFound,
		build:    build,
		logger:   logger.With(slog.String("component", entity+"_service")),
	}
}

// List returns every entry ordered by ID.
func (s *VocabularyService[T]) List(ctx context.Context, actor *domain.User) ([]T, error) {
	if err := authz.Require(actor, authz.Authenticated); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.mapError("list", err)
	}
	return items, nil
}

// Get returns a single entry.
func (s *VocabularyService[T]) Get(ctx context.Context, actor *domain.User, id int64) (*T, error) {
	if err := authz.Require(actor, authz.Authenticated); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("get", err)
	}
	return item, nil
}

// Create adds an entry named name.
func (s *VocabularyService[T]) Create(ctx context.Context, actor *domain.User, name string) (*T, error) {
	if err := authz.Require(actor, authz.IsAdmin); err != nil {
		return nil, err
	}
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	item := s.build(0, name)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, s.mapError("create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info(s.entity+" created",
		slog.String("name", name),
		slog.String("user_id", actor.ID.String()))
	return item, nil
}

// Update renames the entry.
func (s *VocabularyService[T]) Update(ctx context.Context, actor *domain.User, id int64, name string) (*T, error) {
	if err := authz.Require(actor, authz.IsAdmin); err != nil {
		return nil, err
	}
	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	item := s.build(id, name)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, s.mapError("update", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info(s.entity+" updated",
		slog.Int64("id", id),
		slog.String("name", name))
	return item, nil
}

// Delete removes the entry. Statuses still used by a task are refused with
// ErrInUse; deleting a category leaves its tasks uncategorized.
func (s *VocabularyService[T]) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := authz.Require(actor, authz.IsAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("delete", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info(s.entity+" deleted", slog.Int64("id", id))
	return nil
}

func (s *VocabularyService[T]) mapError(op string, err error) error {
	switch {
	case store.IsNotFoundError(err):
		return s.notFound
	case errors.Is(err, store.ErrNameExists):
		return ErrDuplicateName
	case errors.Is(err, store.ErrInUse):
		return ErrInUse
	default:
		return NewServiceError(s.entity, op, "store operation failed", err)
	}
}
