package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskInput is the payload of a task creation.
type TaskInput struct {
	Title       string
	Description *string
	CategoryID  *int64
	// StatusID is accepted for payload compatibility and ignored: new tasks
	// always start in the pending status.
	StatusID *int64
}

// Field is an optional update value. Set distinguishes a field sent as null
// (Set with a nil Value) from a field that was not sent at all.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Value returns a Field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// TaskUpdate describes a change to an existing task.
//
// A full update (Partial false) requires Title and replaces Description and
// CategoryID, treating absent as null; an absent StatusID keeps the current
// status. A partial update only touches the fields that are Set.
type TaskUpdate struct {
	Partial     bool
	Title       Field[string]
	Description Field[string]
	StatusID    Field[int64]
	CategoryID  Field[int64]
}

// TaskService manages tasks and records an audit entry for every mutation.
type TaskService interface {
	// Create adds a task owned by actor in the pending status.
	Create(ctx context.Context, actor *domain.User, in TaskInput) (*domain.TaskDetails, error)

	// List returns the tasks actor may see matching filter, newest first.
	List(ctx context.Context, actor *domain.User, filter store.TaskFilter) ([]domain.TaskDetails, error)

	// Get returns ErrTaskNotFound for tasks outside actor's scope.
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.TaskDetails, error)

	// Update applies u to the task and logs UPDATED.
	Update(ctx context.Context, actor *domain.User, id int64, u TaskUpdate) (*domain.TaskDetails, error)

	// Delete marks the task deleted and logs DELETED. Deleting a task that is
	// already deleted succeeds without a new log entry.
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

// canUseTasks is the capability required by every task operation.
var canUseTasks = authz.AnyOf(authz.IsAdmin, authz.IsClient)

type taskServiceImpl struct {
	tx         store.Transactor
	tasks      store.TaskStore
	logs       store.TaskLogStore
	statuses   store.StatusStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewTaskService creates a TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tx store.Transactor,
	tasks store.TaskStore,
	logs store.TaskLogStore,
	statuses store.StatusStore,
	categories store.CategoryStore,
	logger *slog.Logger,
) (TaskService, error) {
	switch {
	case tx == nil:
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	case tasks == nil:
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	case logs == nil:
		return nil, domain.NewValidationError("logs", "cannot be nil", domain.ErrValidation)
	case statuses == nil:
		return nil, domain.NewValidationError("statuses", "cannot be nil", domain.ErrValidation)
	case categories == nil:
		return nil, domain.NewValidationError("categories", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tx:         tx,
		tasks:      tasks,
		logs:       logs,
		statuses:   statuses,
		categories: categories,
		logger:     logger.With(slog.String("component", "task_service")),
	}, nil
}

// txStores are the stores bound to one transaction.
type txStores struct {
	tasks      store.TaskStore
	logs       store.TaskLogStore
	statuses   store.StatusStore
	categories store.CategoryStore
}

func (s *taskServiceImpl) bind(tx *sql.Tx) txStores {
	return txStores{
		tasks:      s.tasks.WithTx(tx),
		logs:       s.logs.WithTx(tx),
		statuses:   s.statuses.WithTx(tx),
		categories: s.categories.WithTx(tx),
	}
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, actor *domain.User, in TaskInput) (*domain.TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := authz.Require(actor, canUseTasks); err != nil {
		return nil, err
	}
	if err := domain.ValidateTitle(in.Title); err != nil {
		return nil, err
	}

	var created *domain.TaskDetails
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		st := s.bind(tx)

		pending, err := st.statuses.GetByName(ctx, domain.PendingStatusName)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrPendingStatusMissing
			}
			return NewServiceError("task", "create", "failed to look up pending status", err)
		}

		task, err := domain.NewTask(actor.ID, in.Title, in.Description, pending.ID, in.CategoryID)
		if err != nil {
			return err
		}

		if err := checkTitleFree(ctx, st.tasks, task, 0); err != nil {
			return err
		}
		if task.CategoryID != nil {
			if err := checkCategory(ctx, st.categories, *task.CategoryID); err != nil {
				return err
			}
		}

		if err := st.tasks.Create(ctx, task); err != nil {
			return mapTaskStoreError("create", err)
		}
		if err := appendLog(ctx, st.logs, task.ID, domain.ActionCreated); err != nil {
			return err
		}

		created, err = st.tasks.GetByID(ctx, task.ID, store.TaskScope{})
		if err != nil {
			return mapTaskStoreError("create", err)
		}
		return nil
	})
	if err != nil {
		logFailure(log, "failed to create task", err, slog.String("user_id", actor.ID.String()))
		return nil, err
	}

	log.Info("task created",
		slog.Int64("task_id", created.ID),
		slog.String("user_id", actor.ID.String()))
	return created, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, actor *domain.User, filter store.TaskFilter) ([]domain.TaskDetails, error) {
	if err := authz.Require(actor, canUseTasks); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, authz.VisibleTasks(actor), filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", actor.ID.String()))
		return nil, NewServiceError("task", "list", "failed to list tasks", err)
	}
	return tasks, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, actor *domain.User, id int64) (*domain.TaskDetails, error) {
	if err := authz.Require(actor, canUseTasks); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id, authz.VisibleTasks(actor))
	if err != nil {
		return nil, mapTaskStoreError("get", err)
	}
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(ctx context.Context, actor *domain.User, id int64, u TaskUpdate) (*domain.TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := authz.Require(actor, canUseTasks); err != nil {
		return nil, err
	}

	var updated *domain.TaskDetails
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		st := s.bind(tx)

		current, err := st.tasks.GetByID(ctx, id, authz.VisibleTasks(actor))
		if err != nil {
			return mapTaskStoreError("update", err)
		}

		task := current.Task
		if err := applyUpdate(&task, u); err != nil {
			return err
		}
		if err := task.Validate(); err != nil {
			return err
		}

		if task.Title != current.Title {
			if err := checkTitleFree(ctx, st.tasks, &task, task.ID); err != nil {
				return err
			}
		}
		if u.StatusID.Value != nil {
			if err := checkStatus(ctx, st.statuses, task.StatusID); err != nil {
				return err
			}
		}
		if u.CategoryID.Value != nil {
			if err := checkCategory(ctx, st.categories, *task.CategoryID); err != nil {
				return err
			}
		}

		if err := st.tasks.Update(ctx, &task); err != nil {
			return mapTaskStoreError("update", err)
		}
		if err := appendLog(ctx, st.logs, task.ID, domain.ActionUpdated); err != nil {
			return err
		}

		updated, err = st.tasks.GetByID(ctx, task.ID, store.TaskScope{})
		if err != nil {
			return mapTaskStoreError("update", err)
		}
		return nil
	})
	if err != nil {
		logFailure(log, "failed to update task", err, slog.Int64("task_id", id))
		return nil, err
	}

	log.Info("task updated",
		slog.Int64("task_id", id),
		slog.String("user_id", actor.ID.String()))
	return updated, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, actor *domain.User, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := authz.Require(actor, canUseTasks); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		st := s.bind(tx)

		current, err := st.tasks.GetByID(ctx, id, authz.VisibleTasks(actor))
		if err != nil {
			return mapTaskStoreError("delete", err)
		}

		task := current.Task
		if !task.MarkDeleted() {
			log.Debug("task already deleted", slog.Int64("task_id", id))
			return nil
		}

		if err := st.tasks.MarkDeleted(ctx, task.ID); err != nil {
			return mapTaskStoreError("delete", err)
		}
		// The deletion is recorded as DELETED only, never as an update.
		return appendLog(ctx, st.logs, task.ID, domain.ActionDeleted)
	})
	if err != nil {
		logFailure(log, "failed to delete task", err, slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted",
		slog.Int64("task_id", id),
		slog.String("user_id", actor.ID.String()))
	return nil
}

func applyUpdate(task *domain.Task, u TaskUpdate) error {
	if !u.Partial && (!u.Title.Set || u.Title.Value == nil) {
		return domain.NewValidationError("title", "is required", domain.ErrTitleEmpty)
	}

	if u.Title.Set {
		if u.Title.Value == nil {
			return domain.NewValidationError("title", "cannot be null", domain.ErrTitleEmpty)
		}
		task.Title = strings.TrimSpace(*u.Title.Value)
	}

	if u.StatusID.Set {
		if u.StatusID.Value == nil {
			return domain.NewValidationError("status_id", "cannot be null", domain.ErrEmptyStatus)
		}
		task.StatusID = *u.StatusID.Value
	}

	if u.Partial {
		if u.Description.Set {
			task.Description = u.Description.Value
		}
		if u.CategoryID.Set {
			task.CategoryID = u.CategoryID.Value
		}
		return nil
	}

	task.Description = u.Description.Value
	task.CategoryID = u.CategoryID.Value
	return nil
}

func checkTitleFree(ctx context.Context, tasks store.TaskStore, task *domain.Task, excludeID int64) error {
	exists, err := tasks.TitleExists(ctx, task.OwnerID, task.Title, excludeID)
	if err != nil {
		return NewServiceError("task", "check_title", "failed to check title", err)
	}
	if exists {
		return ErrDuplicateTitle
	}
	return nil
}

func checkStatus(ctx context.Context, statuses store.StatusStore, id int64) error {
	if _, err := statuses.GetByID(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return &ReferenceError{Field: "status_id", ID: id}
		}
		return NewServiceError("task", "check_status", "failed to look up status", err)
	}
	return nil
}

func checkCategory(ctx context.Context, categories store.CategoryStore, id int64) error {
	if _, err := categories.GetByID(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return &ReferenceError{Field: "category_id", ID: id}
		}
		return NewServiceError("task", "check_category", "failed to look up category", err)
	}
	return nil
}

func appendLog(ctx context.Context, logs store.TaskLogStore, taskID int64, action domain.TaskAction) error {
	if err := logs.Create(ctx, domain.NewTaskLog(taskID, action)); err != nil {
		return NewServiceError("task", "audit", fmt.Sprintf("failed to record %s", action), err)
	}
	return nil
}

// mapTaskStoreError converts store errors into the service vocabulary.
func mapTaskStoreError(op string, err error) error {
	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, store.ErrTaskTitleExists):
		return ErrDuplicateTitle
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	case errors.As(err, &vErr):
		return err
	default:
		return NewServiceError("task", op, "store operation failed", err)
	}
}

// logFailure logs expected outcomes at debug and everything else at error.
func logFailure(log *slog.Logger, msg string, err error, attrs ...any) {
	args := append([]any{slog.String("error", err.Error())}, attrs...)
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		log.Error(msg, args...)
		return
	}
	log.Debug(msg, args...)
}
