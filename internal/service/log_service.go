package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// LogService exposes the task audit trail to admins.
type LogService struct {
	logs   store.TaskLogStore
	logger *slog.Logger
}

// NewLogService creates a LogService.
func NewLogService(logs store.TaskLogStore, logger *slog.Logger) *LogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogService{
		logs:   logs,
		logger: logger.With(slog.String("component", "log_service")),
	}
}

// List returns the entries matching filter, newest first.
func (s *LogService) List(ctx context.Context, actor *domain.User, filter store.TaskLogFilter) ([]domain.TaskLogDetails, error) {
	if err := authz.Require(actor, authz.IsAdmin); err != nil {
		return nil, err
	}

	entries, err := s.logs.List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list task logs",
			slog.String("error", err.Error()))
		return nil, NewServiceError("task log", "list", "failed to list entries", err)
	}
	return entries, nil
}

// Get returns one entry.
func (s *LogService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.TaskLogDetails, error) {
	if err := authz.Require(actor, authz.IsAdmin); err != nil {
		return nil, err
	}

	entry, err := s.logs.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskLogNotFound
		}
		return nil, NewServiceError("task log", "get", "failed to get entry", err)
	}
	return entry, nil
}
