package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

type logService interface {
	List(ctx context.Context, actor *domain.User, filter store.TaskLogFilter) ([]domain.TaskLogDetails, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.TaskLogDetails, error)
}

// LogHandler serves the read-only audit trail at /api/logs.
type LogHandler struct {
	logs logService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(logs logService) *LogHandler {
	return &LogHandler{logs: logs}
}

// List handles GET /api/logs?task=<id>&action=<CREATED|UPDATED|DELETED>.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.TaskLogFilter

	taskID, err := getQueryID(r, "task")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if taskID != nil {
		filter.TaskID = *taskID
	}
	if raw := r.URL.Query().Get("action"); raw != "" {
		action, err := domain.ParseTaskAction(raw)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		filter.Action = action
	}

	entries, err := h.logs.List(r.Context(), shared.UserFromContext(r.Context()), filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	out := make([]TaskLogResponse, len(entries))
	for i := range entries {
		out[i] = taskLogToResponse(&entries[i])
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /api/logs/{id}.
func (h *LogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	entry, err := h.logs.Get(r.Context(), shared.UserFromContext(r.Context()), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskLogToResponse(entry))
}
