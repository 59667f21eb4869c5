package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
)

// vocabularyService is the part of service.VocabularyService the handler uses.
type vocabularyService[T any] interface {
	List(ctx context.Context, actor *domain.User) ([]T, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*T, error)
	Create(ctx context.Context, actor *domain.User, name string) (*T, error)
	Update(ctx context.Context, actor *domain.User, id int64, name string) (*T, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

// VocabularyHandler serves the status and category resources, which share
// one shape: {id, name}.
type VocabularyHandler[T any] struct {
	svc    vocabularyService[T]
	render func(*T) VocabularyResponse
}

// StatusHandler serves /api/status.
type StatusHandler = VocabularyHandler[domain.Status]

// CategoryHandler serves /api/categories.
type CategoryHandler = VocabularyHandler[domain.Category]

// NewStatusHandler creates the handler for statuses.
func NewStatusHandler(svc *service.StatusService) *StatusHandler {
	return &StatusHandler{svc: svc, render: statusToResponse}
}

// NewCategoryHandler creates the handler for categories.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc, render: categoryToResponse}
}

// List handles GET on the collection.
func (h *VocabularyHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), shared.UserFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	out := make([]VocabularyResponse, len(items))
	for i := range items {
		out[i] = h.render(&items[i])
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET on a single entry.
func (h *VocabularyHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	item, err := h.svc.Get(r.Context(), shared.UserFromContext(r.Context()), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.render(item))
}

// Create handles POST on the collection.
func (h *VocabularyHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := h.svc.Create(r.Context(), shared.UserFromContext(r.Context()), req.Name)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, h.render(item))
}

// Update handles PUT and PATCH. The only writable field is name, so both
// verbs require it.
func (h *VocabularyHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var req NameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	item, err := h.svc.Update(r.Context(), shared.UserFromContext(r.Context()), id, req.Name)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.render(item))
}

// Delete handles DELETE on a single entry.
func (h *VocabularyHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), shared.UserFromContext(r.Context()), id); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondNoContent(w)
}
