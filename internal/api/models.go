package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 expiry of the access token.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse is returned by the refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// NameRequest is the payload for creating or renaming a status or category.
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// VocabularyResponse represents a status or a category.
type VocabularyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskCreateRequest is the payload of POST /api/tasks. StatusID is accepted
// and ignored.
type TaskCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"category_id"`
	StatusID    *int64  `json:"status_id"`
}

// TaskUpdateRequest is the payload of PUT and PATCH /api/tasks/{id}.
type TaskUpdateRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	CategoryID  Optional[int64]  `json:"category_id"`
	StatusID    Optional[int64]  `json:"status_id"`
}

// UserSummary is the owner embedded in a task.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// TaskResponse represents a task with its relations expanded.
type TaskResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	User        UserSummary         `json:"user"`
	Status      VocabularyResponse  `json:"status"`
	Category    *VocabularyResponse `json:"category"`
	IsDeleted   bool                `json:"is_deleted"`
	CreatedAt   time.Time           `json:"created_at"`
}

// TaskLogResponse represents an audit entry.
type TaskLogResponse struct {
	ID        int64        `json:"id"`
	Task      TaskResponse `json:"task"`
	Action    string       `json:"action"`
	Timestamp time.Time    `json:"timestamp"`
}

func statusToResponse(s *domain.Status) VocabularyResponse {
	return VocabularyResponse{ID: s.ID, Name: s.Name}
}

func categoryToResponse(c *domain.Category) VocabularyResponse {
	return VocabularyResponse{ID: c.ID, Name: c.Name}
}

func taskToResponse(t *domain.TaskDetails) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		User: UserSummary{
			ID:    t.Owner.ID,
			Email: t.Owner.Email,
			Role:  string(t.Owner.Role),
		},
		Status:    statusToResponse(&t.Status),
		IsDeleted: t.IsDeleted,
		CreatedAt: t.CreatedAt,
	}
	if t.Category != nil {
		c := categoryToResponse(t.Category)
		resp.Category = &c
	}
	return resp
}

func tasksToResponse(tasks []domain.TaskDetails) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = taskToResponse(&tasks[i])
	}
	return out
}

func taskLogToResponse(l *domain.TaskLogDetails) TaskLogResponse {
	return TaskLogResponse{
		ID:        l.ID,
		Task:      taskToResponse(&l.Task),
		Action:    string(l.Action),
		Timestamp: l.Timestamp,
	}
}
