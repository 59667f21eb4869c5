package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"authentication required", authz.ErrAuthenticationRequired, http.StatusUnauthorized},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"expired refresh token", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"forbidden", authz.ErrForbidden, http.StatusForbidden},
		{"task not found", service.ErrTaskNotFound, http.StatusNotFound},
		{"log not found", service.ErrTaskLogNotFound, http.StatusNotFound},
		{"status in use", service.ErrInUse, http.StatusConflict},
		{"email taken", service.ErrEmailTaken, http.StatusConflict},
		{"duplicate title", service.ErrDuplicateTitle, http.StatusBadRequest},
		{"pending missing", service.ErrPendingStatusMissing, http.StatusBadRequest},
		{"bad reference", &service.ReferenceError{Field: "category_id", ID: 4}, http.StatusBadRequest},
		{"validation", domain.NewValidationError("title", "cannot be empty", domain.ErrTitleEmpty), http.StatusBadRequest},
		{"short password", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("outer: %w", service.ErrDuplicateTitle), http.StatusBadRequest},
		{"service failure", service.NewServiceError("task", "create", "boom", errors.New("db down")), http.StatusInternalServerError},
		{"store error leaking through", store.ErrUpdateFailed, http.StatusInternalServerError},
		{"unknown", errors.New("something"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"duplicate title", service.ErrDuplicateTitle, MsgDuplicateTitle},
		{"pending missing", service.ErrPendingStatusMissing, MsgPendingMissing},
		{"task not found", service.ErrTaskNotFound, "Task not found"},
		{"reference", &service.ReferenceError{Field: "status_id", ID: 9}, "Invalid status_id: no such entry"},
		{"validation", domain.NewValidationError("name", "cannot be empty", domain.ErrNameEmpty), "name cannot be empty"},
		{"forbidden", authz.ErrForbidden, "You do not have permission to perform this action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_DoesNotLeak(t *testing.T) {
	secrets := []error{
		errors.New("pq: password authentication failed for user \"tasks\""),
		service.NewServiceError("task", "list", "store operation failed",
			errors.New("dial tcp 10.0.0.5:5432: connection refused")),
		fmt.Errorf("query SELECT * FROM users failed: %w", store.ErrTransactionFailed),
	}
	for _, err := range secrets {
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	}
}
