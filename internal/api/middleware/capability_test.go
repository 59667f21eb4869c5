package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/authz"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	staff := &domain.User{ID: uuid.New(), Role: domain.RoleClient, IsStaff: true}
	client := &domain.User{ID: uuid.New(), Role: domain.RoleClient}

	tests := []struct {
		name string
		user *domain.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"client", client, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
		{"staff flag", staff, http.StatusOK},
	}

	h := Require(authz.IsAdmin)(okHandler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
			if tt.user != nil {
				req = req.WithContext(shared.WithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
