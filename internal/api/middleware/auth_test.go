package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userLookupFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)

func (f userLookupFunc) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return f(ctx, id)
}

func TestAuthenticate(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "ana@example.com", Role: domain.RoleClient}
	found := userLookupFunc(func(_ context.Context, id uuid.UUID) (*domain.User, error) {
		if id == user.ID {
			return user, nil
		}
		return nil, service.ErrUserNotFound
	})

	tests := []struct {
		name   string
		header string
		jwt    *mocks.MockJWTService
		users  UserLookup
		want   int
	}{
		{"no header", "", &mocks.MockJWTService{}, found, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &mocks.MockJWTService{}, found, http.StatusUnauthorized},
		{"expired", "Bearer t", &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken}, found, http.StatusUnauthorized},
		{"refresh token", "Bearer t", &mocks.MockJWTService{ValidateErr: auth.ErrWrongTokenType}, found, http.StatusUnauthorized},
		{"validator failure", "Bearer t", &mocks.MockJWTService{ValidateErr: errors.New("boom")}, found, http.StatusInternalServerError},
		{
			"user gone", "Bearer t",
			&mocks.MockJWTService{Claims: &auth.Claims{UserID: uuid.New()}},
			found, http.StatusUnauthorized,
		},
		{
			"user lookup fails", "Bearer t",
			&mocks.MockJWTService{Claims: &auth.Claims{UserID: user.ID}},
			userLookupFunc(func(context.Context, uuid.UUID) (*domain.User, error) {
				return nil, errors.New("db down")
			}),
			http.StatusInternalServerError,
		},
		{
			"valid", "bearer t",
			&mocks.MockJWTService{Claims: &auth.Claims{UserID: user.ID}},
			found, http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *domain.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = shared.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			NewAuthMiddleware(tt.jwt, tt.users).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, user.ID, seen.ID)
			}
		})
	}
}
