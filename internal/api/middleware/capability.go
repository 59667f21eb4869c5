package middleware

import (
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/authz"
)

// Require rejects requests whose principal lacks c: 401 without a principal,
// 403 otherwise. It must run after AuthMiddleware.Authenticate.
func Require(c authz.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch authz.Require(shared.UserFromContext(r.Context()), c) {
			case nil:
				next.ServeHTTP(w, r)
			case authz.ErrAuthenticationRequired:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			default:
				shared.RespondWithError(w, r, http.StatusForbidden, "You do not have permission to perform this action")
			}
		})
	}
}
