package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/domain/staff"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/handler/http/response"
	"github.com/Jaydams/vitdaa-dashboard-sub000/internal/pkg/jwt"
)

// RequirePermission allows the request when the caller's role defaults or custom grants
// include permission.
func RequirePermission(permission staff.Permission) func(http.Handler) http.Handler {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission allows the request when the caller holds at least one of permissions.
func RequireAnyPermission(permissions ...staff.Permission) func(http.Handler) http.Handler {
	required := make([]string, 0, len(permissions))
	for _, p := range permissions {
		required = append(required, string(p))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", strings.Join(required, "' or '")))
				return
			}

			for _, p := range permissions {
				if claims.Can(p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but role is '%s'", strings.Join(required, "' or '"), claims.Role))
		})
	}
}
