package auth

import (
	"net/http"
	"strings"

	"github.com/farmstead-erp/farmstead-erp/internal/platform/httpx"
)

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved identity in the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Msg(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		id, err := s.Verify(r.Context(), token)
		if err != nil {
			httpx.Msg(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRole gates a route on the identity's role. It assumes RequireAuth
// already ran.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				httpx.Msg(w, http.StatusUnauthorized, ErrUnauthorized.Error())
				return
			}
			if id.Role != role {
				httpx.Msg(w, http.StatusForbidden, ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
