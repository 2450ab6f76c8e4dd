package chi

import (
	"context"
	"net/http"
	"strings"

	authuc "github.com/yz-create/magicsearch/internal/usecase/auth"
)

type claimsKey struct{}

// ClaimsFromContext extracts the verified token claims from the context.
func ClaimsFromContext(ctx context.Context) (authuc.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(authuc.Claims)
	return c, ok
}

// RequireAuth validates the Bearer token and stores its claims in the context.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(auth, bearerPrefix) {
			writeError(w, http.StatusUnauthorized, codeUnauthorized,
				"authorization header must use Bearer scheme")
			return
		}

		claims, err := s.auth.VerifyToken(auth[len(bearerPrefix):])
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates catalog mutations behind the admin role. Must run after
// RequireAuth.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing token claims")
			return
		}
		if !claims.IsAdmin {
			writeError(w, http.StatusForbidden, codeForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
