package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/newsweb/news-be/internal/auth"
	"github.com/newsweb/news-be/internal/http/respond"
	"github.com/newsweb/news-be/internal/models"
)

// Identity is the verified caller attached to the request context.
type Identity struct {
	ID   string
	Role string
}

type identityKey struct{}

// IdentityFrom returns the caller identity placed by RequireAuth.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}

// RequireAuth returns middleware that validates the bearer token and attaches
// the caller identity to the context. Tokens are verified statelessly; no
// session is consulted or created.
//
// Routes that carry a {userId} path value additionally require the caller's
// id to match it. Admins bypass that path check only; resource-level
// ownership checks inside handlers compare ids strictly.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Error(w, http.StatusForbidden, "Invalid or expired token.")
				return
			}

			if claims.Role != models.RoleAdmin {
				if target := r.PathValue("userId"); target != "" && target != claims.UserID {
					respond.Error(w, http.StatusForbidden, "Unauthorized. Token does not match the user ID.")
					return
				}
			}

			ctx := context.WithValue(r.Context(), identityKey{}, Identity{ID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
