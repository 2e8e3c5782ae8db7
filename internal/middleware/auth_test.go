package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/newsweb/news-be/internal/auth"
	"github.com/newsweb/news-be/internal/models"
)

func newAuthMux(t *testing.T) (*auth.TokenManager, *http.ServeMux) {
	t.Helper()
	tokens := auth.NewTokenManager("secret", "test", time.Hour)
	mux := http.NewServeMux()
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		w.Write([]byte(ident.ID))
	})
	mux.Handle("GET /private", RequireAuth(tokens)(echo))
	mux.Handle("GET /users/{userId}/things", RequireAuth(tokens)(echo))
	return tokens, mux
}

func bearer(t *testing.T, tokens *auth.TokenManager, user models.User) string {
	t.Helper()
	token, err := tokens.Generate(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRequireAuthMissingHeader(t *testing.T) {
	_, mux := newAuthMux(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthBadToken(t *testing.T) {
	_, mux := newAuthMux(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	_, mux := newAuthMux(t)
	expired := auth.NewTokenManager("secret", "test", -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", bearer(t, expired, models.User{ID: "u1", Role: models.RoleUser}))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	tokens, mux := newAuthMux(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", bearer(t, tokens, models.User{ID: "u1", Role: models.RoleUser}))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u1", w.Body.String())
}

func TestRequireAuthPathIdentityCheck(t *testing.T) {
	tokens, mux := newAuthMux(t)

	// Caller id must match the {userId} path value.
	req := httptest.NewRequest(http.MethodGet, "/users/u2/things", nil)
	req.Header.Set("Authorization", bearer(t, tokens, models.User{ID: "u1", Role: models.RoleUser}))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/u1/things", nil)
	req.Header.Set("Authorization", bearer(t, tokens, models.User{ID: "u1", Role: models.RoleUser}))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthAdminBypassesPathCheck(t *testing.T) {
	tokens, mux := newAuthMux(t)

	req := httptest.NewRequest(http.MethodGet, "/users/u2/things", nil)
	req.Header.Set("Authorization", bearer(t, tokens, models.User{ID: "admin-1", Role: models.RoleAdmin}))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "admin-1", w.Body.String())
}
