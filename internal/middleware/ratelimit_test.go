package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	handler := RateLimit(3, time.Minute)(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitPerClient(t *testing.T) {
	handler := RateLimit(1, time.Minute)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	first.Header.Set("X-Forwarded-For", "10.0.0.1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	require.Equal(t, http.StatusOK, w.Code)

	blocked := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	blocked.Header.Set("X-Forwarded-For", "10.0.0.1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, blocked)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	other := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	other.Header.Set("X-Forwarded-For", "10.0.0.2")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitWindowRollsOver(t *testing.T) {
	handler := RateLimit(1, 30*time.Millisecond)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	time.Sleep(40 * time.Millisecond)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4321"
	require.Equal(t, "203.0.113.9", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	require.Equal(t, "198.51.100.7", ClientIP(req))
}
