package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/newsweb/news-be/internal/http/respond"
)

type window struct {
	count   int
	started time.Time
}

// RateLimit returns fixed-window rate-limiting middleware keyed by client IP:
// at most limit requests per window, then 429 until the window rolls over.
func RateLimit(limit int, windowSize time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			now := time.Now()

			mu.Lock()
			win, ok := windows[ip]
			if !ok || now.Sub(win.started) >= windowSize {
				win = &window{started: now}
				windows[ip] = win
			}
			win.count++
			over := win.count > limit
			mu.Unlock()

			if over {
				respond.Error(w, http.StatusTooManyRequests, "Too much requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
