package server

import (
	"context"
	"net/http"
	"time"

	"github.com/newsweb/news-be/internal/auth"
	"github.com/newsweb/news-be/internal/config"
	"github.com/newsweb/news-be/internal/geoip"
	"github.com/newsweb/news-be/internal/http/handlers"
	"github.com/newsweb/news-be/internal/middleware"
	"github.com/newsweb/news-be/internal/notify"
	"github.com/newsweb/news-be/internal/storage"
)

// Rate limit on the public news feed: fixed window per client IP.
const (
	newsRateLimit  = 100
	newsRateWindow = 15 * time.Minute
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, users storage.UserStore, posts storage.PostStore, notifications storage.NotificationStore) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Router(cfg, users, posts, notifications),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Router builds the full handler stack; tests drive it directly.
func Router(cfg config.Config, users storage.UserStore, posts storage.PostStore, notifications storage.NotificationStore) http.Handler {
	mux := http.NewServeMux()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	protect := middleware.RequireAuth(tokens)
	notifier := notify.New(users, notifications)
	geo := geoip.New(cfg.GeoIPEndpoint)

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(users, tokens, notifier, geo, &cfg).Register(mux, protect)
	handlers.NewPostHandler(posts, notifier, cfg.UploadDir).Register(mux, protect)
	handlers.NewNotificationHandler(notifications).Register(mux, protect)
	handlers.NewNewsHandler(posts).Register(mux, middleware.RateLimit(newsRateLimit, newsRateWindow))

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
