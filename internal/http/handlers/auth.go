package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsweb/news-be/internal/auth"
	"github.com/newsweb/news-be/internal/config"
	"github.com/newsweb/news-be/internal/geoip"
	"github.com/newsweb/news-be/internal/http/respond"
	"github.com/newsweb/news-be/internal/middleware"
	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/models/dto"
	"github.com/newsweb/news-be/internal/notify"
	"github.com/newsweb/news-be/internal/storage"
)

// AuthHandler owns registration, login, and account endpoints.
type AuthHandler struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	notify *notify.Service
	geo    *geoip.Client
	cfg    *config.Config
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, tokens *auth.TokenManager, notifier *notify.Service, geo *geoip.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, notify: notifier, geo: geo, cfg: cfg}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.Handle("GET /auth/me", protect(http.HandlerFunc(h.handleMe)))
	mux.Handle("DELETE /auth/delete-account", protect(http.HandlerFunc(h.handleDeleteAccount)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email, name and password are required.")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	role := models.RoleUser
	if h.cfg.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	ip := middleware.ClientIP(r)
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Country:      h.geo.Country(r.Context(), ip),
		IPAddress:    ip,
		PasswordHash: string(passwordHash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "Email already in use.")
			return
		}
		log.Printf("register: create user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	token, err := h.tokens.Generate(created)
	if err != nil {
		log.Printf("register: generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	h.notify.Welcome(r.Context(), created)

	respond.JSON(w, http.StatusOK, dto.RegisterResponse{
		Message: "Registration successful",
		User:    created,
		Token:   token,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusBadRequest, "Invalid credentials.")
			return
		}
		log.Printf("login: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid credentials.")
		return
	}

	// Refresh the last-known IP and derived country on every login.
	user.IPAddress = middleware.ClientIP(r)
	user.Country = h.geo.Country(r.Context(), user.IPAddress)
	if err := h.users.UpdateUserLocation(r.Context(), user.ID, user.IPAddress, user.Country); err != nil {
		log.Printf("login: update location: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	h.notify.LoginAlert(r.Context(), user)

	respond.JSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User: dto.LoginUser{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Country: user.Country,
			Role:    user.Role,
		},
	})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}
	user, err := h.users.FindUserByID(r.Context(), ident.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("me: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error.")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}
	if err := h.users.DeleteUser(r.Context(), ident.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("delete account: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error.")
		return
	}
	respond.Message(w, http.StatusOK, "Account deleted successfully.")
}
