package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/newsweb/news-be/internal/http/respond"
	"github.com/newsweb/news-be/internal/middleware"
	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/models/dto"
	"github.com/newsweb/news-be/internal/storage"
)

// NotificationHandler serves a user's own notifications.
type NotificationHandler struct {
	notifications storage.NotificationStore
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(notifications storage.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Register attaches notification routes to the mux.
func (h *NotificationHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /notifications", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("PUT /notifications/{id}/read", protect(http.HandlerFunc(h.handleMarkRead)))
	mux.Handle("DELETE /notifications", protect(http.HandlerFunc(h.handleBulkDelete)))
}

func (h *NotificationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}
	list, err := h.notifications.ListNotifications(r.Context(), ident.ID)
	if err != nil {
		log.Printf("list notifications: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}

	notification, err := h.notifications.FindNotification(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Notification not found.")
			return
		}
		log.Printf("mark read: fetch: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error.")
		return
	}

	// Strict recipient check, no admin bypass on resource ownership.
	if notification.RecipientID != ident.ID {
		respond.Error(w, http.StatusForbidden, "Unauthorized access.")
		return
	}

	if err := h.notifications.MarkNotificationRead(r.Context(), notification.ID); err != nil {
		log.Printf("mark read: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error.")
		return
	}
	respond.Message(w, http.StatusOK, "Notification marked as read.")
}

func (h *NotificationHandler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}
	var req dto.DeleteNotificationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// The store filters on recipient id, so foreign ids in the list are
	// silently skipped rather than rejected.
	if err := h.notifications.DeleteNotifications(r.Context(), ident.ID, req.IDs); err != nil {
		log.Printf("delete notifications: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error.")
		return
	}
	respond.Message(w, http.StatusOK, "Notifications deleted successfully.")
}
