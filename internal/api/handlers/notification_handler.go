package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/domain/entities"
)

// NotificationService defines the interface for notification operations
type NotificationService interface {
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

// NotificationHandler handles notification requests
type NotificationHandler struct {
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	unreadOnly := query.Get("unread") == "true"
	limit := 50
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	userID := middleware.UserIDFromContext(r.Context())
	notifications, err := h.service.ListNotifications(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "notification ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.MarkRead(r.Context(), userID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
