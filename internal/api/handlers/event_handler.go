package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
	"github.com/saudehub/backend/internal/domain/scheduling"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// EventService defines the interface for appointment operations
type EventService interface {
	CreateEvent(ctx context.Context, userID string, event *entities.Event, overrideTravelConflict bool) (*entities.Event, error)
	UpdateEvent(ctx context.Context, userID, eventID string, event *entities.Event, overrideTravelConflict bool) (*entities.Event, error)
	CheckConflicts(ctx context.Context, userID string, candidate scheduling.Candidate) (*scheduling.Result, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error
	GetEvent(ctx context.Context, userID, eventID string) (*entities.Event, error)
	ListEvents(ctx context.Context, userID string, filter repositories.EventFilter) ([]*entities.Event, error)
}

// EventHandler handles appointment requests
type EventHandler struct {
	service EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(service EventService) *EventHandler {
	return &EventHandler{
		service: service,
	}
}

type eventRequest struct {
	EventType              string `json:"event_type"`
	Professional           string `json:"professional"`
	EventDate              string `json:"event_date"`
	StartTime              string `json:"start_time"`
	EndTime                string `json:"end_time"`
	Notes                  string `json:"notes"`
	Instructions           string `json:"instructions"`
	OverrideTravelConflict bool   `json:"override_travel_conflict"`
}

func (req *eventRequest) toEntity() *entities.Event {
	return &entities.Event{
		EventType:    entities.EventType(req.EventType),
		Professional: req.Professional,
		EventDate:    req.EventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
		Instructions: req.Instructions,
	}
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	event, err := h.service.CreateEvent(r.Context(), userID, req.toEntity(), req.OverrideTravelConflict)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	event, err := h.service.UpdateEvent(r.Context(), userID, eventID, req.toEntity(), req.OverrideTravelConflict)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

// CheckConflicts handles POST /api/events/check-conflicts
func (h *EventHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventDate    string `json:"event_date"`
		StartTime    string `json:"start_time"`
		EndTime      string `json:"end_time"`
		Professional string `json:"professional"`
		ExcludeID    string `json:"exclude_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	result, err := h.service.CheckConflicts(r.Context(), userID, scheduling.Candidate{
		EventDate:    req.EventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Professional: req.Professional,
		ExcludeID:    req.ExcludeID,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetEvent handles GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	event, err := h.service.GetEvent(r.Context(), userID, eventID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.EventFilter{
		EventType:    entities.EventType(query.Get("event_type")),
		Professional: query.Get("professional"),
		FromDate:     query.Get("from"),
		ToDate:       query.Get("to"),
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil {
		filter.Offset = offset
	}

	userID := middleware.UserIDFromContext(r.Context())
	events, err := h.service.ListEvents(r.Context(), userID, filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")
	if eventID == "" {
		respondWithError(w, http.StatusBadRequest, "event ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.DeleteEvent(r.Context(), userID, eventID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps application errors to HTTP status codes.
// Conflict errors serialize their structured payload so clients can render
// the conflicting appointments.
func respondWithServiceError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeConflict:
		if payload, ok := appErr.Details.(entities.ConflictPayload); ok {
			payload.Message = appErr.Message
			respondWithJSON(w, http.StatusConflict, payload)
			return
		}
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	}
}
