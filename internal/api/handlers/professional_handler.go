package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/domain/entities"
)

// ProfessionalService defines the interface for professional registry operations
type ProfessionalService interface {
	CreateProfessional(ctx context.Context, userID string, professional *entities.Professional) (*entities.Professional, error)
	GetProfessional(ctx context.Context, userID, id string) (*entities.Professional, error)
	UpdateProfessional(ctx context.Context, userID, id string, professional *entities.Professional) (*entities.Professional, error)
	DeleteProfessional(ctx context.Context, userID, id string) error
	ListProfessionals(ctx context.Context, userID string) ([]*entities.Professional, error)
}

// ProfessionalHandler handles professional registry requests
type ProfessionalHandler struct {
	service ProfessionalService
}

// NewProfessionalHandler creates a new professional handler
func NewProfessionalHandler(service ProfessionalService) *ProfessionalHandler {
	return &ProfessionalHandler{
		service: service,
	}
}

// CreateProfessional handles POST /api/professionals
func (h *ProfessionalHandler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var professional entities.Professional
	if err := json.NewDecoder(r.Body).Decode(&professional); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	created, err := h.service.CreateProfessional(r.Context(), userID, &professional)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetProfessional handles GET /api/professionals/{id}
func (h *ProfessionalHandler) GetProfessional(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	professional, err := h.service.GetProfessional(r.Context(), userID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, professional)
}

// UpdateProfessional handles PUT /api/professionals/{id}
func (h *ProfessionalHandler) UpdateProfessional(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	var professional entities.Professional
	if err := json.NewDecoder(r.Body).Decode(&professional); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	updated, err := h.service.UpdateProfessional(r.Context(), userID, id, &professional)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteProfessional handles DELETE /api/professionals/{id}
func (h *ProfessionalHandler) DeleteProfessional(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "professional ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.DeleteProfessional(r.Context(), userID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProfessionals handles GET /api/professionals
func (h *ProfessionalHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	professionals, err := h.service.ListProfessionals(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"professionals": professionals,
		"count":         len(professionals),
	})
}
