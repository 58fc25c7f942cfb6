package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/domain/entities"
)

// ShareService defines the interface for share session operations
type ShareService interface {
	CreateSession(ctx context.Context, userID string, documentIDs []string, ttlMinutes int) (*entities.ShareSession, error)
	Redeem(ctx context.Context, code string) (*entities.ShareSession, []*entities.Document, error)
	SharedDocument(ctx context.Context, code, documentID string) (*entities.Document, error)
	ListSessions(ctx context.Context, userID string) ([]*entities.ShareSession, error)
	RevokeSession(ctx context.Context, userID, id string) error
}

// SharedContentOpener opens document binaries resolved through a share code
type SharedContentOpener interface {
	OpenShared(ctx context.Context, document *entities.Document) (io.ReadCloser, error)
}

// ShareHandler handles share session requests. Redemption endpoints are
// unauthenticated: the code is the credential.
type ShareHandler struct {
	service ShareService
	opener  SharedContentOpener
}

// NewShareHandler creates a new share handler
func NewShareHandler(service ShareService, opener SharedContentOpener) *ShareHandler {
	return &ShareHandler{
		service: service,
		opener:  opener,
	}
}

// CreateSession handles POST /api/shares
func (h *ShareHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentIDs []string `json:"document_ids"`
		TTLMinutes  int      `json:"ttl_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	session, err := h.service.CreateSession(r.Context(), userID, req.DocumentIDs, req.TTLMinutes)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

// ListSessions handles GET /api/shares
func (h *ShareHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	sessions, err := h.service.ListSessions(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// RevokeSession handles DELETE /api/shares/{id}
func (h *ShareHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.RevokeSession(r.Context(), userID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RedeemCode handles GET /api/shared/{code}
func (h *ShareHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "share code is required")
		return
	}

	session, documents, err := h.service.Redeem(r.Context(), code)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"expires_at": session.ExpiresAt,
		"documents":  documents,
	})
}

// DownloadSharedDocument handles GET /api/shared/{code}/documents/{id}
func (h *ShareHandler) DownloadSharedDocument(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	id := r.PathValue("id")
	if code == "" || id == "" {
		respondWithError(w, http.StatusBadRequest, "share code and document ID are required")
		return
	}

	document, err := h.service.SharedDocument(r.Context(), code, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	reader, err := h.opener.OpenShared(r.Context(), document)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	defer reader.Close()

	writeDocumentContent(w, document, reader)
}
