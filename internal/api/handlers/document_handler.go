package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/saudehub/backend/internal/api/middleware"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/repositories"
)

// DocumentService defines the interface for document operations
type DocumentService interface {
	Upload(ctx context.Context, userID string, eventID *string, fileName, contentType string, content io.Reader) (*entities.Document, error)
	GetDocument(ctx context.Context, userID, id string) (*entities.Document, error)
	OpenContent(ctx context.Context, userID, id string) (*entities.Document, io.ReadCloser, error)
	ListDocuments(ctx context.Context, userID string, filter repositories.DocumentFilter) ([]*entities.Document, error)
	DeleteDocument(ctx context.Context, userID, id string) error
}

// DocumentHandler handles document requests
type DocumentHandler struct {
	service DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

// UploadDocument handles POST /api/documents. Expects multipart form data
// with a "file" part and an optional "event_id" field.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(services.MaxDocumentSizeBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	var eventID *string
	if id := r.FormValue("event_id"); id != "" {
		eventID = &id
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userID := middleware.UserIDFromContext(r.Context())
	document, err := h.service.Upload(r.Context(), userID, eventID, header.Filename, contentType, file)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, document)
}

// GetDocument handles GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	document, err := h.service.GetDocument(r.Context(), userID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, document)
}

// DownloadDocument handles GET /api/documents/{id}/content
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	document, reader, err := h.service.OpenContent(r.Context(), userID, id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	defer reader.Close()

	writeDocumentContent(w, document, reader)
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.DocumentFilter{
		EventID:        query.Get("event_id"),
		IncludeOrphans: query.Get("include_orphans") == "true",
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(query.Get("offset")); err == nil {
		filter.Offset = offset
	}

	userID := middleware.UserIDFromContext(r.Context())
	documents, err := h.service.ListDocuments(r.Context(), userID, filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// DeleteDocument handles DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.DeleteDocument(r.Context(), userID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeDocumentContent(w http.ResponseWriter, document *entities.Document, reader io.Reader) {
	w.Header().Set("Content-Type", document.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", document.FileName))
	if document.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(document.SizeBytes, 10))
	}
	io.Copy(w, reader)
}
