package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/providers"
	"github.com/saudehub/backend/internal/domain/repositories"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// MaxDocumentSizeBytes caps a single upload at 20 MiB
const MaxDocumentSizeBytes = 20 << 20

// DocumentService manages document uploads and their metadata. Binaries go
// through the FileStore; metadata rows live in the document repository.
type DocumentService struct {
	documents repositories.DocumentRepository
	events    repositories.EventRepository
	store     providers.FileStore
}

// NewDocumentService creates a new document service
func NewDocumentService(documents repositories.DocumentRepository, events repositories.EventRepository, store providers.FileStore) *DocumentService {
	return &DocumentService{
		documents: documents,
		events:    events,
		store:     store,
	}
}

// Upload stores the content and creates the metadata record. When eventID
// is set the event must exist and belong to the owner.
func (s *DocumentService) Upload(ctx context.Context, userID string, eventID *string, fileName, contentType string, content io.Reader) (*entities.Document, error) {
	if fileName == "" {
		return nil, apperrors.NewValidationError("file name is required")
	}

	if eventID != nil && *eventID != "" {
		if _, err := s.events.GetByID(ctx, userID, *eventID); err != nil {
			return nil, err
		}
	} else {
		eventID = nil
	}

	limited := io.LimitReader(content, MaxDocumentSizeBytes+1)
	storagePath, size, err := s.store.Save(ctx, userID, fileName, limited)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to store document", err)
	}

	if size > MaxDocumentSizeBytes {
		if removeErr := s.store.Remove(ctx, storagePath); removeErr != nil {
			log.Warn().Err(removeErr).Str("path", storagePath).Msg("failed to remove oversized upload")
		}
		return nil, apperrors.NewValidationError("document exceeds the maximum allowed size")
	}

	document := &entities.Document{
		ID:          uuid.New().String(),
		UserID:      userID,
		EventID:     eventID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		StoragePath: storagePath,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.documents.Create(ctx, document); err != nil {
		if removeErr := s.store.Remove(ctx, storagePath); removeErr != nil {
			log.Warn().Err(removeErr).Str("path", storagePath).Msg("failed to remove stored file after record failure")
		}
		return nil, err
	}

	return document, nil
}

// GetDocument retrieves document metadata within the owner scope
func (s *DocumentService) GetDocument(ctx context.Context, userID, id string) (*entities.Document, error) {
	return s.documents.GetByID(ctx, userID, id)
}

// OpenContent opens the stored binary for a document the owner holds
func (s *DocumentService) OpenContent(ctx context.Context, userID, id string) (*entities.Document, io.ReadCloser, error) {
	document, err := s.documents.GetByID(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.store.Open(ctx, document.StoragePath)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to open document content", err)
	}

	return document, reader, nil
}

// OpenShared opens the stored binary for a document resolved through a
// share session; ownership has already been established by the session.
func (s *DocumentService) OpenShared(ctx context.Context, document *entities.Document) (io.ReadCloser, error) {
	reader, err := s.store.Open(ctx, document.StoragePath)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open document content", err)
	}
	return reader, nil
}

// ListDocuments retrieves the owner's documents with filters applied
func (s *DocumentService) ListDocuments(ctx context.Context, userID string, filter repositories.DocumentFilter) ([]*entities.Document, error) {
	return s.documents.ListByUser(ctx, userID, filter)
}

// DeleteDocument removes the metadata record and, best-effort, the stored
// binary
func (s *DocumentService) DeleteDocument(ctx context.Context, userID, id string) error {
	document, err := s.documents.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, userID, id); err != nil {
		return err
	}

	if err := s.store.Remove(ctx, document.StoragePath); err != nil {
		log.Warn().Err(err).Str("path", document.StoragePath).Msg("failed to remove stored file")
	}

	return nil
}
