package services_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/saudehub/backend/internal/application/services"
	"github.com/saudehub/backend/internal/domain/entities"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, userID, fileName string, content io.Reader) (string, int64, error) {
	// Drain the reader so size reflects what would be written
	size, _ := io.Copy(io.Discard, content)
	args := m.Called(ctx, userID, fileName)
	return args.String(0), size, args.Error(1)
}

func (m *MockFileStore) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	args := m.Called(ctx, storagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStore) Remove(ctx context.Context, storagePath string) error {
	args := m.Called(ctx, storagePath)
	return args.Error(0)
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores content and creates the record", func(t *testing.T) {
		documents := new(MockDocumentRepository)
		events := new(MockEventRepository)
		store := new(MockFileStore)
		service := services.NewDocumentService(documents, events, store)

		store.On("Save", mock.Anything, "user-1", "exame.pdf").Return("user-1/abc.pdf", nil)
		documents.On("Create", mock.Anything, mock.MatchedBy(func(d *entities.Document) bool {
			return d.FileName == "exame.pdf" && d.StoragePath == "user-1/abc.pdf" && d.EventID == nil
		})).Return(nil)

		document, err := service.Upload(ctx, "user-1", nil, "exame.pdf", "application/pdf", strings.NewReader("pdf-bytes"))

		assert.NoError(t, err)
		assert.Equal(t, int64(len("pdf-bytes")), document.SizeBytes)
		documents.AssertExpectations(t)
	})

	t.Run("verifies event ownership when attaching", func(t *testing.T) {
		documents := new(MockDocumentRepository)
		events := new(MockEventRepository)
		store := new(MockFileStore)
		service := services.NewDocumentService(documents, events, store)

		eventID := "evt-other"
		events.On("GetByID", mock.Anything, "user-1", "evt-other").
			Return(nil, apperrors.NewNotFoundError("event with id evt-other not found"))

		_, err := service.Upload(ctx, "user-1", &eventID, "exame.pdf", "application/pdf", strings.NewReader("pdf-bytes"))

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized uploads and removes the stored file", func(t *testing.T) {
		documents := new(MockDocumentRepository)
		events := new(MockEventRepository)
		store := new(MockFileStore)
		service := services.NewDocumentService(documents, events, store)

		store.On("Save", mock.Anything, "user-1", "big.bin").Return("user-1/big.bin", nil)
		store.On("Remove", mock.Anything, "user-1/big.bin").Return(nil)

		oversized := bytes.NewReader(make([]byte, services.MaxDocumentSizeBytes+1))
		_, err := service.Upload(ctx, "user-1", nil, "big.bin", "application/octet-stream", oversized)

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		store.AssertCalled(t, "Remove", mock.Anything, "user-1/big.bin")
		documents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("removes stored file when the record insert fails", func(t *testing.T) {
		documents := new(MockDocumentRepository)
		events := new(MockEventRepository)
		store := new(MockFileStore)
		service := services.NewDocumentService(documents, events, store)

		store.On("Save", mock.Anything, "user-1", "exame.pdf").Return("user-1/abc.pdf", nil)
		documents.On("Create", mock.Anything, mock.Anything).
			Return(apperrors.NewInternalError("insert failed", nil))
		store.On("Remove", mock.Anything, "user-1/abc.pdf").Return(nil)

		_, err := service.Upload(ctx, "user-1", nil, "exame.pdf", "application/pdf", strings.NewReader("pdf-bytes"))

		assert.Error(t, err)
		store.AssertCalled(t, "Remove", mock.Anything, "user-1/abc.pdf")
	})

	t.Run("rejects missing file name", func(t *testing.T) {
		service := services.NewDocumentService(new(MockDocumentRepository), new(MockEventRepository), new(MockFileStore))

		_, err := service.Upload(ctx, "user-1", nil, "", "application/pdf", strings.NewReader("pdf-bytes"))

		appErr, ok := apperrors.AsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("store removal failure does not fail the delete", func(t *testing.T) {
		documents := new(MockDocumentRepository)
		store := new(MockFileStore)
		service := services.NewDocumentService(documents, new(MockEventRepository), store)

		document := &entities.Document{ID: "doc-1", UserID: "user-1", StoragePath: "user-1/abc.pdf"}
		documents.On("GetByID", mock.Anything, "user-1", "doc-1").Return(document, nil)
		documents.On("Delete", mock.Anything, "user-1", "doc-1").Return(nil)
		store.On("Remove", mock.Anything, "user-1/abc.pdf").
			Return(apperrors.NewInternalError("disk error", nil))

		err := service.DeleteDocument(ctx, "user-1", "doc-1")

		assert.NoError(t, err)
	})
}
