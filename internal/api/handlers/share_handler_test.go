package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/saudehub/backend/internal/api/handlers"
	"github.com/saudehub/backend/internal/domain/entities"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

// MockShareService defines the mock service
type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) CreateSession(ctx context.Context, userID string, documentIDs []string, ttlMinutes int) (*entities.ShareSession, error) {
	args := m.Called(ctx, userID, documentIDs, ttlMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShareSession), args.Error(1)
}

func (m *MockShareService) Redeem(ctx context.Context, code string) (*entities.ShareSession, []*entities.Document, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*entities.ShareSession), args.Get(1).([]*entities.Document), args.Error(2)
}

func (m *MockShareService) SharedDocument(ctx context.Context, code, documentID string) (*entities.Document, error) {
	args := m.Called(ctx, code, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Document), args.Error(1)
}

func (m *MockShareService) ListSessions(ctx context.Context, userID string) ([]*entities.ShareSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShareSession), args.Error(1)
}

func (m *MockShareService) RevokeSession(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockSharedContentOpener defines the mock content opener
type MockSharedContentOpener struct {
	mock.Mock
}

func (m *MockSharedContentOpener) OpenShared(ctx context.Context, document *entities.Document) (io.ReadCloser, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func TestShareHandler_CreateSession(t *testing.T) {
	t.Run("successfully creates session", func(t *testing.T) {
		mockService := new(MockShareService)
		handler := handlers.NewShareHandler(mockService, new(MockSharedContentOpener))

		payload := map[string]interface{}{
			"document_ids": []string{"doc-1", "doc-2"},
			"ttl_minutes":  15,
		}
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest("POST", "/api/shares", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		session := &entities.ShareSession{
			ID:          "sess-1",
			Code:        "123456",
			DocumentIDs: []string{"doc-1", "doc-2"},
			ExpiresAt:   time.Now().Add(15 * time.Minute),
		}
		mockService.On("CreateSession", mock.Anything, mock.Anything, []string{"doc-1", "doc-2"}, 15).Return(session, nil)

		handler.CreateSession(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response entities.ShareSession
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "123456", response.Code)
	})

	t.Run("empty document set maps to bad request", func(t *testing.T) {
		mockService := new(MockShareService)
		handler := handlers.NewShareHandler(mockService, new(MockSharedContentOpener))

		req := httptest.NewRequest("POST", "/api/shares", bytes.NewBufferString(`{"document_ids":[]}`))
		w := httptest.NewRecorder()

		mockService.On("CreateSession", mock.Anything, mock.Anything, mock.Anything, 0).
			Return(nil, apperrors.NewValidationError("at least one document is required"))

		handler.CreateSession(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestShareHandler_RedeemCode(t *testing.T) {
	t.Run("resolves code to documents", func(t *testing.T) {
		mockService := new(MockShareService)
		handler := handlers.NewShareHandler(mockService, new(MockSharedContentOpener))

		req := httptest.NewRequest("GET", "/api/shared/123456", nil)
		req.SetPathValue("code", "123456")
		w := httptest.NewRecorder()

		session := &entities.ShareSession{ID: "sess-1", Code: "123456", ExpiresAt: time.Now().Add(10 * time.Minute)}
		documents := []*entities.Document{{ID: "doc-1", FileName: "exame.pdf"}}
		mockService.On("Redeem", mock.Anything, "123456").Return(session, documents, nil)

		handler.RedeemCode(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Documents []struct {
				ID string `json:"id"`
			} `json:"documents"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Len(t, response.Documents, 1)
	})

	t.Run("expired or unknown code maps to not found", func(t *testing.T) {
		mockService := new(MockShareService)
		handler := handlers.NewShareHandler(mockService, new(MockSharedContentOpener))

		req := httptest.NewRequest("GET", "/api/shared/000000", nil)
		req.SetPathValue("code", "000000")
		w := httptest.NewRecorder()

		mockService.On("Redeem", mock.Anything, "000000").
			Return(nil, nil, apperrors.NewNotFoundError("share code not found"))

		handler.RedeemCode(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestShareHandler_DownloadSharedDocument(t *testing.T) {
	t.Run("streams the shared document", func(t *testing.T) {
		mockService := new(MockShareService)
		mockOpener := new(MockSharedContentOpener)
		handler := handlers.NewShareHandler(mockService, mockOpener)

		req := httptest.NewRequest("GET", "/api/shared/123456/documents/doc-1", nil)
		req.SetPathValue("code", "123456")
		req.SetPathValue("id", "doc-1")
		w := httptest.NewRecorder()

		document := &entities.Document{ID: "doc-1", FileName: "exame.pdf", ContentType: "application/pdf"}
		mockService.On("SharedDocument", mock.Anything, "123456", "doc-1").Return(document, nil)
		mockOpener.On("OpenShared", mock.Anything, document).
			Return(io.NopCloser(strings.NewReader("pdf-bytes")), nil)

		handler.DownloadSharedDocument(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, "pdf-bytes", w.Body.String())
	})

	t.Run("document outside the session maps to not found", func(t *testing.T) {
		mockService := new(MockShareService)
		handler := handlers.NewShareHandler(mockService, new(MockSharedContentOpener))

		req := httptest.NewRequest("GET", "/api/shared/123456/documents/doc-x", nil)
		req.SetPathValue("code", "123456")
		req.SetPathValue("id", "doc-x")
		w := httptest.NewRecorder()

		mockService.On("SharedDocument", mock.Anything, "123456", "doc-x").
			Return(nil, apperrors.NewNotFoundError("document not found in share session"))

		handler.DownloadSharedDocument(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
