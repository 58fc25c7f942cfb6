package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/saudehub/backend/internal/domain/entities"
	"github.com/saudehub/backend/internal/domain/providers"
	"github.com/saudehub/backend/internal/domain/repositories"
	apperrors "github.com/saudehub/backend/pkg/errors"
)

const (
	// DefaultShareTTLMinutes is how long a share session stays redeemable
	DefaultShareTTLMinutes = 30

	// maxCodeAttempts bounds the collision retry loop for code generation
	maxCodeAttempts = 5

	shareCacheKeyPrefix = "share:code:"
)

// ShareService grants time-limited read access to document sets via short
// numeric codes. Code lookups go through the cache when one is configured;
// revocation invalidates the cached entry.
type ShareService struct {
	shares    repositories.ShareRepository
	documents repositories.DocumentRepository
	cache     providers.CacheProvider
}

// NewShareService creates a new share service. cache may be nil.
func NewShareService(shares repositories.ShareRepository, documents repositories.DocumentRepository, cache providers.CacheProvider) *ShareService {
	return &ShareService{
		shares:    shares,
		documents: documents,
		cache:     cache,
	}
}

// CreateSession creates a share session over the owner's documents.
// ttlMinutes <= 0 falls back to the default.
func (s *ShareService) CreateSession(ctx context.Context, userID string, documentIDs []string, ttlMinutes int) (*entities.ShareSession, error) {
	if len(documentIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one document is required")
	}

	for _, id := range documentIDs {
		if _, err := s.documents.GetByID(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	if ttlMinutes <= 0 {
		ttlMinutes = DefaultShareTTLMinutes
	}

	session := &entities.ShareSession{
		ID:          uuid.New().String(),
		UserID:      userID,
		Code:        code,
		DocumentIDs: documentIDs,
		ExpiresAt:   time.Now().Add(time.Duration(ttlMinutes) * time.Minute),
		CreatedAt:   time.Now(),
	}

	if err := s.shares.Create(ctx, session); err != nil {
		return nil, err
	}

	s.cacheSession(ctx, session)
	return session, nil
}

// Redeem resolves a code to its document set. Expired, revoked and unknown
// codes are indistinguishable to the caller.
func (s *ShareService) Redeem(ctx context.Context, code string) (*entities.ShareSession, []*entities.Document, error) {
	session := s.cachedSession(ctx, code)
	if session == nil {
		var err error
		session, err = s.shares.GetByCode(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		s.cacheSession(ctx, session)
	}

	if !session.Redeemable(time.Now()) {
		return nil, nil, apperrors.NewNotFoundError("share code not found")
	}

	documents, err := s.documents.GetByIDs(ctx, session.DocumentIDs)
	if err != nil {
		return nil, nil, err
	}

	return session, documents, nil
}

// SharedDocument resolves one document through a redeemed code. The
// document must belong to the session's set.
func (s *ShareService) SharedDocument(ctx context.Context, code, documentID string) (*entities.Document, error) {
	_, documents, err := s.Redeem(ctx, code)
	if err != nil {
		return nil, err
	}

	for _, document := range documents {
		if document.ID == documentID {
			return document, nil
		}
	}

	return nil, apperrors.NewNotFoundError("document not found in share session")
}

// ListSessions retrieves the owner's sessions, newest first
func (s *ShareService) ListSessions(ctx context.Context, userID string) ([]*entities.ShareSession, error) {
	return s.shares.ListByUser(ctx, userID)
}

// RevokeSession revokes a session and drops its cached code entry
func (s *ShareService) RevokeSession(ctx context.Context, userID, id string) error {
	sessions, err := s.shares.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	var code string
	for _, session := range sessions {
		if session.ID == id {
			code = session.Code
			break
		}
	}

	if err := s.shares.Revoke(ctx, userID, id); err != nil {
		return err
	}

	if s.cache != nil && code != "" {
		if err := s.cache.Delete(ctx, shareCacheKeyPrefix+code); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("failed to drop cached share session")
		}
	}

	return nil
}

// generateCode picks a random 6-digit code not held by any active session
func (s *ShareService) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			return "", apperrors.NewInternalError("failed to generate share code", err)
		}
		code := fmt.Sprintf("%06d", n.Int64())

		inUse, err := s.shares.CodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}

	return "", apperrors.NewInternalError("failed to allocate an unused share code", nil)
}

func (s *ShareService) cacheSession(ctx context.Context, session *entities.ShareSession) {
	if s.cache == nil {
		return
	}

	ttl := int(time.Until(session.ExpiresAt).Seconds())
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, shareCacheKeyPrefix+session.Code, data, ttl); err != nil {
		log.Debug().Err(err).Str("session_id", session.ID).Msg("failed to cache share session")
	}
}

func (s *ShareService) cachedSession(ctx context.Context, code string) *entities.ShareSession {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, shareCacheKeyPrefix+code)
	if err != nil {
		return nil
	}

	session := &entities.ShareSession{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil
	}

	return session
}
