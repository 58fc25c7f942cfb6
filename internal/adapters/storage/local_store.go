package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/saudehub/backend/internal/domain/providers"
)

// LocalStore implements the FileStore interface on the local filesystem.
// Files live under basePath/<userID>/<uuid><ext>; the returned storage path
// is relative to basePath so the base directory can move between
// deployments.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new local file store rooted at basePath
func NewLocalStore(basePath string) (providers.FileStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Save writes the content and returns its storage path and size
func (s *LocalStore) Save(ctx context.Context, userID, fileName string, content io.Reader) (string, int64, error) {
	userDir := filepath.Join(s.basePath, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create user directory: %w", err)
	}

	relPath := filepath.Join(userID, uuid.New().String()+sanitizeExt(fileName))
	fullPath := filepath.Join(s.basePath, relPath)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, size, nil
}

// Open opens stored content for reading
func (s *LocalStore) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.basePath, storagePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes stored content; removing a missing path is not an error
func (s *LocalStore) Remove(ctx context.Context, storagePath string) error {
	err := os.Remove(filepath.Join(s.basePath, storagePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// sanitizeExt keeps the original extension when it looks safe, otherwise
// drops it. The stored name is always a fresh uuid so the original file
// name never reaches the filesystem.
func sanitizeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
