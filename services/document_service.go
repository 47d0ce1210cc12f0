package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/SandiRizqi/procurement-backend/storage"
)

// SignedURLTTL is the fixed lifetime of every presigned document URL.
const SignedURLTTL = 3600 * time.Second

// DocumentService resolves storage keys for uploaded documents and issues
// presigned read URLs for stored ones. Keys are computed from the owning
// entity names at upload time and are never recomputed afterwards; signed
// URLs are minted on every request and never cached.
type DocumentService struct {
	store storage.ObjectStore
	path  storage.PathConfig
}

func NewDocumentService(store storage.ObjectStore, path storage.PathConfig) *DocumentService {
	return &DocumentService{store: store, path: path}
}

// SignedURL returns a time-limited URL for the stored file, or an empty
// string without touching the backend when the document has no file.
func (s *DocumentService) SignedURL(ctx context.Context, fileKey string) (string, error) {
	if fileKey == "" {
		return "", nil
	}
	return s.store.PresignGet(ctx, fileKey, SignedURLTTL)
}

// UploadVendorDocument stores the file under the vendor document key and
// returns that key.
func (s *DocumentService) UploadVendorDocument(ctx context.Context, vendorName, filename string, body io.Reader, size int64, contentType string) (string, error) {
	key := storage.VendorDocumentKey(s.path, vendorName, filename)
	if err := s.store.PutObject(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("store vendor document: %w", err)
	}
	return key, nil
}

// UploadPersonDocument stores the file under the person document key and
// returns that key.
func (s *DocumentService) UploadPersonDocument(ctx context.Context, vendorName, personName, filename string, body io.Reader, size int64, contentType string) (string, error) {
	key := storage.PersonDocumentKey(s.path, vendorName, personName, filename)
	if err := s.store.PutObject(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("store person document: %w", err)
	}
	return key, nil
}

// UploadParticipantFile stores a bid file under the participant key and
// returns that key.
func (s *DocumentService) UploadParticipantFile(ctx context.Context, vendorName, projectName, filename string, body io.Reader, size int64, contentType string) (string, error) {
	key := storage.ParticipantFileKey(s.path, vendorName, projectName, filename)
	if err := s.store.PutObject(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("store participant file: %w", err)
	}
	return key, nil
}

// Remove deletes the stored object for a key. Callers treat failures as
// non-fatal; the database row is the source of truth.
func (s *DocumentService) Remove(ctx context.Context, fileKey string) error {
	if fileKey == "" {
		return nil
	}
	return s.store.DeleteObject(ctx, fileKey)
}
