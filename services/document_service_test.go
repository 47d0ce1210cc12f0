package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandiRizqi/procurement-backend/storage"
)

// mockStore records object-store calls without touching a real backend.
type mockStore struct {
	putKeys      []string
	deleteKeys   []string
	presignKeys  []string
	presignTTLs  []time.Duration
	presignURL   string
	presignErr   error
	putErr       error
	lastPutBody  string
	lastPutSize  int64
	lastPutCtype string
}

func (m *mockStore) PutObject(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, _ := io.ReadAll(body)
	m.putKeys = append(m.putKeys, key)
	m.lastPutBody = string(data)
	m.lastPutSize = size
	m.lastPutCtype = contentType
	return nil
}

func (m *mockStore) DeleteObject(_ context.Context, key string) error {
	m.deleteKeys = append(m.deleteKeys, key)
	return nil
}

func (m *mockStore) PresignGet(_ context.Context, key string, expiresIn time.Duration) (string, error) {
	m.presignKeys = append(m.presignKeys, key)
	m.presignTTLs = append(m.presignTTLs, expiresIn)
	if m.presignErr != nil {
		return "", m.presignErr
	}
	return m.presignURL, nil
}

func newTestService(store storage.ObjectStore) *DocumentService {
	return NewDocumentService(store, storage.PathConfig{Environment: "dev"})
}

func TestSignedURLEmptyKeySkipsBackend(t *testing.T) {
	store := &mockStore{presignURL: "https://example.com/signed"}
	svc := newTestService(store)

	url, err := svc.SignedURL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Empty(t, store.presignKeys, "no-file documents must not hit the backend")
}

func TestSignedURLPresignsOnceWithFixedTTL(t *testing.T) {
	store := &mockStore{presignURL: "https://bucket.example.com/dev/vendors/acme/cv.pdf?sig=abc"}
	svc := newTestService(store)

	url, err := svc.SignedURL(context.Background(), "dev/vendors/acme/cv.pdf")
	require.NoError(t, err)

	assert.Equal(t, store.presignURL, url, "signed URL must be returned unmodified")
	require.Len(t, store.presignKeys, 1)
	assert.Equal(t, "dev/vendors/acme/cv.pdf", store.presignKeys[0])
	assert.Equal(t, 3600*time.Second, store.presignTTLs[0])
}

func TestUploadVendorDocumentReturnsComputedKey(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	key, err := svc.UploadVendorDocument(context.Background(), "acme corp", "cv.pdf",
		strings.NewReader("content"), 7, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, "dev/vendors/acme_corp/cv.pdf", key)
	require.Len(t, store.putKeys, 1)
	assert.Equal(t, key, store.putKeys[0])
	assert.Equal(t, "content", store.lastPutBody)
	assert.Equal(t, int64(7), store.lastPutSize)
	assert.Equal(t, "application/pdf", store.lastPutCtype)
}

func TestUploadSameFilenameOverwrites(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	first, err := svc.UploadVendorDocument(context.Background(), "acme corp", "cv.pdf",
		strings.NewReader("v1"), 2, "application/pdf")
	require.NoError(t, err)
	second, err := svc.UploadVendorDocument(context.Background(), "acme corp", "cv.pdf",
		strings.NewReader("v2"), 2, "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same owner and filename must map to the same object")
}

func TestUploadParticipantFileKeyNesting(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	key, err := svc.UploadParticipantFile(context.Background(), "CV Maju Jaya", "Jembatan Musi III",
		"penawaran.pdf", strings.NewReader("bid"), 3, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "dev/vendors/CV_Maju_Jaya/Jembatan_Musi_III/penawaran.pdf", key)
}

func TestRemoveEmptyKeyIsNoop(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	require.NoError(t, svc.Remove(context.Background(), ""))
	assert.Empty(t, store.deleteKeys)
}

func TestRemoveDeletesObject(t *testing.T) {
	store := &mockStore{}
	svc := newTestService(store)

	require.NoError(t, svc.Remove(context.Background(), "dev/vendors/acme/cv.pdf"))
	assert.Equal(t, []string{"dev/vendors/acme/cv.pdf"}, store.deleteKeys)
}
