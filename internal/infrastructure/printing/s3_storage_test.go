package printing

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is a minimal path-style S3 endpoint keeping objects in memory
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(body)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Storage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(context.Background(), S3StorageConfig{
		Endpoint:          srv.URL,
		Bucket:            "documents",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		UsePathStyle:      true,
		PresignExpiration: 5 * time.Minute,
	})
	require.NoError(t, err)
	s.now = fixedNow
	return s, fake
}

func TestNewS3Storage_Validation(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3StorageConfig{AccessKey: "k", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3Storage(context.Background(), S3StorageConfig{Bucket: "b"})
	assert.ErrorContains(t, err, "access key")
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "", normalizeEndpoint("", true))
	assert.Equal(t, "http://minio:9000", normalizeEndpoint("minio:9000", false))
	assert.Equal(t, "https://s3.example.com", normalizeEndpoint("s3.example.com", true))
	assert.Equal(t, "http://x", normalizeEndpoint("http://x", true))
}

func TestS3Storage_StoreGetDelete(t *testing.T) {
	s, fake := newTestS3Storage(t)
	ctx := context.Background()
	tenant, doc := uuid.New(), uuid.New()
	pdf := []byte("%PDF-1.7 s3")

	res, err := s.Store(ctx, &StoreRequest{TenantID: tenant, DocumentID: doc, PDFData: pdf})
	require.NoError(t, err)

	wantKey := tenant.String() + "/2025/03/" + doc.String() + ".pdf"
	assert.Equal(t, wantKey, res.Key)
	assert.Equal(t, pdf, fake.objects["documents/"+wantKey])

	u, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, "/documents/"+wantKey, u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	rc, err := s.Get(ctx, res.Key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pdf, data)

	require.NoError(t, s.Delete(ctx, res.Key))
	assert.Empty(t, fake.objects)

	_, err = s.Get(ctx, res.Key)
	code, ok := RenderErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeStorageFailed, code)
}

func TestS3Storage_RejectsInvalidKeys(t *testing.T) {
	s, _ := newTestS3Storage(t)
	_, err := s.Get(context.Background(), "../x.pdf")
	assert.Error(t, err)
	assert.Error(t, s.Delete(context.Background(), "/x.pdf"))
	_, err = s.URL(context.Background(), "")
	assert.Error(t, err)
}
