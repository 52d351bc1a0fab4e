package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PDFStorage stores rendered PDFs under keys of the form
// {tenant}/{yyyy}/{mm}/{document}.pdf
type PDFStorage interface {
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns a link a client can download the PDF from
	URL(ctx context.Context, key string) (string, error)
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	PDFData    []byte
}

// StoreResult describes a stored PDF
type StoreResult struct {
	Key  string
	URL  string
	Size int64
}

func (req *StoreRequest) validate() error {
	switch {
	case req == nil:
		return NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	case req.TenantID == uuid.Nil:
		return NewRenderError(ErrCodeStorageFailed, "tenant ID is required", nil)
	case req.DocumentID == uuid.Nil:
		return NewRenderError(ErrCodeStorageFailed, "document ID is required", nil)
	case len(req.PDFData) == 0:
		return NewRenderError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}
	return nil
}

// storageKey builds the slash-separated key for req at time now
func storageKey(req *StoreRequest, now time.Time) string {
	return path.Join(
		req.TenantID.String(),
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		req.DocumentID.String()+".pdf",
	)
}

// validKey rejects absolute keys and keys with ".." components
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || filepath.IsAbs(key) {
		return false
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '/' || r == '\\' })
	return !slices.Contains(parts, "..")
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	BasePath string // default ./data/documents
	BaseURL  string // URL prefix the files are served under
	Logger   *zap.Logger
}

// FileSystemStorage stores PDFs on the local file system
type FileSystemStorage struct {
	basePath string
	baseURL  string
	logger   *zap.Logger
	now      func() time.Time
}

// NewFileSystemStorage creates the base directory and returns the storage
func NewFileSystemStorage(cfg FileSystemStorageConfig) (*FileSystemStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./data/documents"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "/files/documents"
	}
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create storage directory "+cfg.BasePath, err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemStorage{
		basePath: cfg.BasePath,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Store writes the PDF and returns its key and URL
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	key := storageKey(req, s.now())
	full := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}
	if err := os.WriteFile(full, req.PDFData, 0o644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}

	url, _ := s.URL(ctx, key)
	s.logger.Info("PDF stored", zap.String("key", key), zap.Int("size", len(req.PDFData)))
	return &StoreResult{Key: key, URL: url, Size: int64(len(req.PDFData))}, nil
}

// Get opens a stored PDF
func (s *FileSystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	full, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewRenderError(ErrCodeStorageFailed, "PDF not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}
	return f, nil
}

// Delete removes a stored PDF; a missing file is not an error
func (s *FileSystemStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return NewRenderError(ErrCodeStorageFailed, "failed to delete PDF file", err)
	}
	return nil
}

// URL joins the configured base URL and key
func (s *FileSystemStorage) URL(_ context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", NewRenderError(ErrCodeStorageFailed, "invalid key", nil)
	}
	return s.baseURL + "/" + path.Clean(filepath.ToSlash(key)), nil
}

// resolve maps key to a path under the base directory
func (s *FileSystemStorage) resolve(key string) (string, error) {
	if !validKey(key) {
		s.logger.Warn("blocked storage key", zap.String("key", key))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid key", nil)
	}
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	full := filepath.Join(absBase, filepath.FromSlash(key))
	if !strings.HasPrefix(full, absBase+string(filepath.Separator)) {
		s.logger.Warn("storage key escapes base path", zap.String("key", key))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid key", nil)
	}
	return full, nil
}

var _ PDFStorage = (*FileSystemStorage)(nil)
