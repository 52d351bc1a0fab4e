package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/shared"
	"github.com/lenses/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/mock"
)

// MockArtifactRepository implements document.ArtifactRepository for testing
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Artifact, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.Artifact, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArtifactRepository) Save(ctx context.Context, artifact *document.Artifact) error {
	return m.Called(ctx, artifact).Error(0)
}

func (m *MockArtifactRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockPDFRenderer implements printing.PDFRenderer for testing
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

// MockPDFStorage implements printing.PDFStorage for testing
type MockPDFStorage struct {
	mock.Mock
}

func (m *MockPDFStorage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.StoreResult), args.Error(1)
}

func (m *MockPDFStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockPDFStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockPDFStorage) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
