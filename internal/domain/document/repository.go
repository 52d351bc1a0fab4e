package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/shared"
)

// ArtifactRepository defines the interface for artifact persistence
type ArtifactRepository interface {
	// FindByIDForTenant finds an artifact by ID within a specific tenant.
	// Returns shared.ErrNotFound when no such artifact exists.
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Artifact, error)

	// FindAllForTenant finds artifacts for a tenant. A "type" entry in
	// filter.Filters restricts the result to one ArtifactType.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Artifact, error)

	// CountForTenant returns the number of artifacts matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save saves an artifact (insert or update)
	Save(ctx context.Context, artifact *Artifact) error

	// DeleteForTenant deletes an artifact by ID within a specific tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
