package document

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/lenses/backend/internal/domain/shared"
)

// Artifact is the stored envelope around one domain record.
// Sections are never stored with it; they are assembled from Payload on demand.
type Artifact struct {
	shared.TenantEntity
	Type    ArtifactType
	Title   string
	Payload record.Record
}

// NewArtifact creates a new artifact
func NewArtifact(tenantID uuid.UUID, artifactType ArtifactType, title string, payload record.Record) (*Artifact, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !artifactType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_ARTIFACT_TYPE", "Unsupported artifact type: %s", artifactType)
	}
	if payload == nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Artifact payload must be an object")
	}
	title = strings.TrimSpace(title)
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return &Artifact{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Type:         artifactType,
		Title:        title,
		Payload:      payload,
	}, nil
}

// DisplayTitle returns the explicit title, falling back to the type's display name
func (a *Artifact) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return a.Type.DisplayName()
}

// UpdatePayload replaces the record carried by the artifact
func (a *Artifact) UpdatePayload(payload record.Record) error {
	if payload == nil {
		return shared.NewDomainError("INVALID_PAYLOAD", "Artifact payload must be an object")
	}
	a.Payload = payload
	a.Touch()
	return nil
}
