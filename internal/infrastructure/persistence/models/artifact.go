package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/lenses/backend/internal/domain/shared"
)

// ArtifactModel is the GORM model for the artifacts table. The payload is the
// raw domain record stored as JSONB.
type ArtifactModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ArtifactType string         `gorm:"column:artifact_type;type:varchar(32);not null"`
	Title        string         `gorm:"type:varchar(200);not null"`
	Payload      map[string]any `gorm:"type:jsonb;serializer:json;not null"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

// TableName returns the table name for ArtifactModel
func (ArtifactModel) TableName() string {
	return "artifacts"
}

// ToDomain converts the model to a domain Artifact
func (m *ArtifactModel) ToDomain() *document.Artifact {
	payload := record.Record(m.Payload)
	if payload == nil {
		payload = record.Record{}
	}
	return &document.Artifact{
		TenantEntity: shared.TenantEntity{
			ID:        m.ID,
			TenantID:  m.TenantID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Type:    document.ArtifactType(m.ArtifactType),
		Title:   m.Title,
		Payload: payload,
	}
}

// ArtifactModelFromDomain creates an ArtifactModel from a domain Artifact
func ArtifactModelFromDomain(a *document.Artifact) *ArtifactModel {
	return &ArtifactModel{
		ID:           a.ID,
		TenantID:     a.TenantID,
		ArtifactType: string(a.Type),
		Title:        a.Title,
		Payload:      map[string]any(a.Payload),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
