package shared

import (
	"time"

	"github.com/google/uuid"
)

// TenantEntity provides the identity and audit fields shared by tenant-owned entities
type TenantEntity struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTenantEntity creates a new entity envelope with a generated ID
func NewTenantEntity(tenantID uuid.UUID) TenantEntity {
	now := time.Now().UTC()
	return TenantEntity{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the last update timestamp
func (e *TenantEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}
