package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/shared"
	"github.com/lenses/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormArtifactRepository implements document.ArtifactRepository using GORM
type GormArtifactRepository struct {
	db *gorm.DB
}

// NewGormArtifactRepository creates a new GormArtifactRepository
func NewGormArtifactRepository(db *gorm.DB) *GormArtifactRepository {
	return &GormArtifactRepository{db: db}
}

// FindByIDForTenant finds an artifact by ID within a specific tenant
func (r *GormArtifactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*document.Artifact, error) {
	var model models.ArtifactModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds artifacts for a tenant, newest first unless the
// filter orders otherwise
func (r *GormArtifactRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]document.Artifact, error) {
	filter = filter.Normalize()

	var rows []models.ArtifactModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ArtifactModel{}).Where("tenant_id = ?", tenantID), filter)
	query = query.Order(artifactOrder(filter)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	artifacts := make([]document.Artifact, len(rows))
	for i := range rows {
		artifacts[i] = *rows[i].ToDomain()
	}
	return artifacts, nil
}

// CountForTenant returns the number of artifacts matching the filter
func (r *GormArtifactRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ArtifactModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save inserts the artifact or, when its ID exists, updates it in place
func (r *GormArtifactRepository) Save(ctx context.Context, artifact *document.Artifact) error {
	model := models.ArtifactModelFromDomain(artifact)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"artifact_type", "title", "payload", "updated_at"}),
		}).
		Create(model).Error
}

// DeleteForTenant deletes an artifact by ID within a specific tenant
func (r *GormArtifactRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.ArtifactModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies the type and search filters
func (r *GormArtifactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type", "artifact_type":
			query = query.Where("artifact_type = ?", value)
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("title ILIKE ?", "%"+escapeLike(search)+"%")
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ document.ArtifactRepository = (*GormArtifactRepository)(nil)

// artifactSortColumns whitelists the columns a listing may be ordered by
var artifactSortColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"title":         true,
	"artifact_type": true,
}

// artifactOrder falls back to created_at for unknown columns and to
// descending for anything but "asc"
func artifactOrder(filter shared.Filter) clause.OrderByColumn {
	column := strings.TrimSpace(filter.OrderBy)
	if !artifactSortColumns[column] {
		column = "created_at"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc"),
	}
}
