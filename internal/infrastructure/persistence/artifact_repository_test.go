package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lenses/backend/internal/domain/document"
	"github.com/lenses/backend/internal/domain/document/record"
	"github.com/lenses/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var artifactColumns = []string{"id", "tenant_id", "artifact_type", "title", "payload", "created_at", "updated_at"}

// newMockArtifactRepository creates a GormArtifactRepository with a mocked SQL connection
func newMockArtifactRepository(t *testing.T) (*GormArtifactRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormArtifactRepository(gormDB), mock, mockDB
}

func TestGormArtifactRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds artifact within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		tenantID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(artifactColumns).
			AddRow(id, tenantID, "INVOICE", "March invoice", []byte(`{"invoiceNumber":"INV-7","currency":"EUR"}`), now, now)

		mock.ExpectQuery(`SELECT \* FROM "artifacts" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, id, 1).
			WillReturnRows(rows)

		artifact, err := repo.FindByIDForTenant(context.Background(), tenantID, id)

		require.NoError(t, err)
		assert.Equal(t, id, artifact.ID)
		assert.Equal(t, tenantID, artifact.TenantID)
		assert.Equal(t, document.ArtifactTypeInvoice, artifact.Type)
		assert.Equal(t, "March invoice", artifact.Title)
		assert.Equal(t, "INV-7", artifact.Payload["invoiceNumber"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "artifacts" WHERE tenant_id = \$1 AND id = \$2`).
			WillReturnRows(sqlmock.NewRows(artifactColumns))

		artifact, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, artifact)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates driver errors", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT \* FROM "artifacts"`).WillReturnError(boom)

		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, boom)
	})
}

func TestGormArtifactRepository_FindAllForTenant(t *testing.T) {
	t.Run("applies type filter, sort and paging", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(artifactColumns).
			AddRow(uuid.New(), tenantID, "WORKOUT", "Week 1", []byte(`{"name":"Strength"}`), now, now).
			AddRow(uuid.New(), tenantID, "WORKOUT", "Week 2", []byte(`{}`), now, now)

		mock.ExpectQuery(`SELECT \* FROM "artifacts" WHERE tenant_id = \$1 AND artifact_type = \$2 ORDER BY "title" LIMIT \$3 OFFSET \$4`).
			WithArgs(tenantID, "WORKOUT", 10, 10).
			WillReturnRows(rows)

		filter := shared.Filter{
			Page:     2,
			PageSize: 10,
			OrderBy:  "title",
			OrderDir: "asc",
			Filters:  map[string]any{"type": "WORKOUT"},
		}
		artifacts, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		require.NoError(t, err)
		require.Len(t, artifacts, 2)
		assert.Equal(t, "Week 1", artifacts[0].Title)
		assert.Equal(t, record.Record{}, artifacts[1].Payload)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown sort fields", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "artifacts" WHERE tenant_id = \$1 ORDER BY "created_at" DESC LIMIT \$2`).
			WithArgs(tenantID, 20).
			WillReturnRows(sqlmock.NewRows(artifactColumns))

		filter := shared.Filter{OrderBy: "payload; DROP TABLE artifacts"}
		artifacts, err := repo.FindAllForTenant(context.Background(), tenantID, filter)

		require.NoError(t, err)
		assert.Empty(t, artifacts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("escapes LIKE wildcards in search", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "artifacts" WHERE tenant_id = \$1 AND title ILIKE \$2`).
			WithArgs(tenantID, `%50\%_off%`, 20).
			WillReturnRows(sqlmock.NewRows(artifactColumns))

		_, err := repo.FindAllForTenant(context.Background(), tenantID, shared.Filter{Search: " 50%_off "})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArtifactRepository_CountForTenant(t *testing.T) {
	repo, mock, mockDB := newMockArtifactRepository(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "artifacts" WHERE tenant_id = \$1 AND artifact_type = \$2`).
		WithArgs(tenantID, "CONTRACT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{
		Filters: map[string]any{"type": "CONTRACT"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormArtifactRepository_Save(t *testing.T) {
	repo, mock, mockDB := newMockArtifactRepository(t)
	defer mockDB.Close()

	artifact, err := document.NewArtifact(uuid.New(), document.ArtifactTypeMealPlan, "Cut", record.Record{"name": "Cut"})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "artifacts" .* ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), artifact))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormArtifactRepository_DeleteForTenant(t *testing.T) {
	t.Run("deletes existing artifact", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		tenantID, id := uuid.New(), uuid.New()
		mock.ExpectExec(`DELETE FROM "artifacts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteForTenant(context.Background(), tenantID, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockArtifactRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "artifacts" WHERE tenant_id = \$1 AND id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}
