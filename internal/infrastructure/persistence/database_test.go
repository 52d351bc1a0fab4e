package persistence

import (
	"context"
	"testing"

	"github.com/lenses/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	return NewDatabaseFromGorm(db)
}

func TestDatabase_PingAndStats(t *testing.T) {
	db := newSQLiteDatabase(t)

	require.NoError(t, db.Ping(context.Background()))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 1)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestDatabase_PingHonoursContext(t *testing.T) {
	db := newSQLiteDatabase(t)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, db.Ping(ctx), context.Canceled)
}

func TestArtifactOrder(t *testing.T) {
	tests := []struct {
		name   string
		filter shared.Filter
		column string
		desc   bool
	}{
		{"whitelisted ascending", shared.Filter{OrderBy: " title ", OrderDir: "ASC"}, "title", false},
		{"unknown column", shared.Filter{OrderBy: "payload", OrderDir: "asc"}, "created_at", false},
		{"empty defaults", shared.Filter{}, "created_at", true},
		{"unknown direction", shared.Filter{OrderBy: "updated_at", OrderDir: "sideways"}, "updated_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := artifactOrder(tt.filter)
			assert.Equal(t, tt.column, order.Column.Name)
			assert.Equal(t, tt.desc, order.Desc)
		})
	}
}
