package database_test

import (
	"path/filepath"
	"testing"

	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/nyumba-homes/storefront-api/internal/database"
	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "storefront.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
	}

	db, err := database.NewDatabase(cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.ClientStateEntry{}))

	stats, err := database.HealthCheckWithStats(db)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MaxOpenConnections)
	assert.NoError(t, database.HealthCheck(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Error(t, database.HealthCheck(db))
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := database.NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestHealthCheck_NilDB(t *testing.T) {
	assert.Error(t, database.HealthCheck(nil))
}
