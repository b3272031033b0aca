// Package storetest opens throwaway SQLite repositories for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/repguardian/dashboard-api/internal/store"
)

// SetupTestDB initializes an in-memory SQLite database with every table migrated.
func SetupTestDB(t *testing.T) *store.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), store.GormConfig())
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := store.New(db)
	require.NoError(t, repo.Migrate(context.Background()), "failed to migrate test database")
	return repo
}
