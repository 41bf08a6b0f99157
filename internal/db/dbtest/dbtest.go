// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/db"
)

// New returns a migrated sqlite database in the test's temp directory.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "onyx.db")
	database, err := db.Init(db.DriverSQLite, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.RunMigrations(context.Background(), database.DB, db.DriverSQLite); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return database
}
