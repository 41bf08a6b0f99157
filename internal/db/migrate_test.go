package db_test

import (
	"context"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxhabits/onyx/internal/db"
	"github.com/onyxhabits/onyx/internal/db/dbtest"
)

func TestMigrationsApplyAndRollBack(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)

	migrator, err := db.NewMigrator(database.DB, db.DriverSQLite)
	require.NoError(t, err)

	version, err := migrator.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), version)

	status, err := migrator.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 5)
	for _, s := range status {
		assert.Equal(t, goose.StateApplied, s.State, s.Source.Path)
	}

	for _, table := range []string{"users", "tokens", "habits", "completions", "follows", "integrations", "files"} {
		var n int
		err := database.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	require.NoError(t, migrator.Down(ctx))
	version, err = migrator.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)
}

func TestCompletionsAreUniquePerHabitDay(t *testing.T) {
	database := dbtest.New(t)

	database.MustExec(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ('u1', 'ada', 'ada@example.com', 'x', CURRENT_TIMESTAMP)`)
	database.MustExec(`INSERT INTO habits (id, user_id, name, name_key, created_at, updated_at) VALUES ('h1', 'u1', 'Run', 'run', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	database.MustExec(`INSERT INTO completions (id, habit_id, user_id, day, completed_at) VALUES ('c1', 'h1', 'u1', '2026-03-11', CURRENT_TIMESTAMP)`)

	_, err := database.Exec(`INSERT INTO completions (id, habit_id, user_id, day, completed_at) VALUES ('c2', 'h1', 'u1', '2026-03-11', CURRENT_TIMESTAMP)`)
	assert.Error(t, err)

	_, err = database.Exec(`DELETE FROM habits WHERE id = 'h1'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM completions`))
	assert.Zero(t, n)
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := db.Init("mysql", "root@/onyx")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInitEnforcesForeignKeys(t *testing.T) {
	database, err := db.Init(db.DriverSQLite, t.TempDir()+"/fk.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	var enabled int
	require.NoError(t, database.Get(&enabled, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, enabled)
}
