package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	version, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "tasks", "users", "notifications"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_tasks_board",
		"idx_users_email",
		"idx_notifications_created",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_TaskCheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES ('p1', 'EWM01', 'EWM Platform', '2025-08-16T00:00:00Z', '2025-08-16T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tasks (id, project_id, column_name, position, title, type, priority, created_at, updated_at)
		VALUES ('t1', 'p1', 'backlog', 0, 'x', 'Epic', 'Low', 'now', 'now')`)
	assert.Error(t, err, "unknown task type should violate CHECK")
}

func TestOpenDB_FileDatabaseKeepsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.db")

	first, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenDB(path)
	require.NoError(t, err)
	defer second.Close()

	version, err := SchemaVersion(second)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	var mode string
	require.NoError(t, second.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
