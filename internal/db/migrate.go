package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate brings the schema up to date. Each entry in migrations is one
// schema version; PRAGMA user_version records how many have been applied.
func Migrate(db *sql.DB) error {
	ctx := context.Background()

	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if err := applyMigration(ctx, db, i+1, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// SchemaVersion returns the number of applied migrations.
func SchemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return tx.Commit()
}

var migrations = [][]string{
	// 1: projects and their board tasks
	{
		`CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			short_id   TEXT NOT NULL,
			name       TEXT NOT NULL,
			owner      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'active'
			           CHECK(status IN ('active','paused','done','archived')),
			layout     TEXT NOT NULL DEFAULT 'simple',
			due_date   TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			column_name TEXT NOT NULL,
			position    INTEGER NOT NULL,
			title       TEXT NOT NULL,
			type        TEXT NOT NULL CHECK(type IN ('Bug','Feature','Improvement')),
			priority    TEXT NOT NULL CHECK(priority IN ('Low','Medium','High')),
			assignee    TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_board ON tasks(project_id, column_name, position)`,
	},

	// 2: users
	{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'Employee'
			              CHECK(role IN ('Admin','Manager','Employee')),
			status        TEXT NOT NULL DEFAULT 'active'
			              CHECK(status IN ('active','inactive')),
			last_activity TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	},

	// 3: notifications
	{
		`CREATE TABLE IF NOT EXISTS notifications (
			id         TEXT PRIMARY KEY,
			message    TEXT NOT NULL,
			read       INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at)`,
	},
}
