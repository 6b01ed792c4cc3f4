package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS phases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phase_id INTEGER NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phase TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		effort TEXT,
		note TEXT,
		start_date TEXT,
		end_date TEXT,
		indent_level INTEGER NOT NULL DEFAULT 0 CHECK (indent_level BETWEEN 0 AND 3),
		sort_order REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_phase ON categories(phase_id, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_bucket ON tasks(phase, category, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_start ON tasks(start_date)`,
}
