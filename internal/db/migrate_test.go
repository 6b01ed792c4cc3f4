package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"phases", "categories", "tasks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_IndentCheckConstraint(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO tasks (phase, name, owner, status, priority, indent_level, created_at, updated_at)
		VALUES ('Phase 1', 'deep', 'shared', 'not_started', 'required', 4, '', '')`)
	assert.Error(t, err)
}

func TestMigrate_DeletingPhaseCascadesCategories(t *testing.T) {
	db := openTestDB(t)
	res, err := db.Exec(`INSERT INTO phases (name, sort_order, created_at) VALUES ('Phase 1', 1, '')`)
	require.NoError(t, err)
	phaseID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO categories (name, phase_id, sort_order, created_at, updated_at) VALUES ('UI', ?, 1, '', '')`, phaseID)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM phases WHERE id = ?`, phaseID)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&n))
	assert.Equal(t, 0, n)
}
