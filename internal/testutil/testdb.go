package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with the schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestRepos returns SQLite repositories over a fresh in-memory database.
func NewTestRepos(t *testing.T) (repository.Repos, *sql.DB) {
	t.Helper()
	database := NewTestDB(t)
	return repository.NewSQLiteRepos(database), database
}
