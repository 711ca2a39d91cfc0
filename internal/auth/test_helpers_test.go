package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/database"
	_ "github.com/nerrad567/heritage-sites/migrations"
)

// testDB opens a temporary SQLite database with every migration applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "auth.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db.DB
}

// seedTestUser inserts an active user whose password is "password123".
func seedTestUser(t *testing.T, db *sql.DB, username string, role Role) *User {
	t.Helper()

	user, err := NewUser(username, "", "password123", role)
	if err != nil {
		t.Fatalf("NewUser(%q) error = %v", username, err)
	}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %q: %v", username, err)
	}
	return user
}
