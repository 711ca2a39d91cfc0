package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/heritage-sites/internal/auth"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/database"
)

// writeTestConfig writes a minimal valid config pointing at a temp database.
func writeTestConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()

	dir := t.TempDir()
	dbPath = filepath.Join(dir, "heritage.db")
	configPath = filepath.Join(dir, "config.yaml")

	content := `
server:
  host: "127.0.0.1"
  port: 18000
database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5
logging:
  level: error
  format: text
  output: stderr
session:
  secret: "test-secret-key-at-least-32-characters-long"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath, dbPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("HERITAGE_CONFIG", "")
	if got := resolveConfigPath(""); got != defaultConfigPath {
		t.Errorf("resolveConfigPath(\"\") = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("HERITAGE_CONFIG", "/etc/heritage/config.yaml")
	if got := resolveConfigPath(""); got != "/etc/heritage/config.yaml" {
		t.Errorf("env path not used, got %q", got)
	}
	if got := resolveConfigPath("custom.yaml"); got != "custom.yaml" {
		t.Errorf("flag should win over env, got %q", got)
	}
}

// TestServe_InvalidConfig verifies serve fails with an invalid config path.
func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("HERITAGE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := runServe(ctx, resolveConfigPath("")); err == nil {
		t.Fatal("runServe() should fail with invalid config path")
	}
}

func TestMigrateCommand(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	out, err := execute(t, "--config", configPath, "migrate")
	if err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out, "0 pending") {
		t.Errorf("migrate output = %q, want 0 pending", out)
	}

	out, err = execute(t, "--config", configPath, "migrate", "--down")
	if err != nil {
		t.Fatalf("migrate --down error = %v", err)
	}
	if !strings.Contains(out, "1 pending") {
		t.Errorf("migrate --down output = %q, want 1 pending", out)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestUserCreateCommand(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	out, err := execute(t, "--config", configPath, "user", "create",
		"--username", "curator", "--display-name", "Head Curator", "--password", "long-enough-password")
	if err != nil {
		t.Fatalf("user create error = %v", err)
	}
	if !strings.Contains(out, "created user curator") {
		t.Errorf("output = %q", out)
	}

	db, err := database.Open(config.DatabaseConfig{Path: dbPath, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	user, err := auth.NewUserRepository(db.DB).GetByUsername(context.Background(), "curator")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if user.DisplayName != "Head Curator" || user.Role != auth.RoleEditor {
		t.Errorf("user = %+v", user)
	}
}

func TestUserCreateCommand_RejectsShortPassword(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	_, err := execute(t, "--config", configPath, "user", "create", "--username", "curator", "--password", "short")
	if err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestUserCreateCommand_RequiresFlags(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	if _, err := execute(t, "--config", configPath, "user", "create"); err == nil {
		t.Fatal("expected error when --username and --password are missing")
	}
}

// openTestUsers opens the database behind writeTestConfig for assertions.
func openTestUsers(t *testing.T, dbPath string) *auth.SQLiteUserRepository {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Path: dbPath, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return auth.NewUserRepository(db.DB)
}

func TestUserPasswdCommand(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	if _, err := execute(t, "--config", configPath, "user", "create",
		"--username", "curator", "--password", "first-password"); err != nil {
		t.Fatalf("user create error = %v", err)
	}

	if _, err := execute(t, "--config", configPath, "user", "passwd",
		"--username", "curator", "--password", "tiny"); err == nil {
		t.Error("passwd should reject a short password")
	}
	if _, err := execute(t, "--config", configPath, "user", "passwd",
		"--username", "ghost", "--password", "second-password"); err == nil {
		t.Error("passwd should fail for an unknown user")
	}

	out, err := execute(t, "--config", configPath, "user", "passwd",
		"--username", "curator", "--password", "second-password")
	if err != nil {
		t.Fatalf("user passwd error = %v", err)
	}
	if !strings.Contains(out, "password changed for curator") {
		t.Errorf("output = %q", out)
	}

	users := openTestUsers(t, dbPath)
	ctx := context.Background()
	if _, err := auth.Authenticate(ctx, users, "curator", "first-password"); err == nil {
		t.Error("old password still accepted")
	}
	if _, err := auth.Authenticate(ctx, users, "curator", "second-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestUserDisableEnableCommands(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	if _, err := execute(t, "--config", configPath, "user", "create",
		"--username", "curator", "--password", "first-password"); err != nil {
		t.Fatalf("user create error = %v", err)
	}

	out, err := execute(t, "--config", configPath, "user", "disable", "--username", "curator")
	if err != nil {
		t.Fatalf("user disable error = %v", err)
	}
	if !strings.Contains(out, "disabled user curator") {
		t.Errorf("output = %q", out)
	}

	users := openTestUsers(t, dbPath)
	ctx := context.Background()
	user, err := users.GetByUsername(ctx, "curator")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if user.IsActive {
		t.Error("user still active after disable")
	}

	if _, err := execute(t, "--config", configPath, "user", "enable", "--username", "curator"); err != nil {
		t.Fatalf("user enable error = %v", err)
	}
	user, err = users.GetByUsername(ctx, "curator")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if !user.IsActive {
		t.Error("user inactive after enable")
	}

	if _, err := execute(t, "--config", configPath, "user", "disable"); err == nil {
		t.Error("disable should require --username")
	}
}
