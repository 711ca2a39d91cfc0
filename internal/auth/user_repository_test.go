package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, db, "curator", RoleEditor)
	if !strings.HasPrefix(user.ID, "usr-") {
		t.Errorf("ID = %q, want usr- prefix", user.ID)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "curator" {
		t.Errorf("Username = %q, want curator", got.Username)
	}
	if got.DisplayName != "curator" {
		t.Errorf("DisplayName = %q, want username fallback", got.DisplayName)
	}
	if got.Role != RoleEditor {
		t.Errorf("Role = %q, want %q", got.Role, RoleEditor)
	}
	if !got.IsActive {
		t.Error("IsActive should be true")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	byName, err := repo.GetByUsername(ctx, "curator")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("GetByUsername() ID = %q, want %q", byName.ID, user.ID)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrUserNotFound", err)
	}
	if err := repo.SetActive(ctx, "usr-missing", false); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetActive() error = %v, want ErrUserNotFound", err)
	}
	if err := repo.UpdatePassword(ctx, "usr-missing", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UpdatePassword() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	seedTestUser(t, db, "dup", RoleEditor)

	again, err := NewUser("dup", "", "password123", RoleEditor)
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	if err := NewUserRepository(db).Create(context.Background(), again); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Create() error = %v, want ErrUsernameExists", err)
	}
}

func TestUserRepository_ListAndCount(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("List() on empty db = %d users", len(users))
	}

	seedTestUser(t, db, "zed", RoleEditor)
	seedTestUser(t, db, "amy", RoleAdmin)

	users, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 || users[0].Username != "amy" || users[1].Username != "zed" {
		t.Errorf("List() = %+v, want amy then zed", users)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestUserRepository_SetActiveAndPassword(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedTestUser(t, db, "editor1", RoleEditor)

	if err := repo.SetActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	hash, err := HashPassword("new-password-1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.IsActive {
		t.Error("user should be inactive")
	}
	if ok, _ := VerifyPassword("new-password-1", got.PasswordHash); !ok {
		t.Error("new password should verify")
	}
}
