package auth

import (
	"context"
	"fmt"
	"strings"
)

// NewUser validates account fields and returns an active user with a hashed
// password. The display name defaults to the username.
func NewUser(username, displayName, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if !IsValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if role == "" {
		role = RoleEditor
	}
	if !IsValidUserRole(role) {
		return nil, ErrInvalidRole
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	return &User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// ChangePassword replaces the password of the named account.
func ChangePassword(ctx context.Context, users UserRepository, username, password string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	user, err := users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("storing password for %s: %w", user.Username, err)
	}
	user.PasswordHash = hash
	return user, nil
}

// SetUserActive enables or disables the named account. A disabled account
// can neither log in nor use a session issued before it was disabled.
func SetUserActive(ctx context.Context, users UserRepository, username string, active bool) (*User, error) {
	user, err := users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}
	if err := users.SetActive(ctx, user.ID, active); err != nil {
		return nil, fmt.Errorf("updating %s: %w", user.Username, err)
	}
	user.IsActive = active
	return user, nil
}
