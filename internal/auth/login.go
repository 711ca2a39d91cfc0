package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// dummyHash is verified against when the username is unknown so both paths
// cost one Argon2id computation.
var (
	dummyHashOnce sync.Once
	dummyHash     string
)

func timingHash() string {
	dummyHashOnce.Do(func() {
		dummyHash, _ = HashPassword("heritage-sites-timing-equaliser") //nolint:errcheck // only fails if crypto/rand fails
	})
	return dummyHash
}

// Authenticate checks a username and password against the repository.
// Unknown users and wrong passwords both return ErrInvalidCredentials.
func Authenticate(ctx context.Context, users UserRepository, username, password string) (*User, error) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_, _ = VerifyPassword(password, timingHash()) //nolint:errcheck // result discarded
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}
