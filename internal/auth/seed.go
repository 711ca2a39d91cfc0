package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// seedPasswordBytes is the number of random bytes for the seed admin password.
const seedPasswordBytes = 16

// SeedAdminUsername is the account created on first boot.
const SeedAdminUsername = "admin"

// SeedAdmin creates an admin account on first boot if no users exist.
// The generated password is logged once and returned; it is empty when
// seeding was skipped.
func SeedAdmin(ctx context.Context, userRepo UserRepository, logger *slog.Logger) (string, error) {
	count, err := userRepo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("checking user count: %w", err)
	}

	if count > 0 {
		logger.Debug("users exist, skipping admin seed")
		return "", nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil { //nolint:govet // shadow: err re-declared in nested scope
		return "", fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	admin, err := NewUser(SeedAdminUsername, "Catalog Administrator", password, RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("building seed admin: %w", err)
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Warn("seed admin account created",
		"username", SeedAdminUsername,
		"password", password,
		"action_required", "change it with: heritagesites user passwd --username "+SeedAdminUsername,
	)

	return password, nil
}
