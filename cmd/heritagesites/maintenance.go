package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/heritage-sites/internal/audit"
	"github.com/nerrad567/heritage-sites/internal/auth"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/database"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/logging"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `migrate applies every pending migration, or with --down rolls back
the most recently applied one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(resolveConfigPath(*configPath))
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg.Database, down, cmd)
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Roll back the most recent migration")
	return cmd
}

func runMigrate(ctx context.Context, cfg config.DatabaseConfig, down bool, cmd *cobra.Command) error {
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-mostly command

	if down {
		if err := db.MigrateDown(ctx); err != nil {
			return err
		}
	} else if err := db.Migrate(ctx); err != nil {
		return err
	}

	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("%d applied, %d pending\n", len(applied), len(pending))
	return nil
}

func newUserCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage catalog accounts",
	}
	cmd.AddCommand(
		newUserCreateCmd(configPath),
		newUserPasswdCmd(configPath),
		newUserActiveCmd(configPath, "disable", false),
		newUserActiveCmd(configPath, "enable", true),
	)
	return cmd
}

// userStore is the account and audit access shared by the user subcommands.
type userStore struct {
	db    *database.DB
	log   *logging.Logger
	users *auth.SQLiteUserRepository
	audit *audit.SQLiteRepository
}

func openUserStore(cmd *cobra.Command, configPath string) (*userStore, error) {
	cfg, err := loadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging, version)

	db, err := openDatabase(cmd.Context(), cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &userStore{
		db:    db,
		log:   log,
		users: auth.NewUserRepository(db.DB),
		audit: audit.NewSQLiteRepository(db.DB),
	}, nil
}

func (s *userStore) Close() error {
	return s.db.Close()
}

// record writes a CLI audit entry for a change to user. Failures are logged.
func (s *userStore) record(ctx context.Context, action string, user *auth.User, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	details["username"] = user.Username

	entry := &audit.Entry{
		Action:     action,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		Source:     audit.SourceCLI,
		Details:    details,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.log.Warn("audit entry not recorded", "error", err)
	}
}

func newUserCreateCmd(configPath *string) *cobra.Command {
	var (
		username    string
		displayName string
		password    string
		role        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a login account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openUserStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck // short-lived command

			user, err := auth.NewUser(username, displayName, password, auth.Role(role))
			if err != nil {
				return err
			}
			if err := store.users.Create(cmd.Context(), user); err != nil {
				return err
			}
			store.record(cmd.Context(), audit.ActionCreate, user, map[string]any{"role": string(user.Role)})

			cmd.Printf("created user %s (%s, role %s)\n", user.Username, user.ID, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Name shown in the UI (defaults to username)")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleEditor), "Role: editor or admin")
	//nolint:errcheck // flags are defined above
	cmd.MarkFlagRequired("username")
	//nolint:errcheck // flags are defined above
	cmd.MarkFlagRequired("password")
	return cmd
}

func newUserPasswdCmd(configPath *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Set a new password for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openUserStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck // short-lived command

			user, err := auth.ChangePassword(cmd.Context(), store.users, username, password)
			if err != nil {
				return fmt.Errorf("changing password for %q: %w", username, err)
			}
			store.record(cmd.Context(), audit.ActionUpdate, user, map[string]any{"field": "password"})

			cmd.Printf("password changed for %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	cmd.Flags().StringVar(&password, "password", "", "New password, at least 8 characters (required)")
	//nolint:errcheck // flags are defined above
	cmd.MarkFlagRequired("username")
	//nolint:errcheck // flags are defined above
	cmd.MarkFlagRequired("password")
	return cmd
}

// newUserActiveCmd builds the enable and disable subcommands. Disabling an
// account also invalidates its open sessions on the next protected request.
func newUserActiveCmd(configPath *string, use string, active bool) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   use,
		Short: strings.ToUpper(use[:1]) + use[1:] + " an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openUserStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck // short-lived command

			user, err := auth.SetUserActive(cmd.Context(), store.users, username, active)
			if err != nil {
				return fmt.Errorf("%s %q: %w", use, username, err)
			}
			store.record(cmd.Context(), audit.ActionUpdate, user, map[string]any{"active": active})

			cmd.Printf("%sd user %s\n", use, user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Login name (required)")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("username")
	return cmd
}
