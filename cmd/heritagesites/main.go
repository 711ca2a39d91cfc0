// Heritage Sites - catalog of heritage sites and their jurisdictions.
//
// This is the main entry point. Without a subcommand it serves the web
// catalog; `migrate` and `user create` are maintenance commands that share
// the same configuration file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/nerrad567/heritage-sites/migrations"

	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on Ctrl+C and SIGTERM so the server shuts down gracefully
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called explicitly above
	}
}

// newRootCmd builds the command tree. The root command runs serve.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "heritagesites",
		Short: "Heritage sites catalog server",
		Long: `heritagesites serves a browsable, filterable catalog of heritage sites
and the countries and areas that hold jurisdiction over them.

Run without a subcommand to start the web server.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), resolveConfigPath(configPath))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the YAML config file (default $HERITAGE_CONFIG or "+defaultConfigPath+")")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newUserCmd(&configPath))

	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), resolveConfigPath(*configPath))
		},
	}
}

// resolveConfigPath returns the --config flag, else HERITAGE_CONFIG, else
// the default path.
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv("HERITAGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
