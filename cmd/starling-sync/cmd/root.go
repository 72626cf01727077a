// Package cmd provides CLI commands for starling-sync.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingswood-labs/starling-sync/pkg/config"
	"github.com/kingswood-labs/starling-sync/pkg/starling"
	"github.com/kingswood-labs/starling-sync/pkg/store"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "starling-sync",
	Short: "Sync Starling Bank transactions to a Beancount ledger",
	Long: `starling-sync is a CLI tool that mirrors Starling Bank accounts
into a local SQLite database and renders them as a Beancount
plain-text accounting ledger.

It supports:
- Discovering accounts via the Starling API
- Incremental transaction sync with insert/update detection
- Rendering a balanced Beancount ledger with balance assertions
- Live balance lookups

Example:
  starling-sync fetch --days 30
  starling-sync export`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}

// loadConfig loads and validates configuration, exiting on failure.
func loadConfig(required ...string) *config.Config {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	exitOnError(cfg.Validate(required...), "invalid configuration")
	return cfg
}

// openStore opens the SQLite database configured in cfg.
func openStore(cfg *config.Config) *store.Store {
	slog.Debug("Opening database", "path", cfg.Ledger.DBPath)
	st, err := store.Open(cfg.Ledger.DBPath)
	exitOnError(err, "failed to open database")
	return st
}

// newClient creates a live Starling API client from cfg.
func newClient(cfg *config.Config) starling.Client {
	return starling.NewClient(starling.ClientConfig{
		BaseURL:     cfg.Starling.APIURL,
		AccessToken: cfg.Starling.AccessToken,
	})
}
