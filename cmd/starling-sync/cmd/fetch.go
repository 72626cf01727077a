package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingswood-labs/starling-sync/pkg/reconcile"
)

var fetchDays int

// fetchCmd represents the fetch command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent transactions and reconcile them into the database",
	Long: `Fetch the transaction feed of every tracked account for the given
window and reconcile it into the local database.

Unseen transactions are inserted, transactions whose status, category
or note changed remotely are updated, and everything else is left
untouched. Re-running fetch over the same window is a no-op.

Example:
  starling-sync fetch
  starling-sync fetch --days 30`,
	Run: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchDays, "days", 7, "how many days of feed history to fetch")
}

func runFetch(cmd *cobra.Command, args []string) {
	slog.Info("Starting fetch", "days", fetchDays)

	cfg := loadConfig("starling.accessToken", "ledger.dbPath")

	st := openStore(cfg)
	defer st.Close()

	accounts, err := st.ListAccounts()
	exitOnError(err, "failed to list accounts")

	if len(accounts) == 0 {
		fmt.Println("No accounts tracked. Run 'starling-sync account add' first.")
		return
	}

	client := newClient(cfg)
	since := time.Duration(fetchDays) * 24 * time.Hour

	result, err := reconcile.New(client, st).SyncAll(accounts, since)
	exitOnError(err, "failed to reconcile transactions")

	exitOnError(
		st.SetMetadata("last_sync_at", time.Now().UTC().Format(time.RFC3339)),
		"failed to record sync time",
	)

	fmt.Println("\n=== Fetch Result ===")
	fmt.Printf("Accounts:     %d\n", len(accounts))
	fmt.Printf("Inserted:     %d\n", result.Inserted)
	fmt.Printf("Updated:      %d\n", result.Updated)
	fmt.Printf("Unchanged:    %d\n", result.Unchanged)
	fmt.Println()

	slog.Info("Fetch completed",
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
	)
}
