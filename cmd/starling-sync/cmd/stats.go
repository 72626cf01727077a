package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display sync statistics",
	Long: `Display statistics about the local database.

Shows:
- Number of tracked accounts
- Number of synced transactions and counterparties
- Last fetch timestamp

Example:
  starling-sync stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig("ledger.dbPath")

	st := openStore(cfg)
	defer st.Close()

	accounts, err := st.CountAccounts()
	exitOnError(err, "failed to count accounts")

	transactions, err := st.CountTransactions()
	exitOnError(err, "failed to count transactions")

	counterparties, err := st.CountCounterparties()
	exitOnError(err, "failed to count counterparties")

	lastSync, err := st.GetMetadata("last_sync_at")
	exitOnError(err, "failed to read sync metadata")

	fmt.Println("\n=== Sync Statistics ===")
	fmt.Printf("Tracked accounts:     %d\n", accounts)
	fmt.Printf("Synced transactions:  %d\n", transactions)
	fmt.Printf("Counterparties:       %d\n", counterparties)

	if lastSync != "" {
		fmt.Printf("Last fetch:           %s\n", lastSync)
	} else {
		fmt.Printf("Last fetch:           (never)\n")
	}

	fmt.Println()

	slog.Info("Statistics displayed successfully")
}
