package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// balancesCmd represents the balances command.
var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show live balances for tracked accounts",
	Long: `Fetch and display the current balance of every tracked account
directly from the Starling API.

Example:
  starling-sync balances`,
	Run: runBalances,
}

func runBalances(cmd *cobra.Command, args []string) {
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

	fmt.Printf("%-20s %12s %12s %12s\n", "ACCOUNT", "EFFECTIVE", "CLEARED", "PENDING")
	for _, account := range accounts {
		balance, err := client.Balance(account.UID)
		exitOnError(err, fmt.Sprintf("failed to fetch balance for %s", account.Name))

		fmt.Printf("%-20s %12s %12s %12s\n",
			account.Name,
			balance.Effective.String(),
			balance.Cleared.String(),
			balance.Pending.String(),
		)
	}
}
