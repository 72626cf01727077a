package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// accountCmd groups the account management subcommands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage tracked accounts",
}

// accountAddCmd discovers accounts via the API and stores the new ones.
var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Discover accounts via the Starling API and track them",
	Long: `Fetch the account holder's accounts from the Starling API and store
any that are not yet tracked locally. Already tracked accounts are
left untouched.

Example:
  starling-sync account add`,
	Run: runAccountAdd,
}

// accountListCmd lists the locally tracked accounts.
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked accounts",
	Run:   runAccountList,
}

func init() {
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) {
	cfg := loadConfig("starling.accessToken", "ledger.dbPath")

	st := openStore(cfg)
	defer st.Close()

	client := newClient(cfg)

	slog.Info("Fetching accounts from Starling")
	accounts, err := client.Accounts()
	exitOnError(err, "failed to fetch accounts")

	added := 0
	for _, account := range accounts {
		existing, err := st.FindAccountByUID(account.UID)
		exitOnError(err, "failed to look up account")

		if existing != nil {
			slog.Debug("Account already tracked", "name", account.Name, "uid", account.UID)
			continue
		}

		exitOnError(st.InsertAccount(account), "failed to store account")
		fmt.Printf("Added account %q (%s, %s)\n", account.Name, account.Currency, account.UID)
		added++
	}

	if added == 0 {
		fmt.Println("No new accounts to add")
	}
}

func runAccountList(cmd *cobra.Command, args []string) {
	cfg := loadConfig("ledger.dbPath")

	st := openStore(cfg)
	defer st.Close()

	accounts, err := st.ListAccounts()
	exitOnError(err, "failed to list accounts")

	if len(accounts) == 0 {
		fmt.Println("No accounts tracked. Run 'starling-sync account add' first.")
		return
	}

	fmt.Printf("%-20s %-10s %-20s %s\n", "NAME", "CURRENCY", "TYPE", "UID")
	for _, account := range accounts {
		fmt.Printf("%-20s %-10s %-20s %s\n",
			account.Name,
			account.Currency,
			account.AccountType,
			account.UID,
		)
	}
}
