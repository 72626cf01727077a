package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kingswood-labs/starling-sync/pkg/beancount"
	"github.com/kingswood-labs/starling-sync/pkg/starling"
	"github.com/kingswood-labs/starling-sync/pkg/store"
)

var exportOutput string

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the synced transactions as a Beancount ledger",
	Long: `Render every tracked account's synced transactions as a single
Beancount document, with opening balances reconstructed from the
current live balance and a balance assertion per account.

The output file is replaced wholesale on every run.

Example:
  starling-sync export
  starling-sync export --output ~/ledger/starling.beancount`,
	Run: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (default from LEDGER_OUTPUT_PATH)")
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig("starling.accessToken", "ledger.dbPath", "ledger.outputPath")

	output := exportOutput
	if output == "" {
		output = cfg.Ledger.OutputPath
	}

	st := openStore(cfg)
	defer st.Close()

	accounts, err := st.ListAccounts()
	exitOnError(err, "failed to list accounts")

	if len(accounts) == 0 {
		fmt.Println("No accounts tracked. Run 'starling-sync account add' first.")
		return
	}

	client := newClient(cfg)

	ledger := beancount.NewLedger(cfg.Ledger.Title, cfg.Ledger.Currency)
	if cfg.Ledger.MappingPath != "" {
		mapper, err := beancount.LoadCategoryMapper(cfg.Ledger.MappingPath)
		exitOnError(err, "failed to load category mapping")
		ledger.SetCategoryMapper(mapper)
	}

	for _, account := range accounts {
		balance, err := client.Balance(account.UID)
		exitOnError(err, fmt.Sprintf("failed to fetch balance for %s", account.Name))

		stored, err := st.TransactionsForAccount(account.UID)
		exitOnError(err, fmt.Sprintf("failed to load transactions for %s", account.Name))

		slog.Debug("Collected account activity", "account", account.Name, "transactions", len(stored))

		items := make([]starling.FeedItem, 0, len(stored))
		txns := make([]beancount.AccountTransaction, 0, len(stored))
		for _, txn := range stored {
			item := feedItemFromStored(txn)
			items = append(items, item)
			txns = append(txns, beancount.AccountTransaction{
				AccountName: account.Name,
				Item:        item,
			})
		}

		ledger.AddAccount(account)
		ledger.AddBalance(beancount.AccountBalance{
			AccountName:  account.Name,
			Balance:      balance,
			Transactions: items,
		})
		ledger.AddTransactions(txns)
	}

	exitOnError(ledger.WriteFile(output), "failed to write ledger")

	fmt.Printf("Ledger written to %s\n", output)
	slog.Info("Export completed", "output", output, "accounts", len(accounts))
}

// feedItemFromStored rebuilds the feed item view of a stored transaction for
// rendering. The counterparty name comes from the join on reads.
func feedItemFromStored(txn store.Transaction) starling.FeedItem {
	return starling.FeedItem{
		UID:              txn.UID,
		Amount:           txn.Amount,
		Direction:        txn.Direction,
		TransactionTime:  txn.TransactionTime,
		Status:           txn.Status,
		CounterPartyName: txn.CounterpartyName,
		Reference:        txn.Reference,
		SpendingCategory: txn.SpendingCategory,
		UserNote:         txn.UserNote,
	}
}
