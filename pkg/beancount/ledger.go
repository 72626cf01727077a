// Package beancount renders accumulated account activity as a Beancount
// plain-text ledger document.
package beancount

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/kingswood-labs/starling-sync/pkg/starling"
)

// EquityAccount receives the offsetting side of opening-balance postings.
const EquityAccount = "Equity:Opening-Balances"

// AccountTransaction pairs a feed item with the display name of the account
// it belongs to.
type AccountTransaction struct {
	AccountName string
	Item        starling.FeedItem
}

// AccountBalance carries an account's current balance snapshot together with
// the transaction window used to walk the balance back to the start date.
type AccountBalance struct {
	AccountName  string
	Balance      starling.Balance
	Transactions []starling.FeedItem
}

// Ledger accumulates accounts, balances and transactions, then renders them
// as a single Beancount document. Input must be fully materialized before
// Render: the global start date and opening balances are computed over the
// whole set.
type Ledger struct {
	title    string
	currency string
	mapper   *CategoryMapper
	now      func() time.Time

	accounts     []starling.Account
	balances     []AccountBalance
	transactions []AccountTransaction
}

// NewLedger creates an empty ledger with the given document title and
// operating currency.
func NewLedger(title, currency string) *Ledger {
	if title == "" {
		title = "Starling Ledger"
	}
	if currency == "" {
		currency = "GBP"
	}
	return &Ledger{
		title:    title,
		currency: currency,
		now:      time.Now,
	}
}

// SetCategoryMapper installs category account overrides. A nil mapper keeps
// the derived Income:/Expenses: naming.
func (l *Ledger) SetCategoryMapper(mapper *CategoryMapper) {
	l.mapper = mapper
}

// AddAccount registers an account for declaration and assertion sections.
func (l *Ledger) AddAccount(account starling.Account) {
	l.accounts = append(l.accounts, account)
}

// AddBalance registers an account's balance snapshot and transaction window.
func (l *Ledger) AddBalance(balance AccountBalance) {
	l.balances = append(l.balances, balance)
}

// AddTransactions registers transactions for the posting section.
func (l *Ledger) AddTransactions(txns []AccountTransaction) {
	l.transactions = append(l.transactions, txns...)
}

// Render writes the full document to w. Sections are emitted in strict
// order: preamble, account declarations, opening balances, transaction
// postings, balance assertions.
func (l *Ledger) Render(w io.Writer) error {
	if len(l.transactions) == 0 {
		return errors.New("beancount: no transactions to render")
	}

	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Item.TransactionTime.Before(l.transactions[j].Item.TransactionTime)
	})

	for _, section := range []func(io.Writer) error{
		l.writePreamble,
		l.writeAccountDeclarations,
		l.writeOpeningBalances,
		l.writeTransactions,
		l.writeBalanceAssertions,
	} {
		if err := section(w); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile renders the document to path, replacing any previous file.
func (l *Ledger) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("beancount: failed to create output file: %w", err)
	}

	if err := l.Render(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("beancount: failed to close output file: %w", err)
	}
	return nil
}

func (l *Ledger) writePreamble(w io.Writer) error {
	_, err := fmt.Fprintf(w, "option \"title\" %q\noption \"operating_currency\" %q\n\n",
		l.title, l.currency)
	return err
}

// writeAccountDeclarations opens every asset account, every income-statement
// account referenced by any transaction, and the equity account, all dated at
// the global start date. The income-statement set keeps first-seen order so
// output is stable within a run.
func (l *Ledger) writeAccountDeclarations(w io.Writer) error {
	startDate := l.startDate()

	seen := make(map[string]bool)
	var incomeStatements []string
	for _, txn := range l.transactions {
		account := l.categoryAccount(txn.Item.SpendingCategory)
		if !seen[account] {
			seen[account] = true
			incomeStatements = append(incomeStatements, account)
		}
	}

	for _, account := range l.accounts {
		if _, err := fmt.Fprintf(w, "%s open %-37s %s\n",
			startDate, assetAccount(account.Name), account.Currency); err != nil {
			return err
		}
	}

	for _, account := range incomeStatements {
		if _, err := fmt.Fprintf(w, "%s open %-37s %s\n", startDate, account, l.currency); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s open %-37s %s\n\n", startDate, EquityAccount, l.currency)
	return err
}

// writeOpeningBalances reconstructs each account's balance at the start date
// by walking the current effective balance backward over every non-upcoming
// transaction, and posts it against the equity account.
func (l *Ledger) writeOpeningBalances(w io.Writer) error {
	startDate := l.startDate()

	for _, balance := range l.balances {
		opening := balance.Balance.Effective.AsDecimal()
		for _, item := range balance.Transactions {
			if item.Status == starling.StatusUpcoming {
				continue
			}
			// Reverse of the posting sign: undo each movement.
			opening = opening.Sub(item.SignedAmount().AsDecimal())
		}

		_, err := fmt.Fprintf(w, "%s * \"Deposit\"\n  %-40s %10s %s\n  %s\n\n",
			startDate,
			assetAccount(balance.AccountName),
			opening.StringFixed(2),
			balance.Balance.Effective.Currency,
			EquityAccount,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeTransactions emits one balanced posting pair per transaction in
// chronological order. Upcoming transactions are not postable and are
// filtered out wherever they sort.
func (l *Ledger) writeTransactions(w io.Writer) error {
	for _, txn := range l.transactions {
		item := txn.Item
		if item.Status == starling.StatusUpcoming {
			continue
		}

		header := formatHeader(item)
		amount := item.SignedAmount().AsDecimal()

		_, err := fmt.Fprintf(w, "%s\n  %-40s %10s %s\n  %-40s %10s %s\n\n",
			header,
			assetAccount(txn.AccountName),
			amount.StringFixed(2),
			item.Amount.Currency,
			l.categoryAccount(item.SpendingCategory),
			amount.Neg().StringFixed(2),
			item.Amount.Currency,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeBalanceAssertions asserts each account's current effective balance.
// Beancount balance directives apply at start of day, so the assertion is
// dated tomorrow.
func (l *Ledger) writeBalanceAssertions(w io.Writer) error {
	tomorrow := formatDate(l.now().AddDate(0, 0, 1))

	for _, balance := range l.balances {
		effective := balance.Balance.Effective
		_, err := fmt.Fprintf(w, "%s balance %-27s %s %s\n",
			tomorrow,
			assetAccount(balance.AccountName),
			effective.AsDecimal().StringFixed(2),
			effective.Currency,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// startDate is the date of the earliest transaction across the whole
// document. Render sorts before any section is written.
func (l *Ledger) startDate() string {
	return formatDate(l.transactions[0].Item.TransactionTime)
}

func (l *Ledger) categoryAccount(category string) string {
	return l.mapper.Account(category)
}
