package beancount

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingswood-labs/starling-sync/pkg/money"
	"github.com/kingswood-labs/starling-sync/pkg/starling"
)

func testAccount() starling.Account {
	return starling.Account{
		UID:         "a1",
		AccountType: starling.AccountTypePrimary,
		Currency:    "GBP",
		Name:        "Personal",
	}
}

func testItem(amountMinor int64, direction starling.Direction, status starling.Status, at time.Time) starling.FeedItem {
	return starling.FeedItem{
		UID:              "f-" + at.Format("20060102150405"),
		Amount:           money.New(amountMinor, "GBP"),
		Direction:        direction,
		TransactionTime:  at,
		Status:           status,
		CounterPartyName: "Shop",
		SpendingCategory: "GROCERIES",
	}
}

func effectiveBalance(minor int64) starling.Balance {
	return starling.Balance{Effective: money.New(minor, "GBP")}
}

func TestRenderDocument(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	settled := testItem(2000, starling.DirectionOut, starling.StatusSettled, t0)
	settled.Reference = "COFFEE"
	upcoming := testItem(500, starling.DirectionOut, starling.StatusUpcoming, t1)
	upcoming.CounterPartyName = "Landlord"
	upcoming.Reference = "RENT"

	ledger := NewLedger("", "")
	ledger.now = func() time.Time { return time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC) }

	account := testAccount()
	ledger.AddAccount(account)
	ledger.AddBalance(AccountBalance{
		AccountName:  account.Name,
		Balance:      effectiveBalance(10000),
		Transactions: []starling.FeedItem{settled, upcoming},
	})
	ledger.AddTransactions([]AccountTransaction{
		{AccountName: account.Name, Item: settled},
		{AccountName: account.Name, Item: upcoming},
	})

	var buf strings.Builder
	require.NoError(t, ledger.Render(&buf))

	expected := `option "title" "Starling Ledger"
option "operating_currency" "GBP"

2024-03-01 open Assets:Starling:Personal              GBP
2024-03-01 open Expenses:Groceries                    GBP
2024-03-01 open Equity:Opening-Balances               GBP

2024-03-01 * "Deposit"
  Assets:Starling:Personal                     120.00 GBP
  Equity:Opening-Balances

2024-03-01 * "Shop" "COFFEE"
  Assets:Starling:Personal                     -20.00 GBP
  Expenses:Groceries                            20.00 GBP

2024-03-11 balance Assets:Starling:Personal    100.00 GBP
`
	assert.Equal(t, expected, buf.String())
}

func TestUpcomingDoesNotTruncateLaterTransactions(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	upcoming := testItem(500, starling.DirectionOut, starling.StatusUpcoming, t0.AddDate(0, 0, 1))
	later := testItem(1000, starling.DirectionOut, starling.StatusSettled, t0.AddDate(0, 0, 2))
	later.CounterPartyName = "Garage"

	ledger := NewLedger("", "")
	account := testAccount()
	ledger.AddAccount(account)
	ledger.AddBalance(AccountBalance{
		AccountName:  account.Name,
		Balance:      effectiveBalance(10000),
		Transactions: []starling.FeedItem{upcoming, later},
	})
	ledger.AddTransactions([]AccountTransaction{
		{AccountName: account.Name, Item: testItem(2000, starling.DirectionOut, starling.StatusSettled, t0)},
		{AccountName: account.Name, Item: upcoming},
		{AccountName: account.Name, Item: later},
	})

	var buf strings.Builder
	require.NoError(t, ledger.Render(&buf))

	out := buf.String()
	// The upcoming item itself is never posted, but a settled transaction
	// sorted after it still is.
	assert.NotContains(t, out, "-5.00")
	assert.Contains(t, out, `"Garage"`)
	assert.Contains(t, out, "-10.00")
}

func TestTransactionHeaderFormatting(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*starling.FeedItem)
		expected string
	}{
		{
			name:     "settled is cleared",
			mutate:   func(item *starling.FeedItem) { item.Reference = "COFFEE" },
			expected: `2024-03-01 * "Shop" "COFFEE"`,
		},
		{
			name: "pending is flagged",
			mutate: func(item *starling.FeedItem) {
				item.Status = starling.StatusPending
				item.Reference = "COFFEE"
			},
			expected: `2024-03-01 ! "Shop" "COFFEE"`,
		},
		{
			name: "whitespace runs collapse",
			mutate: func(item *starling.FeedItem) {
				item.Reference = "SO  MANY\n\tSPACES"
			},
			expected: `2024-03-01 * "Shop" "SO MANY SPACES"`,
		},
		{
			name:     "empty reference omitted",
			mutate:   func(item *starling.FeedItem) {},
			expected: `2024-03-01 * "Shop"`,
		},
		{
			name: "user note appended",
			mutate: func(item *starling.FeedItem) {
				item.Reference = "COFFEE"
				item.UserNote = "with Sam"
			},
			expected: `2024-03-01 * "Shop" "COFFEE" ; with Sam`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem(2000, starling.DirectionOut, starling.StatusSettled,
				time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
			tt.mutate(&item)
			assert.Equal(t, tt.expected, formatHeader(item))
		})
	}
}

func TestCategoryAccountNaming(t *testing.T) {
	var mapper *CategoryMapper

	assert.Equal(t, "Expenses:EatingOut", mapper.Account("EATING_OUT"))
	assert.Equal(t, "Expenses:Groceries", mapper.Account("GROCERIES"))
	assert.Equal(t, "Income:Income", mapper.Account("INCOME"))
	assert.Equal(t, "Income:OtherIncome", mapper.Account("OTHER_INCOME"))
}

func TestCategoryMapperOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	content := `categories:
  - category: GROCERIES
    account: Expenses:Food:Groceries
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	mapper, err := LoadCategoryMapper(path)
	require.NoError(t, err)

	assert.Equal(t, "Expenses:Food:Groceries", mapper.Account("GROCERIES"))
	assert.Equal(t, "Expenses:EatingOut", mapper.Account("EATING_OUT"))
}

func TestRenderWithoutTransactionsFails(t *testing.T) {
	ledger := NewLedger("", "")
	ledger.AddAccount(testAccount())

	err := ledger.Render(&strings.Builder{})
	assert.Error(t, err)
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.beancount")

	build := func(counterparty string) *Ledger {
		ledger := NewLedger("", "")
		account := testAccount()
		item := testItem(2000, starling.DirectionOut, starling.StatusSettled,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		item.CounterPartyName = counterparty
		ledger.AddAccount(account)
		ledger.AddBalance(AccountBalance{
			AccountName:  account.Name,
			Balance:      effectiveBalance(10000),
			Transactions: []starling.FeedItem{item},
		})
		ledger.AddTransactions([]AccountTransaction{{AccountName: account.Name, Item: item}})
		return ledger
	}

	require.NoError(t, build("First").WriteFile(path))
	require.NoError(t, build("Second").WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Second"`)
	assert.NotContains(t, string(data), `"First"`)
}
