// Package starling provides a Starling Bank API client and the normalized
// representations of the remote financial entities it returns.
package starling

import (
	"strings"
	"time"

	"github.com/kingswood-labs/starling-sync/pkg/money"
)

// AccountType classifies a Starling account.
type AccountType string

const (
	AccountTypePrimary          AccountType = "PRIMARY"
	AccountTypeAdditional       AccountType = "ADDITIONAL"
	AccountTypeLoan             AccountType = "LOAN"
	AccountTypeFixedTermDeposit AccountType = "FIXED_TERM_DEPOSIT"
)

// Account represents a Starling account. Accounts are immutable once created;
// the sync job only ever checks for their existence.
type Account struct {
	UID             string      `json:"accountUid"`
	AccountType     AccountType `json:"accountType"`
	DefaultCategory string      `json:"defaultCategory"`
	Currency        string      `json:"currency"`
	CreatedAt       time.Time   `json:"createdAt"`
	Name            string      `json:"name"`
}

// Balance is a point-in-time snapshot of an account's balances.
// It is never persisted; it only seeds ledger opening balances.
type Balance struct {
	Cleared        money.Money `json:"clearedBalance"`
	Effective      money.Money `json:"effectiveBalance"`
	Pending        money.Money `json:"pendingTransactions"`
	TotalCleared   money.Money `json:"totalClearedBalance"`
	Overdraft      money.Money `json:"acceptedOverdraft"`
	TotalEffective money.Money `json:"totalEffectiveBalance"`
}

// Direction indicates whether money moved into or out of the account.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Status is the settlement state of a feed item. The wire strings are also the
// canonical stored form, so comparisons are plain string equality.
type Status string

const (
	StatusUpcoming     Status = "UPCOMING"
	StatusPending      Status = "PENDING"
	StatusSettled      Status = "SETTLED"
	StatusDeclined     Status = "DECLINED"
	StatusReversed     Status = "REVERSED"
	StatusRefunded     Status = "REFUNDED"
	StatusRetrying     Status = "RETRYING"
	StatusAccountCheck Status = "ACCOUNT_CHECK"
)

// FeedItem is one money movement reported by the remote account feed.
// The uid is the immutable natural key; only status, spendingCategory and
// userNote may change after the item is first observed.
type FeedItem struct {
	UID              string      `json:"feedItemUid"`
	CategoryUID      string      `json:"categoryUid"`
	Amount           money.Money `json:"amount"`
	Direction        Direction   `json:"direction"`
	TransactionTime  time.Time   `json:"transactionTime"`
	SettlementTime   *time.Time  `json:"settlementTime,omitempty"`
	Status           Status      `json:"status"`
	CounterPartyType string      `json:"counterPartyType"`
	CounterPartyUID  string      `json:"counterPartyUid"`
	CounterPartyName string      `json:"counterPartyName"`
	Reference        string      `json:"reference"`
	SpendingCategory string      `json:"spendingCategory"`
	UserNote         string      `json:"userNote"`
}

// SignedAmount returns the amount signed from the account's point of view:
// positive for money in, negative for money out.
func (f FeedItem) SignedAmount() money.Money {
	if f.Direction == DirectionOut {
		return f.Amount.Neg()
	}
	return f.Amount
}

// IsIncomeCategory reports whether a spending category belongs to the income
// side of the income statement.
func IsIncomeCategory(category string) bool {
	switch category {
	case "INCOME", "OTHER_INCOME":
		return true
	}
	return false
}

// PascalCategory converts a wire-form spending category to PascalCase,
// e.g. "EATING_OUT" -> "EatingOut".
func PascalCategory(category string) string {
	var b strings.Builder
	for _, word := range strings.Split(category, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String()
}

// accountsResponse is the envelope returned by /accounts.
type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// feedResponse is the envelope returned by the transaction feed endpoint.
type feedResponse struct {
	FeedItems []FeedItem `json:"feedItems"`
}
