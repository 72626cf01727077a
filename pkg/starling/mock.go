package starling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kingswood-labs/starling-sync/pkg/money"
)

// MockClient is an in-memory Client for tests and offline runs.
// The zero value is usable; seed it with accounts, balances and feed items.
type MockClient struct {
	AccountList []Account
	Balances    map[string]Balance    // keyed by account uid
	Feed        map[string][]FeedItem // keyed by account uid

	// Err, when set, is returned by every call.
	Err error
}

// NewMockClient creates an empty mock client.
func NewMockClient() *MockClient {
	return &MockClient{
		Balances: make(map[string]Balance),
		Feed:     make(map[string][]FeedItem),
	}
}

// AddAccount seeds an account with a generated uid and the given balance.
func (m *MockClient) AddAccount(name, currency string, effective money.Money) Account {
	account := Account{
		UID:             uuid.NewString(),
		AccountType:     AccountTypePrimary,
		DefaultCategory: uuid.NewString(),
		Currency:        currency,
		CreatedAt:       time.Now().UTC(),
		Name:            name,
	}
	m.AccountList = append(m.AccountList, account)
	m.Balances[account.UID] = Balance{
		Cleared:        effective,
		Effective:      effective,
		TotalCleared:   effective,
		TotalEffective: effective,
		Pending:        money.New(0, currency),
		Overdraft:      money.New(0, currency),
	}
	return account
}

// AddFeedItem seeds a feed item for the given account.
func (m *MockClient) AddFeedItem(accountUID string, item FeedItem) FeedItem {
	if item.UID == "" {
		item.UID = uuid.NewString()
	}
	m.Feed[accountUID] = append(m.Feed[accountUID], item)
	return item
}

// Accounts implements Client.
func (m *MockClient) Accounts() ([]Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.AccountList, nil
}

// Balance implements Client.
func (m *MockClient) Balance(accountUID string) (Balance, error) {
	if m.Err != nil {
		return Balance{}, m.Err
	}
	balance, ok := m.Balances[accountUID]
	if !ok {
		return Balance{}, fmt.Errorf("%w: account %s", ErrNotFound, accountUID)
	}
	return balance, nil
}

// TransactionsSince implements Client. The since window is ignored; the mock
// returns everything seeded for the account.
func (m *MockClient) TransactionsSince(accountUID, categoryUID string, since time.Duration) ([]FeedItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Feed[accountUID], nil
}
