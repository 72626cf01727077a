package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kingswood-labs/starling-sync/pkg/starling"
)

// InsertAccount inserts a newly discovered account.
func (s *Store) InsertAccount(account starling.Account) error {
	query := `
		INSERT INTO accounts (uid, account_type, default_category, currency, created_at, name)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		account.UID,
		string(account.AccountType),
		account.DefaultCategory,
		account.Currency,
		account.CreatedAt.UTC().Format(time.RFC3339),
		account.Name,
	)
	if err != nil {
		return fmt.Errorf("store: failed to insert account: %w", err)
	}
	return nil
}

// FindAccountByUID returns the account with the given uid, or nil if absent.
func (s *Store) FindAccountByUID(uid string) (*starling.Account, error) {
	query := `
		SELECT uid, account_type, default_category, currency, created_at, name
		FROM accounts WHERE uid = ?
	`
	account, err := scanAccount(s.db.QueryRow(query, uid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: failed to find account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all stored accounts in creation order.
func (s *Store) ListAccounts() ([]starling.Account, error) {
	query := `
		SELECT uid, account_type, default_category, currency, created_at, name
		FROM accounts ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []starling.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("store: failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CountAccounts returns the number of stored accounts.
func (s *Store) CountAccounts() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: failed to count accounts: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*starling.Account, error) {
	var (
		account     starling.Account
		accountType string
		createdAt   string
	)
	if err := row.Scan(
		&account.UID,
		&accountType,
		&account.DefaultCategory,
		&account.Currency,
		&createdAt,
		&account.Name,
	); err != nil {
		return nil, err
	}

	account.AccountType = starling.AccountType(accountType)
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	account.CreatedAt = created

	return &account, nil
}
