package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kingswood-labs/starling-sync/pkg/money"
	"github.com/kingswood-labs/starling-sync/pkg/starling"
)

// Transaction is a stored feed item. uid is the immutable natural key;
// status, spending_category and user_note are the only mutable fields,
// though updates rewrite the whole row.
type Transaction struct {
	ID               int64
	UID              string
	AccountUID       string
	TransactionTime  time.Time
	CounterpartyID   int64
	CounterpartyName string // populated on reads that join counterparties
	Direction        starling.Direction
	Amount           money.Money
	SpendingCategory string
	Reference        string
	UserNote         string
	Status           starling.Status
}

// FindTransactionByUID returns the transaction with the given uid, or nil
// if absent.
func (s *Store) FindTransactionByUID(uid string) (*Transaction, error) {
	query := `
		SELECT id, uid, account_uid, transaction_time, counterparty_id, direction,
		       amount_minor_units, currency, spending_category, reference, user_note, status
		FROM transactions WHERE uid = ?
	`
	txn, err := scanTransaction(s.db.QueryRow(query, uid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: failed to find transaction: %w", err)
	}
	return txn, nil
}

// InsertTransaction inserts a transaction and returns its generated id.
func (s *Store) InsertTransaction(txn Transaction) (int64, error) {
	query := `
		INSERT INTO transactions
			(uid, account_uid, transaction_time, counterparty_id, direction,
			 amount_minor_units, currency, spending_category, reference, user_note, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.Exec(query,
		txn.UID,
		txn.AccountUID,
		txn.TransactionTime.UTC().Format(time.RFC3339),
		txn.CounterpartyID,
		string(txn.Direction),
		txn.Amount.MinorUnits,
		txn.Amount.Currency,
		txn.SpendingCategory,
		txn.Reference,
		txn.UserNote,
		string(txn.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("store: failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: failed to get transaction id: %w", err)
	}
	return id, nil
}

// UpdateTransaction rewrites the whole row identified by txn.ID.
// All columns are set, including the ones that never change.
func (s *Store) UpdateTransaction(txn Transaction) error {
	query := `
		UPDATE transactions SET
			uid = ?, account_uid = ?, transaction_time = ?, counterparty_id = ?,
			direction = ?, amount_minor_units = ?, currency = ?,
			spending_category = ?, reference = ?, user_note = ?, status = ?
		WHERE id = ?
	`
	_, err := s.db.Exec(query,
		txn.UID,
		txn.AccountUID,
		txn.TransactionTime.UTC().Format(time.RFC3339),
		txn.CounterpartyID,
		string(txn.Direction),
		txn.Amount.MinorUnits,
		txn.Amount.Currency,
		txn.SpendingCategory,
		txn.Reference,
		txn.UserNote,
		string(txn.Status),
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("store: failed to update transaction: %w", err)
	}
	return nil
}

// TransactionsForAccount returns the account's transactions joined with their
// counterparty names, ordered by transaction time then insertion order.
func (s *Store) TransactionsForAccount(accountUID string) ([]Transaction, error) {
	query := `
		SELECT t.id, t.uid, t.account_uid, t.transaction_time, t.counterparty_id, t.direction,
		       t.amount_minor_units, t.currency, t.spending_category, t.reference, t.user_note,
		       t.status, c.name
		FROM transactions t
		JOIN counterparties c ON c.id = t.counterparty_id
		WHERE t.account_uid = ?
		ORDER BY t.transaction_time, t.id
	`
	rows, err := s.db.Query(query, accountUID)
	if err != nil {
		return nil, fmt.Errorf("store: failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var (
			txn             Transaction
			transactionTime string
			direction       string
			status          string
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.UID,
			&txn.AccountUID,
			&transactionTime,
			&txn.CounterpartyID,
			&direction,
			&txn.Amount.MinorUnits,
			&txn.Amount.Currency,
			&txn.SpendingCategory,
			&txn.Reference,
			&txn.UserNote,
			&status,
			&txn.CounterpartyName,
		); err != nil {
			return nil, fmt.Errorf("store: failed to scan transaction: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, transactionTime)
		if err != nil {
			return nil, fmt.Errorf("store: invalid transaction_time %q: %w", transactionTime, err)
		}
		txn.TransactionTime = parsed
		txn.Direction = starling.Direction(direction)
		txn.Status = starling.Status(status)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: failed to list transactions: %w", err)
	}
	return txns, nil
}

// CountTransactions returns the number of stored transactions.
func (s *Store) CountTransactions() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var (
		txn             Transaction
		transactionTime string
		direction       string
		status          string
	)
	if err := row.Scan(
		&txn.ID,
		&txn.UID,
		&txn.AccountUID,
		&transactionTime,
		&txn.CounterpartyID,
		&direction,
		&txn.Amount.MinorUnits,
		&txn.Amount.Currency,
		&txn.SpendingCategory,
		&txn.Reference,
		&txn.UserNote,
		&status,
	); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, transactionTime)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction_time %q: %w", transactionTime, err)
	}
	txn.TransactionTime = parsed
	txn.Direction = starling.Direction(direction)
	txn.Status = starling.Status(status)

	return &txn, nil
}
