package store

import "fmt"

// Schema defines the SQL statements to create database tables.
//
// Amounts are stored as integer minor units with a separate currency and
// direction; statuses and categories are stored in their canonical wire-string
// form and compared as strings.
const Schema = `
-- Remote accounts discovered via the API. Immutable once created.
CREATE TABLE IF NOT EXISTS accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT NOT NULL UNIQUE,          -- accountUid from the API
    account_type TEXT NOT NULL,        -- PRIMARY, ADDITIONAL, LOAN, FIXED_TERM_DEPOSIT
    default_category TEXT NOT NULL,    -- default feed category uid
    currency TEXT NOT NULL,
    created_at TEXT NOT NULL,          -- RFC 3339
    name TEXT NOT NULL
);

-- Counterparties, created lazily the first time a transaction references
-- an unseen counterparty uid. uid is deliberately not unique: items with no
-- counterparty share a single row keyed by the empty string.
CREATE TABLE IF NOT EXISTS counterparties (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT NOT NULL,
    type TEXT NOT NULL,
    name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_counterparties_uid
    ON counterparties(uid);

-- Feed items. uid is the immutable natural key; only status,
-- spending_category and user_note change after creation.
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uid TEXT NOT NULL UNIQUE,          -- feedItemUid from the API
    account_uid TEXT NOT NULL,
    transaction_time TEXT NOT NULL,    -- RFC 3339
    counterparty_id INTEGER NOT NULL REFERENCES counterparties(id),
    direction TEXT NOT NULL,           -- IN or OUT
    amount_minor_units INTEGER NOT NULL,
    currency TEXT NOT NULL,
    spending_category TEXT NOT NULL,
    reference TEXT NOT NULL DEFAULT '',
    user_note TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_account
    ON transactions(account_uid);

CREATE INDEX IF NOT EXISTS idx_transactions_time
    ON transactions(transaction_time);

-- Key-value metadata about sync runs.
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// dropSchema removes every table; Reset replays Schema afterwards.
const dropSchema = `
DROP TABLE IF EXISTS transactions;
DROP TABLE IF EXISTS counterparties;
DROP TABLE IF EXISTS accounts;
DROP TABLE IF EXISTS sync_metadata;
`

// initSchema creates all tables if they don't exist.
func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("store: failed to initialize schema: %w", err)
	}
	return nil
}

// Reset drops and recreates every table. This destroys all stored data.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(dropSchema); err != nil {
		return fmt.Errorf("store: failed to drop tables: %w", err)
	}
	return s.initSchema()
}
