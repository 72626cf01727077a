package store

import (
	"database/sql"
	"fmt"
)

// Counterparty is the other party in a transaction. id is assigned by the
// store on insert and used as the transactions foreign key.
type Counterparty struct {
	ID   int64
	UID  string
	Type string
	Name string
}

// FindCounterpartyByUID returns the counterparty with the given uid, or nil
// if absent. Matching is exact and case-sensitive; the empty uid is a valid
// key shared by all no-counterparty transactions.
func (s *Store) FindCounterpartyByUID(uid string) (*Counterparty, error) {
	query := `SELECT id, uid, type, name FROM counterparties WHERE uid = ? ORDER BY id LIMIT 1`

	var cp Counterparty
	err := s.db.QueryRow(query, uid).Scan(&cp.ID, &cp.UID, &cp.Type, &cp.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: failed to find counterparty: %w", err)
	}
	return &cp, nil
}

// InsertCounterparty inserts a counterparty and returns its generated id.
func (s *Store) InsertCounterparty(cp Counterparty) (int64, error) {
	query := `INSERT INTO counterparties (uid, type, name) VALUES (?, ?, ?)`

	result, err := s.db.Exec(query, cp.UID, cp.Type, cp.Name)
	if err != nil {
		return 0, fmt.Errorf("store: failed to insert counterparty: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: failed to get counterparty id: %w", err)
	}
	return id, nil
}

// CountCounterparties returns the number of stored counterparties.
func (s *Store) CountCounterparties() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM counterparties`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: failed to count counterparties: %w", err)
	}
	return count, nil
}
