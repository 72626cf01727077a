// Package reconcile implements the sync algorithm that brings the local
// transaction set in line with the remote account feed.
package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kingswood-labs/starling-sync/pkg/starling"
	"github.com/kingswood-labs/starling-sync/pkg/store"
)

// Store is the persistence surface the reconciler needs: keyed lookups plus
// insert and update. *store.Store satisfies it; tests use an in-memory fake.
type Store interface {
	FindTransactionByUID(uid string) (*store.Transaction, error)
	FindCounterpartyByUID(uid string) (*store.Counterparty, error)
	InsertCounterparty(cp store.Counterparty) (int64, error)
	InsertTransaction(txn store.Transaction) (int64, error)
	UpdateTransaction(txn store.Transaction) error
}

// Result summarises the writes issued by a reconciliation run.
type Result struct {
	Inserted  int
	Updated   int
	Unchanged int
}

func (r Result) add(other Result) Result {
	return Result{
		Inserted:  r.Inserted + other.Inserted,
		Updated:   r.Updated + other.Updated,
		Unchanged: r.Unchanged + other.Unchanged,
	}
}

// Reconciler applies remote feed items to the store with the minimum
// necessary writes. Single-writer: concurrent runs over the same account are
// not protected against each other.
type Reconciler struct {
	client starling.Client
	store  Store
}

// New creates a Reconciler over an injected client and store handle.
func New(client starling.Client, st Store) *Reconciler {
	return &Reconciler{client: client, store: st}
}

// SyncAll reconciles every account in turn. The first failure aborts the run.
func (r *Reconciler) SyncAll(accounts []starling.Account, since time.Duration) (Result, error) {
	var total Result
	for _, account := range accounts {
		result, err := r.SyncAccount(account, since)
		if err != nil {
			return total, fmt.Errorf("reconcile: account %s: %w", account.UID, err)
		}
		total = total.add(result)
	}
	return total, nil
}

// SyncAccount fetches the account's feed for the window and ensures the store
// matches it: unseen items are inserted (creating their counterparty on first
// reference), materially changed items are updated, everything else is left
// untouched. Store and client errors are fatal for the whole batch.
func (r *Reconciler) SyncAccount(account starling.Account, since time.Duration) (Result, error) {
	items, err := r.client.TransactionsSince(account.UID, account.DefaultCategory, since)
	if err != nil {
		return Result{}, fmt.Errorf("fetching feed: %w", err)
	}

	slog.Debug("fetched feed items", "account", account.Name, "count", len(items))

	var result Result
	for _, item := range items {
		outcome, err := r.apply(account.UID, item)
		if err != nil {
			return result, fmt.Errorf("feed item %s: %w", item.UID, err)
		}
		result = result.add(outcome)
	}

	slog.Info("account reconciled",
		"account", account.Name,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
	)

	return result, nil
}

// apply reconciles a single feed item against the store.
func (r *Reconciler) apply(accountUID string, item starling.FeedItem) (Result, error) {
	existing, err := r.store.FindTransactionByUID(item.UID)
	if err != nil {
		return Result{}, err
	}

	if existing == nil {
		counterpartyID, err := r.resolveCounterparty(item)
		if err != nil {
			return Result{}, err
		}

		txn := store.Transaction{
			UID:              item.UID,
			AccountUID:       accountUID,
			TransactionTime:  item.TransactionTime,
			CounterpartyID:   counterpartyID,
			Direction:        item.Direction,
			Amount:           item.Amount,
			SpendingCategory: item.SpendingCategory,
			Reference:        item.Reference,
			UserNote:         item.UserNote,
			Status:           item.Status,
		}
		if _, err := r.store.InsertTransaction(txn); err != nil {
			return Result{}, err
		}
		return Result{Inserted: 1}, nil
	}

	if !changed(existing, item) {
		return Result{Unchanged: 1}, nil
	}

	// Full-row replace: the mutable fields take the fetched values, every
	// other column is rewritten with its current value.
	updated := *existing
	updated.Status = item.Status
	updated.SpendingCategory = item.SpendingCategory
	updated.UserNote = item.UserNote
	if err := r.store.UpdateTransaction(updated); err != nil {
		return Result{}, err
	}
	return Result{Updated: 1}, nil
}

// resolveCounterparty returns the id of the item's counterparty, inserting a
// new row the first time a uid is seen. Items without a counterparty share
// the empty-string uid.
func (r *Reconciler) resolveCounterparty(item starling.FeedItem) (int64, error) {
	existing, err := r.store.FindCounterpartyByUID(item.CounterPartyUID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	id, err := r.store.InsertCounterparty(store.Counterparty{
		UID:  item.CounterPartyUID,
		Type: item.CounterPartyType,
		Name: item.CounterPartyName,
	})
	if err != nil {
		return 0, err
	}

	slog.Debug("counterparty created", "uid", item.CounterPartyUID, "name", item.CounterPartyName)
	return id, nil
}

// changed reports whether any of the mutable fields differ between the stored
// row and the fetched item. Comparison is string equality over the canonical
// wire strings.
func changed(existing *store.Transaction, item starling.FeedItem) bool {
	return existing.Status != item.Status ||
		existing.SpendingCategory != item.SpendingCategory ||
		existing.UserNote != item.UserNote
}
