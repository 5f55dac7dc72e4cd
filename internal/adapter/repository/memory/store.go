// Package memory holds an in-memory implementation of the store contracts.
// A single mutex serializes every mutation, so the balance mutator's
// read-modify-write is atomic per store; snapshots are copied out of the
// critical section.
package memory

import (
	"sync"
	"time"

	"github.com/oakbank/core-ledger/internal/domain"
)

type Store struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	users    map[string]*domain.User
	owners   map[string][]string
	entries  []domain.LedgerEntry
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		users:    make(map[string]*domain.User),
		owners:   make(map[string][]string),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func copyEntry(entry domain.LedgerEntry) domain.LedgerEntry {
	out := entry
	if entry.SourceAccountID != nil {
		value := *entry.SourceAccountID
		out.SourceAccountID = &value
	}
	if entry.DestinationAccountID != nil {
		value := *entry.DestinationAccountID
		out.DestinationAccountID = &value
	}
	if entry.OperatorUserID != nil {
		value := *entry.OperatorUserID
		out.OperatorUserID = &value
	}
	return out
}
