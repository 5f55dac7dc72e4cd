package repo_interfaces

import (
	"context"

	"github.com/oakbank/core-ledger/internal/domain"
)

// LedgerRepository is the balance mutator plus the append-only entry store.
//
// Apply executes one atomic unit: read the current balance under a lock,
// add the delta, reject the mutation with *commons.InsufficientFundsError if
// the result would be negative, persist the new balance and append the entry
// stamped with before/after snapshots. Concurrent mutators on the same
// account are serialized by the implementation.
//
// ApplyTransfer runs the debit and the credit leg as one atomic commit:
// either both legs persist or neither does. Insufficiency on the debit leg
// is detected before any persisted mutation.
//
// An entry that would collide on (group id, type) fails with
// commons.ErrDuplicateEntry, which callers treat as an idempotent replay.
type LedgerRepository interface {
	Apply(ctx context.Context, mutation domain.BalanceMutation) (domain.LedgerEntry, error)
	ApplyTransfer(ctx context.Context, debit, credit domain.BalanceMutation) (domain.LedgerEntry, domain.LedgerEntry, error)
	ListAll(ctx context.Context) ([]domain.LedgerEntry, error)
	ListVisibleTo(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
	GetByGroupAndType(ctx context.Context, groupID string, entryType domain.EntryType) (domain.LedgerEntry, error)
}
