package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
)

type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) Apply(ctx context.Context, mutation domain.BalanceMutation) (domain.LedgerEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.applyLocked(mutation)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	return copyEntry(entry), nil
}

func (r *LedgerRepository) ApplyTransfer(ctx context.Context, debit, credit domain.BalanceMutation) (domain.LedgerEntry, domain.LedgerEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate both accounts and the source balance before touching
	// anything, so a failed leg never leaves a half-applied transfer.
	source, ok := s.accounts[debit.AccountID]
	if !ok {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, commons.ErrRecordNotFound
	}
	if _, ok := s.accounts[credit.AccountID]; !ok {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, commons.ErrRecordNotFound
	}
	if source.Balance.Add(debit.Delta).IsNegative() {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, &commons.InsufficientFundsError{Balance: source.Balance}
	}
	if err := s.checkDuplicateLocked(debit); err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	if err := s.checkDuplicateLocked(credit); err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	out, err := s.applyLocked(debit)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}
	in, err := s.applyLocked(credit)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	return copyEntry(out), copyEntry(in), nil
}

func (s *Store) applyLocked(mutation domain.BalanceMutation) (domain.LedgerEntry, error) {
	account, ok := s.accounts[mutation.AccountID]
	if !ok {
		return domain.LedgerEntry{}, commons.ErrRecordNotFound
	}
	if err := s.checkDuplicateLocked(mutation); err != nil {
		return domain.LedgerEntry{}, err
	}

	balanceBefore := account.Balance
	balanceAfter := balanceBefore.Add(mutation.Delta)
	if balanceAfter.IsNegative() {
		return domain.LedgerEntry{}, &commons.InsufficientFundsError{Balance: balanceBefore}
	}

	if err := s.setBalanceLocked(mutation.AccountID, balanceAfter); err != nil {
		return domain.LedgerEntry{}, err
	}

	entry := domain.LedgerEntry{
		ID:                   uuid.NewString(),
		GroupID:              mutation.GroupID,
		Type:                 mutation.Type,
		Amount:               mutation.Amount,
		SourceAccountID:      mutation.SourceAccountID,
		DestinationAccountID: mutation.DestinationAccountID,
		BalanceBefore:        balanceBefore,
		BalanceAfter:         balanceAfter,
		OperatorUserID:       mutation.OperatorUserID,
		VisibleToAccountID:   mutation.VisibleToAccountID,
		Timestamp:            now(),
	}
	s.entries = append(s.entries, entry)

	return entry, nil
}

func (s *Store) checkDuplicateLocked(mutation domain.BalanceMutation) error {
	for _, existing := range s.entries {
		if existing.GroupID == mutation.GroupID && existing.Type == mutation.Type {
			return commons.ErrDuplicateEntry
		}
	}
	return nil
}

func (r *LedgerRepository) ListAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotEntries(s.entries, func(domain.LedgerEntry) bool { return true }), nil
}

func (r *LedgerRepository) ListVisibleTo(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotEntries(s.entries, func(entry domain.LedgerEntry) bool {
		return entry.VisibleToAccountID == accountID
	}), nil
}

func (r *LedgerRepository) GetByGroupAndType(ctx context.Context, groupID string, entryType domain.EntryType) (domain.LedgerEntry, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.GroupID == groupID && entry.Type == entryType {
			return copyEntry(entry), nil
		}
	}

	return domain.LedgerEntry{}, commons.ErrRecordNotFound
}

// snapshotEntries copies matching entries, newest first.
func snapshotEntries(entries []domain.LedgerEntry, match func(domain.LedgerEntry) bool) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, 0)
	for _, entry := range entries {
		if match(entry) {
			out = append(out, copyEntry(entry))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	return out
}
