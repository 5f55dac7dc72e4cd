package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
)

type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account, ownerUserID string) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ownerUserID]; !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	ts := now()
	account.CreatedAt = ts
	account.UpdatedAt = ts
	stored := account
	s.accounts[account.ID] = &stored
	s.owners[account.ID] = []string{ownerUserID}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	return *account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, *account)
	}

	return out, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setBalanceLocked(id, newBalance)
}

func (r *AccountRepository) Update(ctx context.Context, id string, status domain.AccountStatus, accountTypeID string) (domain.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	account.Status = status
	if accountTypeID != "" {
		account.AccountTypeID = accountTypeID
	}
	account.UpdatedAt = now()
	return *account, nil
}

func (r *AccountRepository) ListOwners(ctx context.Context, accountID string) ([]domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, commons.ErrRecordNotFound
	}

	owners := make([]domain.User, 0, len(s.owners[accountID]))
	for _, userID := range s.owners[accountID] {
		if user, ok := s.users[userID]; ok {
			owners = append(owners, *user)
		}
	}

	return owners, nil
}

func (r *AccountRepository) AddOwner(ctx context.Context, accountID, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return commons.ErrRecordNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return commons.ErrRecordNotFound
	}

	for _, existing := range s.owners[accountID] {
		if existing == userID {
			return nil
		}
	}

	s.owners[accountID] = append(s.owners[accountID], userID)
	return nil
}

func (r *AccountRepository) RemoveOwner(ctx context.Context, accountID, userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[accountID]; !ok {
		return commons.ErrRecordNotFound
	}

	links := s.owners[accountID]
	index := -1
	for i, existing := range links {
		if existing == userID {
			index = i
			break
		}
	}
	if index < 0 {
		return commons.ErrRecordNotFound
	}
	if len(links) <= 1 {
		return commons.ErrLastOwner
	}

	s.owners[accountID] = append(links[:index], links[index+1:]...)
	return nil
}

func (s *Store) setBalanceLocked(id string, newBalance decimal.Decimal) error {
	if newBalance.IsNegative() {
		return fmt.Errorf("balance %s for account %s: %w", newBalance.StringFixed(2), id, commons.ErrInvalidState)
	}

	account, ok := s.accounts[id]
	if !ok {
		return commons.ErrRecordNotFound
	}

	account.Balance = newBalance
	account.UpdatedAt = now()
	return nil
}
