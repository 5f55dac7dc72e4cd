package memory

import (
	"context"

	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts
	stored := user
	s.users[user.ID] = &stored

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, commons.ErrRecordNotFound
	}

	out := *user
	out.TransactionPinHash = ""
	return out, nil
}

func (r *UserRepository) GetTransactionPinHashByID(ctx context.Context, id string) (string, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return "", commons.ErrRecordNotFound
	}

	return user.TransactionPinHash, nil
}
