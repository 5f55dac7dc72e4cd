package repo_interfaces

import (
	"context"

	"github.com/oakbank/core-ledger/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetTransactionPinHashByID(ctx context.Context, id string) (string, error)
}
