package repo_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/domain"
)

// AccountRepository owns account records and the user/account ownership
// relation. Balances are mutated through the LedgerRepository; UpdateBalance
// exists for administrative correction and rejects negative values.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account, ownerUserID string) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error
	Update(ctx context.Context, id string, status domain.AccountStatus, accountTypeID string) (domain.Account, error)
	ListOwners(ctx context.Context, accountID string) ([]domain.User, error)
	AddOwner(ctx context.Context, accountID, userID string) error
	RemoveOwner(ctx context.Context, accountID, userID string) error
}
