package services

import (
	"context"

	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
)

// requireOwnedActiveAccount resolves the account and verifies the operator
// is one of its owners. Owner listing is gated on the account being ACTIVE,
// so debits from inactive accounts fail here before any balance is touched.
func requireOwnedActiveAccount(ctx context.Context, accountRepo repo_interfaces.AccountRepository, accountID, operatorUserID string) error {
	account, err := accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status != domain.AccountStatusActive {
		return commons.ErrAccountInactive
	}

	owners, err := accountRepo.ListOwners(ctx, accountID)
	if err != nil {
		return err
	}
	for _, owner := range owners {
		if owner.ID == operatorUserID {
			return nil
		}
	}

	return commons.ErrNotOwner
}
