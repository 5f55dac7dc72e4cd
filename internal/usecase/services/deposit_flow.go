package services

import (
	"context"
	"strings"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

// DepositFlow credits a destination account. The operator is optional
// context only; deposits carry no ownership requirement.
type DepositFlow struct {
	ledgerRepo  repo_interfaces.LedgerRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewDepositFlow(
	ledgerRepo repo_interfaces.LedgerRepository,
	accountRepo repo_interfaces.AccountRepository,
) *DepositFlow {
	return &DepositFlow{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

func (f *DepositFlow) Execute(ctx context.Context, req models.CreateTransactionRequest, groupID string) (domain.LedgerEntry, error) {
	destinationID := strings.TrimSpace(req.DestinationAccountID)

	logger.Info("deposit flow execute", logger.Fields{
		"destinationAccountId": destinationID,
		"amount":               req.Amount,
		"groupId":              groupID,
	})

	if _, err := f.accountRepo.GetByID(ctx, destinationID); err != nil {
		logger.Error("deposit flow destination lookup failed", err, logger.Fields{
			"destinationAccountId": destinationID,
		})
		return domain.LedgerEntry{}, err
	}

	mutation := domain.BalanceMutation{
		AccountID:            destinationID,
		Delta:                req.Amount,
		GroupID:              groupID,
		Type:                 domain.EntryTypeDeposit,
		Amount:               req.Amount,
		DestinationAccountID: &destinationID,
		OperatorUserID:       optionalID(req.OperatorUserID),
		VisibleToAccountID:   destinationID,
	}

	entry, err := f.ledgerRepo.Apply(ctx, mutation)
	if err != nil {
		logger.Error("deposit flow apply failed", err, logger.Fields{
			"destinationAccountId": destinationID,
			"groupId":              groupID,
		})
		return domain.LedgerEntry{}, err
	}

	logger.Info("deposit flow success", logger.Fields{
		"entryId":              entry.ID,
		"destinationAccountId": destinationID,
		"balanceAfter":         entry.BalanceAfter,
	})

	return entry, nil
}

func optionalID(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
