package services

import (
	"context"
	"strings"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

// WithdrawFlow debits a source account on behalf of an operator who must be
// one of its owners.
type WithdrawFlow struct {
	ledgerRepo  repo_interfaces.LedgerRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewWithdrawFlow(
	ledgerRepo repo_interfaces.LedgerRepository,
	accountRepo repo_interfaces.AccountRepository,
) *WithdrawFlow {
	return &WithdrawFlow{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

func (f *WithdrawFlow) Execute(ctx context.Context, req models.CreateTransactionRequest, groupID string) (domain.LedgerEntry, error) {
	sourceID := strings.TrimSpace(req.SourceAccountID)
	operatorID := strings.TrimSpace(req.OperatorUserID)

	logger.Info("withdraw flow execute", logger.Fields{
		"sourceAccountId": sourceID,
		"operatorUserId":  operatorID,
		"amount":          req.Amount,
		"groupId":         groupID,
	})

	if err := requireOwnedActiveAccount(ctx, f.accountRepo, sourceID, operatorID); err != nil {
		logger.Error("withdraw flow ownership check failed", err, logger.Fields{
			"sourceAccountId": sourceID,
			"operatorUserId":  operatorID,
		})
		return domain.LedgerEntry{}, err
	}

	mutation := domain.BalanceMutation{
		AccountID:          sourceID,
		Delta:              req.Amount.Neg(),
		GroupID:            groupID,
		Type:               domain.EntryTypeWithdraw,
		Amount:             req.Amount,
		SourceAccountID:    &sourceID,
		OperatorUserID:     &operatorID,
		VisibleToAccountID: sourceID,
	}

	entry, err := f.ledgerRepo.Apply(ctx, mutation)
	if err != nil {
		logger.Error("withdraw flow apply failed", err, logger.Fields{
			"sourceAccountId": sourceID,
			"groupId":         groupID,
		})
		return domain.LedgerEntry{}, err
	}

	logger.Info("withdraw flow success", logger.Fields{
		"entryId":         entry.ID,
		"sourceAccountId": sourceID,
		"balanceAfter":    entry.BalanceAfter,
	})

	return entry, nil
}
