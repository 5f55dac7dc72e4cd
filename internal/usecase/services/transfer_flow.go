package services

import (
	"context"
	"strings"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

// TransferFlow moves funds between two accounts as one atomic unit. Both
// legs share the group id; the TRANSFER_OUT entry is the primary result.
type TransferFlow struct {
	ledgerRepo  repo_interfaces.LedgerRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewTransferFlow(
	ledgerRepo repo_interfaces.LedgerRepository,
	accountRepo repo_interfaces.AccountRepository,
) *TransferFlow {
	return &TransferFlow{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

func (f *TransferFlow) Execute(ctx context.Context, req models.CreateTransactionRequest, groupID string) (domain.LedgerEntry, error) {
	sourceID := strings.TrimSpace(req.SourceAccountID)
	destinationID := strings.TrimSpace(req.DestinationAccountID)
	operatorID := strings.TrimSpace(req.OperatorUserID)

	logger.Info("transfer flow execute", logger.Fields{
		"sourceAccountId":      sourceID,
		"destinationAccountId": destinationID,
		"operatorUserId":       operatorID,
		"amount":               req.Amount,
		"groupId":              groupID,
	})

	if err := requireOwnedActiveAccount(ctx, f.accountRepo, sourceID, operatorID); err != nil {
		logger.Error("transfer flow ownership check failed", err, logger.Fields{
			"sourceAccountId": sourceID,
			"operatorUserId":  operatorID,
		})
		return domain.LedgerEntry{}, err
	}

	// A transfer never creates its destination.
	if _, err := f.accountRepo.GetByID(ctx, destinationID); err != nil {
		logger.Error("transfer flow destination lookup failed", err, logger.Fields{
			"destinationAccountId": destinationID,
		})
		return domain.LedgerEntry{}, err
	}

	debit := domain.BalanceMutation{
		AccountID:            sourceID,
		Delta:                req.Amount.Neg(),
		GroupID:              groupID,
		Type:                 domain.EntryTypeTransferOut,
		Amount:               req.Amount,
		SourceAccountID:      &sourceID,
		DestinationAccountID: &destinationID,
		OperatorUserID:       &operatorID,
		VisibleToAccountID:   sourceID,
	}
	credit := domain.BalanceMutation{
		AccountID:            destinationID,
		Delta:                req.Amount,
		GroupID:              groupID,
		Type:                 domain.EntryTypeTransferIn,
		Amount:               req.Amount,
		SourceAccountID:      &sourceID,
		DestinationAccountID: &destinationID,
		OperatorUserID:       &operatorID,
		VisibleToAccountID:   destinationID,
	}

	out, in, err := f.ledgerRepo.ApplyTransfer(ctx, debit, credit)
	if err != nil {
		logger.Error("transfer flow apply failed", err, logger.Fields{
			"sourceAccountId":      sourceID,
			"destinationAccountId": destinationID,
			"groupId":              groupID,
		})
		return domain.LedgerEntry{}, err
	}

	logger.Info("transfer flow success", logger.Fields{
		"outEntryId":         out.ID,
		"inEntryId":          in.ID,
		"groupId":            groupID,
		"sourceBalanceAfter": out.BalanceAfter,
		"destBalanceAfter":   in.BalanceAfter,
	})

	return out, nil
}
