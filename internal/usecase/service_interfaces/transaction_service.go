package service_interfaces

import (
	"context"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/domain"
)

// TransactionService is the only entry point into the ledger engine.
type TransactionService interface {
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (domain.LedgerEntry, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
	GetTransaction(ctx context.Context, groupID string, entryType string) (domain.LedgerEntry, error)
}
