package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/domain"
)

type CreateTransactionRequest struct {
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	SourceAccountID      string          `json:"sourceAccountId,omitempty"`
	DestinationAccountID string          `json:"destinationAccountId,omitempty"`
	OperatorUserID       string          `json:"operatorUserId,omitempty"`
	GroupID              string          `json:"groupId,omitempty"`
}

func (r CreateTransactionRequest) Validate() error {
	var errs []string

	requestType := domain.RequestType(strings.ToUpper(strings.TrimSpace(r.Type)))
	switch requestType {
	case domain.RequestTypeDeposit:
		if strings.TrimSpace(r.DestinationAccountID) == "" {
			errs = append(errs, "destinationAccountId is required for deposit")
		}
	case domain.RequestTypeWithdraw:
		if strings.TrimSpace(r.SourceAccountID) == "" {
			errs = append(errs, "sourceAccountId is required for withdrawal")
		}
		if strings.TrimSpace(r.OperatorUserID) == "" {
			errs = append(errs, "operatorUserId is required for withdrawal")
		}
	case domain.RequestTypeTransfer:
		if strings.TrimSpace(r.SourceAccountID) == "" {
			errs = append(errs, "sourceAccountId is required for transfer")
		}
		if strings.TrimSpace(r.DestinationAccountID) == "" {
			errs = append(errs, "destinationAccountId is required for transfer")
		}
		if strings.TrimSpace(r.OperatorUserID) == "" {
			errs = append(errs, "operatorUserId is required for transfer")
		}
		if strings.TrimSpace(r.SourceAccountID) != "" &&
			strings.TrimSpace(r.SourceAccountID) == strings.TrimSpace(r.DestinationAccountID) {
			errs = append(errs, "sourceAccountId and destinationAccountId cannot be the same")
		}
	case "":
		errs = append(errs, "type is required")
	default:
		errs = append(errs, "type must be one of DEPOSIT, WITHDRAW, TRANSFER")
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (r CreateTransactionRequest) RequestType() domain.RequestType {
	return domain.RequestType(strings.ToUpper(strings.TrimSpace(r.Type)))
}

type TransactionResponse struct {
	ID                   string          `json:"id"`
	GroupID              string          `json:"groupId"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	SourceAccountID      *string         `json:"sourceAccountId,omitempty"`
	DestinationAccountID *string         `json:"destinationAccountId,omitempty"`
	BalanceBefore        decimal.Decimal `json:"balanceBefore"`
	BalanceAfter         decimal.Decimal `json:"balanceAfter"`
	OperatorUserID       *string         `json:"operatorUserId,omitempty"`
	VisibleToAccountID   string          `json:"visibleToAccountId"`
	Timestamp            string          `json:"timestamp"`
}

func NewTransactionResponse(entry domain.LedgerEntry) TransactionResponse {
	return TransactionResponse{
		ID:                   entry.ID,
		GroupID:              entry.GroupID,
		Type:                 string(entry.Type),
		Amount:               entry.Amount,
		SourceAccountID:      entry.SourceAccountID,
		DestinationAccountID: entry.DestinationAccountID,
		BalanceBefore:        entry.BalanceBefore,
		BalanceAfter:         entry.BalanceAfter,
		OperatorUserID:       entry.OperatorUserID,
		VisibleToAccountID:   entry.VisibleToAccountID,
		Timestamp:            entry.Timestamp.Format(time.RFC3339Nano),
	}
}

func NewTransactionResponses(entries []domain.LedgerEntry) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NewTransactionResponse(entry))
	}
	return out
}
