package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
	"github.com/oakbank/core-ledger/internal/metrics"
)

// TransactionService dispatches validated requests to the flow matching
// their type and serves the ledger queries. It is the only entry point into
// the engine from the surrounding system.
type TransactionService struct {
	ledgerRepo   repo_interfaces.LedgerRepository
	accountRepo  repo_interfaces.AccountRepository
	userRepo     repo_interfaces.UserRepository
	depositFlow  *DepositFlow
	withdrawFlow *WithdrawFlow
	transferFlow *TransferFlow
	collectors   *metrics.Collectors
}

func NewTransactionService(
	ledgerRepo repo_interfaces.LedgerRepository,
	accountRepo repo_interfaces.AccountRepository,
	userRepo repo_interfaces.UserRepository,
	collectors *metrics.Collectors,
) *TransactionService {
	return &TransactionService{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		userRepo:     userRepo,
		depositFlow:  NewDepositFlow(ledgerRepo, accountRepo),
		withdrawFlow: NewWithdrawFlow(ledgerRepo, accountRepo),
		transferFlow: NewTransferFlow(ledgerRepo, accountRepo),
		collectors:   collectors,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (domain.LedgerEntry, error) {
	logger.Info("transaction service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service validation failed", err, nil)
		return domain.LedgerEntry{}, fmt.Errorf("%w: %v", commons.ErrInvalidRequest, err)
	}

	requestType := req.RequestType()

	if operatorID := strings.TrimSpace(req.OperatorUserID); operatorID != "" {
		if _, err := s.userRepo.GetByID(ctx, operatorID); err != nil {
			logger.Error("transaction service operator lookup failed", err, logger.Fields{
				"operatorUserId": operatorID,
			})
			s.observe(requestType, err, req)
			return domain.LedgerEntry{}, err
		}
	}

	groupID := strings.TrimSpace(req.GroupID)
	if groupID == "" {
		groupID = uuid.NewString()
	} else {
		// Caller-supplied group ids make retries idempotent: a group that
		// already holds this request's primary entry is returned as-is.
		existing, err := s.ledgerRepo.GetByGroupAndType(ctx, groupID, primaryEntryType(requestType))
		if err == nil {
			logger.Info("transaction service idempotent replay", logger.Fields{
				"groupId": groupID,
				"type":    requestType,
			})
			return existing, nil
		}
		if !errors.Is(err, commons.ErrRecordNotFound) {
			return domain.LedgerEntry{}, err
		}
	}

	entry, err := s.dispatch(ctx, requestType, req, groupID)
	if errors.Is(err, commons.ErrDuplicateEntry) {
		// Two identical retries raced; the store's uniqueness on
		// (group id, type) let exactly one through. Return its entry.
		entry, err = s.ledgerRepo.GetByGroupAndType(ctx, groupID, primaryEntryType(requestType))
	}

	s.observe(requestType, err, req)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	logger.Info("transaction service create success", logger.Fields{
		"entryId": entry.ID,
		"groupId": entry.GroupID,
		"type":    entry.Type,
	})

	return entry, nil
}

func (s *TransactionService) dispatch(ctx context.Context, requestType domain.RequestType, req models.CreateTransactionRequest, groupID string) (domain.LedgerEntry, error) {
	switch requestType {
	case domain.RequestTypeDeposit:
		return s.depositFlow.Execute(ctx, req, groupID)
	case domain.RequestTypeWithdraw:
		return s.withdrawFlow.Execute(ctx, req, groupID)
	case domain.RequestTypeTransfer:
		return s.transferFlow.Execute(ctx, req, groupID)
	default:
		return domain.LedgerEntry{}, fmt.Errorf("%w: unsupported type %q", commons.ErrInvalidRequest, requestType)
	}
}

func (s *TransactionService) ListTransactions(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	accountID = strings.TrimSpace(accountID)

	if accountID == "" {
		return s.ledgerRepo.ListAll(ctx)
	}

	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return s.ledgerRepo.ListVisibleTo(ctx, accountID)
}

func (s *TransactionService) GetTransaction(ctx context.Context, groupID string, entryType string) (domain.LedgerEntry, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return domain.LedgerEntry{}, fmt.Errorf("%w: groupId is required", commons.ErrInvalidRequest)
	}

	parsed := domain.EntryType(strings.ToUpper(strings.TrimSpace(entryType)))
	switch parsed {
	case domain.EntryTypeDeposit, domain.EntryTypeWithdraw, domain.EntryTypeTransferIn, domain.EntryTypeTransferOut:
	default:
		return domain.LedgerEntry{}, fmt.Errorf("%w: unknown entry type %q", commons.ErrInvalidRequest, entryType)
	}

	return s.ledgerRepo.GetByGroupAndType(ctx, groupID, parsed)
}

// primaryEntryType is the entry type the caller gets back for a request
// type; for transfers that is the TRANSFER_OUT leg.
func primaryEntryType(requestType domain.RequestType) domain.EntryType {
	switch requestType {
	case domain.RequestTypeWithdraw:
		return domain.EntryTypeWithdraw
	case domain.RequestTypeTransfer:
		return domain.EntryTypeTransferOut
	default:
		return domain.EntryTypeDeposit
	}
}

func (s *TransactionService) observe(requestType domain.RequestType, err error, req models.CreateTransactionRequest) {
	s.collectors.ObserveTransaction(string(requestType), outcomeLabel(err), req.Amount)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if _, ok := commons.IsInsufficientFunds(err); ok {
		return "insufficient_funds"
	}
	switch {
	case errors.Is(err, commons.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, commons.ErrNotOwner), errors.Is(err, commons.ErrAccountInactive):
		return "forbidden"
	case errors.Is(err, commons.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, commons.ErrIndeterminate):
		return "indeterminate"
	default:
		return "error"
	}
}
