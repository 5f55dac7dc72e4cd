package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	userRepo    repo_interfaces.UserRepository
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	userRepo repo_interfaces.UserRepository,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (domain.Account, error) {
	logger.Info("account service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create validation failed", err, nil)
		return domain.Account{}, commons.ErrInvalidRequest
	}

	userID := strings.TrimSpace(req.UserID)
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		logger.Error("account service create owner lookup failed", err, logger.Fields{
			"userId": userID,
		})
		return domain.Account{}, err
	}

	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = req.InitialBalance.Round(2)
	}

	status := domain.AccountStatusInactive
	if strings.EqualFold(strings.TrimSpace(req.Status), string(domain.AccountStatusActive)) {
		status = domain.AccountStatusActive
	}

	account := domain.Account{
		ID:            uuid.NewString(),
		AccountTypeID: strings.TrimSpace(req.AccountTypeID),
		Balance:       balance,
		Status:        status,
	}

	created, err := s.accountRepo.Create(ctx, account, userID)
	if err != nil {
		logger.Error("account service create repository failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return domain.Account{}, err
	}

	logger.Info("account service create success", logger.Fields{
		"accountId": created.ID,
		"status":    created.Status,
	})

	return created, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	return s.accountRepo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.List(ctx)
}

// UpdateAccount applies field changes. An inactive account accepts only an
// explicit activation; every other change while inactive is rejected.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, req models.UpdateAccountRequest) (domain.Account, error) {
	logger.Info("account service update request", logger.Fields{
		"accountId": id,
		"payload":   logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return domain.Account{}, commons.ErrInvalidRequest
	}

	id = strings.TrimSpace(id)
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	newStatus := domain.AccountStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if account.Status == domain.AccountStatusInactive && newStatus != domain.AccountStatusActive {
		return domain.Account{}, commons.ErrAccountInactive
	}

	if newStatus == "" {
		newStatus = account.Status
	}

	updated, err := s.accountRepo.Update(ctx, id, newStatus, strings.TrimSpace(req.AccountTypeID))
	if err != nil {
		logger.Error("account service update repository failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, err
	}

	logger.Info("account service update success", logger.Fields{
		"accountId": updated.ID,
		"status":    updated.Status,
	})

	return updated, nil
}

func (s *AccountService) ListAccountUsers(ctx context.Context, accountID string) ([]domain.User, error) {
	accountID = strings.TrimSpace(accountID)
	if err := s.ensureActiveAccount(ctx, accountID); err != nil {
		return nil, err
	}

	return s.accountRepo.ListOwners(ctx, accountID)
}

func (s *AccountService) AddUserToAccount(ctx context.Context, accountID string, req models.AccountUserRequest) error {
	logger.Info("account service add user request", logger.Fields{
		"accountId": accountID,
		"userId":    req.UserID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrInvalidRequest
	}

	accountID = strings.TrimSpace(accountID)
	if err := s.ensureActiveAccount(ctx, accountID); err != nil {
		return err
	}

	userID := strings.TrimSpace(req.UserID)
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return s.accountRepo.AddOwner(ctx, accountID, userID)
}

func (s *AccountService) RemoveUserFromAccount(ctx context.Context, accountID, userID string) error {
	logger.Info("account service remove user request", logger.Fields{
		"accountId": accountID,
		"userId":    userID,
	})

	accountID = strings.TrimSpace(accountID)
	if err := s.ensureActiveAccount(ctx, accountID); err != nil {
		return err
	}

	err := s.accountRepo.RemoveOwner(ctx, accountID, strings.TrimSpace(userID))
	if err != nil {
		logger.Error("account service remove user failed", err, logger.Fields{
			"accountId": accountID,
			"userId":    userID,
		})
	}

	return err
}

func (s *AccountService) ensureActiveAccount(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status != domain.AccountStatusActive {
		return commons.ErrAccountInactive
	}
	return nil
}
