package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

type UserService struct {
	userRepo repo_interfaces.UserRepository
}

func NewUserService(userRepo repo_interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (domain.User, error) {
	logger.Info("user service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service create validation failed", err, nil)
		return domain.User{}, commons.ErrInvalidRequest
	}

	pinHash, err := hashTransactionPin(strings.TrimSpace(req.TransactionPin))
	if err != nil {
		logger.Error("user service hash pin failed", err, nil)
		return domain.User{}, err
	}

	user := domain.User{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		RoleID:             strings.TrimSpace(req.RoleID),
		TransactionPinHash: pinHash,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		logger.Error("user service create repository failed", err, logger.Fields{
			"userId": user.ID,
		})
		return domain.User{}, err
	}

	created.TransactionPinHash = ""

	logger.Info("user service create success", logger.Fields{
		"userId": created.ID,
		"email":  created.Email,
	})

	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.userRepo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *UserService) VerifyTransactionPin(ctx context.Context, userID, pin string) (bool, error) {
	userID = strings.TrimSpace(userID)
	pin = strings.TrimSpace(pin)

	if userID == "" || pin == "" {
		return false, commons.ErrInvalidRequest
	}

	storedHash, err := s.userRepo.GetTransactionPinHashByID(ctx, userID)
	if err != nil {
		logger.Error("user service verify pin lookup failed", err, logger.Fields{
			"userId": userID,
		})
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("user service verify pin mismatch", logger.Fields{
				"userId": userID,
			})
			return false, nil
		}
		return false, fmt.Errorf("verify transaction pin: %w", err)
	}

	return true, nil
}

func hashTransactionPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash transaction pin: %w", err)
	}

	return string(hashed), nil
}
