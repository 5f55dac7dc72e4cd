package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/domain"
)

type CreateAccountRequest struct {
	UserID         string           `json:"userId"`
	AccountTypeID  string           `json:"accountTypeId"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
	Status         string           `json:"status,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.UserID) == "" {
		errs = append(errs, "userId is required")
	}
	if strings.TrimSpace(r.AccountTypeID) == "" {
		errs = append(errs, "accountTypeId is required")
	}
	if r.InitialBalance != nil && r.InitialBalance.IsNegative() {
		errs = append(errs, "initialBalance cannot be negative")
	}
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case "", string(domain.AccountStatusActive), string(domain.AccountStatusInactive):
	default:
		errs = append(errs, "status must be ACTIVE or INACTIVE")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type UpdateAccountRequest struct {
	Status        string `json:"status,omitempty"`
	AccountTypeID string `json:"accountTypeId,omitempty"`
}

func (r UpdateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Status) == "" && strings.TrimSpace(r.AccountTypeID) == "" {
		errs = append(errs, "at least one of status or accountTypeId is required")
	}
	switch strings.ToUpper(strings.TrimSpace(r.Status)) {
	case "", string(domain.AccountStatusActive), string(domain.AccountStatusInactive):
	default:
		errs = append(errs, "status must be ACTIVE or INACTIVE")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type AccountUserRequest struct {
	UserID string `json:"userId"`
}

func (r AccountUserRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("userId is required")
	}
	return nil
}

type AccountResponse struct {
	ID            string          `json:"id"`
	AccountTypeID string          `json:"accountTypeId"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		AccountTypeID: account.AccountTypeID,
		Balance:       account.Balance,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}

func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}
