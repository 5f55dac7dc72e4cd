package service_interfaces

import (
	"context"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/domain"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (domain.Account, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, id string, req models.UpdateAccountRequest) (domain.Account, error)
	ListAccountUsers(ctx context.Context, accountID string) ([]domain.User, error)
	AddUserToAccount(ctx context.Context, accountID string, req models.AccountUserRequest) error
	RemoveUserFromAccount(ctx context.Context, accountID, userID string) error
}
