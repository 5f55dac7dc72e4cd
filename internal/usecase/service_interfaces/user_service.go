package service_interfaces

import (
	"context"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/domain"
)

type UserService interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	VerifyTransactionPin(ctx context.Context, userID, pin string) (bool, error)
}
