package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/postgres"
	"github.com/oakbank/core-ledger/internal/config"
	"github.com/oakbank/core-ledger/internal/logger"
	"github.com/oakbank/core-ledger/internal/usecase/services"
)

// Seeds a development database with two users, an active account each, and
// an opening deposit so the ledger already explains every balance.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("configure logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	accountRepo := postgres.NewAccountRepository(db)
	userRepo := postgres.NewUserRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	userService := services.NewUserService(userRepo)
	accountService := services.NewAccountService(accountRepo, userRepo)
	transactionService := services.NewTransactionService(ledgerRepo, accountRepo, userRepo, nil)

	seeds := []struct {
		user    models.CreateUserRequest
		deposit decimal.Decimal
	}{
		{
			user: models.CreateUserRequest{
				Name:           "Ada Eze",
				Email:          "ada.eze@example.com",
				RoleID:         "customer",
				TransactionPin: "4321",
			},
			deposit: decimal.NewFromInt(1000),
		},
		{
			user: models.CreateUserRequest{
				Name:           "Bola Adeyemi",
				Email:          "bola.adeyemi@example.com",
				RoleID:         "customer",
				TransactionPin: "1234",
			},
			deposit: decimal.NewFromInt(250),
		},
	}

	for _, seed := range seeds {
		user, err := userService.CreateUser(ctx, seed.user)
		if err != nil {
			log.Fatalf("seed user %s: %v", seed.user.Email, err)
		}

		account, err := accountService.CreateAccount(ctx, models.CreateAccountRequest{
			UserID:        user.ID,
			AccountTypeID: "savings",
			Status:        "ACTIVE",
		})
		if err != nil {
			log.Fatalf("seed account for %s: %v", user.Email, err)
		}

		entry, err := transactionService.CreateTransaction(ctx, models.CreateTransactionRequest{
			Type:                 "DEPOSIT",
			Amount:               seed.deposit,
			DestinationAccountID: account.ID,
			OperatorUserID:       user.ID,
		})
		if err != nil {
			log.Fatalf("seed opening deposit for %s: %v", account.ID, err)
		}

		logger.Info("seeded user and account", logger.Fields{
			"userId":    user.ID,
			"accountId": account.ID,
			"balance":   entry.BalanceAfter,
		})
	}

	log.Println("seeding completed")
}
