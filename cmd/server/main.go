package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/oakbank/core-ledger/internal/adapter/http/controller"
	"github.com/oakbank/core-ledger/internal/adapter/http/middleware"
	"github.com/oakbank/core-ledger/internal/adapter/http/router"
	"github.com/oakbank/core-ledger/internal/adapter/repository/postgres"
	"github.com/oakbank/core-ledger/internal/config"
	"github.com/oakbank/core-ledger/internal/logger"
	"github.com/oakbank/core-ledger/internal/metrics"
	"github.com/oakbank/core-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("configure logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	collectors := metrics.New(prometheus.DefaultRegisterer)

	accountRepo := postgres.NewAccountRepository(db)
	userRepo := postgres.NewUserRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)

	transactionService := services.NewTransactionService(ledgerRepo, accountRepo, userRepo, collectors)
	accountService := services.NewAccountService(accountRepo, userRepo)
	userService := services.NewUserService(userRepo)

	handler := router.New(
		controller.NewTransactionController(transactionService),
		controller.NewAccountController(accountService),
		controller.NewUserController(userService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		middleware.Metrics(collectors),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server starting", logger.Fields{
			"addr": cfg.HTTPAddr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info("http server shutting down", nil)
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited with error", err, nil)
		log.Fatalf("server: %v", err)
	}

	logger.Info("server stopped", nil)
}
