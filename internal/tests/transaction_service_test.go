package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/repository/memory"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/usecase/services"
)

type fixture struct {
	accountRepo  *memory.AccountRepository
	transactions *services.TransactionService
	accounts     *services.AccountService
	users        *services.UserService

	userA    domain.User
	userB    domain.User
	accountA domain.Account
	accountB domain.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	userRepo := memory.NewUserRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)

	f := &fixture{
		accountRepo:  accountRepo,
		transactions: services.NewTransactionService(ledgerRepo, accountRepo, userRepo, nil),
		accounts:     services.NewAccountService(accountRepo, userRepo),
		users:        services.NewUserService(userRepo),
	}

	f.userA = f.createUser(t, "Ada Eze", "ada.eze@example.com")
	f.userB = f.createUser(t, "Bola Adeyemi", "bola.adeyemi@example.com")
	f.accountA = f.createActiveAccount(t, f.userA.ID)
	f.accountB = f.createActiveAccount(t, f.userB.ID)

	return f
}

func (f *fixture) createUser(t *testing.T, name, email string) domain.User {
	t.Helper()

	user, err := f.users.CreateUser(context.Background(), models.CreateUserRequest{
		Name:           name,
		Email:          email,
		RoleID:         "customer",
		TransactionPin: "4321",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func (f *fixture) createActiveAccount(t *testing.T, userID string) domain.Account {
	t.Helper()

	account, err := f.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		UserID:        userID,
		AccountTypeID: "savings",
		Status:        "ACTIVE",
	})
	if err != nil {
		t.Fatalf("create account for %s: %v", userID, err)
	}
	return account
}

func (f *fixture) deposit(t *testing.T, accountID string, amount int64) domain.LedgerEntry {
	t.Helper()

	entry, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:                 "DEPOSIT",
		Amount:               decimal.NewFromInt(amount),
		DestinationAccountID: accountID,
	})
	if err != nil {
		t.Fatalf("deposit %d into %s: %v", amount, accountID, err)
	}
	return entry
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()

	account, err := f.accounts.GetAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get account %s: %v", accountID, err)
	}
	return account.Balance
}

func TestDepositRecordsEntryAndBalance(t *testing.T) {
	f := newFixture(t)

	entry := f.deposit(t, f.accountA.ID, 100)

	if entry.Type != domain.EntryTypeDeposit {
		t.Fatalf("expected DEPOSIT entry, got %s", entry.Type)
	}
	if !entry.BalanceBefore.IsZero() {
		t.Fatalf("expected balance before 0, got %s", entry.BalanceBefore)
	}
	if !entry.BalanceAfter.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected balance after 100, got %s", entry.BalanceAfter)
	}
	if entry.VisibleToAccountID != f.accountA.ID {
		t.Fatalf("expected entry visible to %s, got %s", f.accountA.ID, entry.VisibleToAccountID)
	}
	if !f.balance(t, f.accountA.ID).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected account balance 100, got %s", f.balance(t, f.accountA.ID))
	}
}

func TestWithdrawRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, f.accountA.ID, 100)

	_, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:            "WITHDRAW",
		Amount:          decimal.NewFromInt(10),
		SourceAccountID: f.accountA.ID,
		OperatorUserID:  f.userB.ID,
	})
	if !errors.Is(err, commons.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if !f.balance(t, f.accountA.ID).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance changed after rejected withdrawal: %s", f.balance(t, f.accountA.ID))
	}
}

func TestWithdrawInsufficientFundsLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, f.accountA.ID, 20)

	_, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:            "WITHDRAW",
		Amount:          decimal.NewFromInt(50),
		SourceAccountID: f.accountA.ID,
		OperatorUserID:  f.userA.ID,
	})

	details, ok := commons.IsInsufficientFunds(err)
	if !ok {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}
	if !details.Balance.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected reported balance 20, got %s", details.Balance)
	}

	entries, err := f.transactions.ListTransactions(context.Background(), f.accountA.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the deposit entry, got %d entries", len(entries))
	}
	if !f.balance(t, f.accountA.ID).Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected balance 20, got %s", f.balance(t, f.accountA.ID))
	}
}

func TestTransferCreatesTwinEntriesAndConservesFunds(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, f.accountA.ID, 100)
	f.deposit(t, f.accountB.ID, 50)

	out, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:                 "TRANSFER",
		Amount:               decimal.NewFromInt(40),
		SourceAccountID:      f.accountA.ID,
		DestinationAccountID: f.accountB.ID,
		OperatorUserID:       f.userA.ID,
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if out.Type != domain.EntryTypeTransferOut {
		t.Fatalf("expected TRANSFER_OUT as primary entry, got %s", out.Type)
	}
	if !out.BalanceAfter.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected source balance after 60, got %s", out.BalanceAfter)
	}

	in, err := f.transactions.GetTransaction(context.Background(), out.GroupID, "TRANSFER_IN")
	if err != nil {
		t.Fatalf("get credit leg: %v", err)
	}
	if in.GroupID != out.GroupID {
		t.Fatalf("legs do not share a group id: %s vs %s", in.GroupID, out.GroupID)
	}
	if !in.BalanceAfter.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected destination balance after 90, got %s", in.BalanceAfter)
	}

	total := f.balance(t, f.accountA.ID).Add(f.balance(t, f.accountB.ID))
	if !total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("transfer did not conserve funds, total %s", total)
	}
}

func TestTransferVisibilityIsPerAccount(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, f.accountA.ID, 100)

	out, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:                 "TRANSFER",
		Amount:               decimal.NewFromInt(30),
		SourceAccountID:      f.accountA.ID,
		DestinationAccountID: f.accountB.ID,
		OperatorUserID:       f.userA.ID,
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	entriesB, err := f.transactions.ListTransactions(context.Background(), f.accountB.ID)
	if err != nil {
		t.Fatalf("list transactions for destination: %v", err)
	}
	for _, entry := range entriesB {
		if entry.Type == domain.EntryTypeTransferOut {
			t.Fatalf("debit leg leaked into destination account history")
		}
	}

	entriesA, err := f.transactions.ListTransactions(context.Background(), f.accountA.ID)
	if err != nil {
		t.Fatalf("list transactions for source: %v", err)
	}
	foundOut := false
	for _, entry := range entriesA {
		if entry.ID == out.ID {
			foundOut = true
		}
		if entry.Type == domain.EntryTypeTransferIn {
			t.Fatalf("credit leg leaked into source account history")
		}
	}
	if !foundOut {
		t.Fatalf("debit leg missing from source account history")
	}
}

func TestTransferFromInactiveSourceRejected(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, f.accountA.ID, 100)

	if _, err := f.accountRepo.Update(context.Background(), f.accountA.ID, domain.AccountStatusInactive, ""); err != nil {
		t.Fatalf("deactivate account: %v", err)
	}

	_, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:                 "TRANSFER",
		Amount:               decimal.NewFromInt(10),
		SourceAccountID:      f.accountA.ID,
		DestinationAccountID: f.accountB.ID,
		OperatorUserID:       f.userA.ID,
	})
	if !errors.Is(err, commons.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestDepositRetryWithGroupIDIsIdempotent(t *testing.T) {
	f := newFixture(t)

	first, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:                 "DEPOSIT",
		Amount:               decimal.NewFromInt(75),
		DestinationAccountID: f.accountA.ID,
		GroupID:              "retry-group-1",
	})
	if err != nil {
		t.Fatalf("first deposit: %v", err)
	}

	second, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Type:                 "DEPOSIT",
		Amount:               decimal.NewFromInt(75),
		DestinationAccountID: f.accountA.ID,
		GroupID:              "retry-group-1",
	})
	if err != nil {
		t.Fatalf("retried deposit: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("retry produced a new entry: %s vs %s", second.ID, first.ID)
	}
	if !f.balance(t, f.accountA.ID).Equal(decimal.NewFromInt(75)) {
		t.Fatalf("retry applied twice, balance %s", f.balance(t, f.accountA.ID))
	}
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	f.deposit(t, f.accountA.ID, 100)

	var (
		mu           sync.Mutex
		successes    int
		insufficient int
	)

	var group errgroup.Group
	for i := 0; i < 10; i++ {
		group.Go(func() error {
			_, err := f.transactions.CreateTransaction(context.Background(), models.CreateTransactionRequest{
				Type:            "WITHDRAW",
				Amount:          decimal.NewFromInt(30),
				SourceAccountID: f.accountA.ID,
				OperatorUserID:  f.userA.ID,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			default:
				if _, ok := commons.IsInsufficientFunds(err); !ok {
					return err
				}
				insufficient++
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		t.Fatalf("unexpected withdrawal error: %v", err)
	}

	if successes != 3 {
		t.Fatalf("expected exactly 3 successful withdrawals, got %d", successes)
	}
	if insufficient != 7 {
		t.Fatalf("expected 7 insufficient funds rejections, got %d", insufficient)
	}
	if !f.balance(t, f.accountA.ID).Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected final balance 10, got %s", f.balance(t, f.accountA.ID))
	}

	entries, err := f.transactions.ListTransactions(context.Background(), f.accountA.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 1 deposit and 3 withdrawal entries, got %d", len(entries))
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		req  models.CreateTransactionRequest
	}{
		{
			name: "missing type",
			req: models.CreateTransactionRequest{
				Amount:               decimal.NewFromInt(10),
				DestinationAccountID: f.accountA.ID,
			},
		},
		{
			name: "zero amount",
			req: models.CreateTransactionRequest{
				Type:                 "DEPOSIT",
				DestinationAccountID: f.accountA.ID,
			},
		},
		{
			name: "withdraw without operator",
			req: models.CreateTransactionRequest{
				Type:            "WITHDRAW",
				Amount:          decimal.NewFromInt(10),
				SourceAccountID: f.accountA.ID,
			},
		},
		{
			name: "self transfer",
			req: models.CreateTransactionRequest{
				Type:                 "TRANSFER",
				Amount:               decimal.NewFromInt(10),
				SourceAccountID:      f.accountA.ID,
				DestinationAccountID: f.accountA.ID,
				OperatorUserID:       f.userA.ID,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.transactions.CreateTransaction(context.Background(), tc.req)
			if !errors.Is(err, commons.ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestGetTransactionValidation(t *testing.T) {
	f := newFixture(t)
	entry := f.deposit(t, f.accountA.ID, 10)

	if _, err := f.transactions.GetTransaction(context.Background(), entry.GroupID, "REFUND"); !errors.Is(err, commons.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for unknown entry type, got %v", err)
	}
	if _, err := f.transactions.GetTransaction(context.Background(), "no-such-group", "DEPOSIT"); !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown group, got %v", err)
	}
}

func TestListTransactionsUnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.transactions.ListTransactions(context.Background(), "missing-account")
	if !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
