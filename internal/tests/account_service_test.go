package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
)

func TestCreateAccountDefaults(t *testing.T) {
	f := newFixture(t)

	account, err := f.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		UserID:        f.userA.ID,
		AccountTypeID: "current",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if account.Status != domain.AccountStatusInactive {
		t.Fatalf("expected new account INACTIVE, got %s", account.Status)
	}
	if !account.Balance.IsZero() {
		t.Fatalf("expected zero opening balance, got %s", account.Balance)
	}

	owners, err := f.accountRepo.ListOwners(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("list owners: %v", err)
	}
	if len(owners) != 1 || owners[0].ID != f.userA.ID {
		t.Fatalf("expected creating user as sole owner, got %v", owners)
	}
}

func TestCreateAccountUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		UserID:        "missing-user",
		AccountTypeID: "savings",
	})
	if !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUpdateInactiveAccountOnlyAllowsActivation(t *testing.T) {
	f := newFixture(t)

	account, err := f.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		UserID:        f.userA.ID,
		AccountTypeID: "savings",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, err = f.accounts.UpdateAccount(context.Background(), account.ID, models.UpdateAccountRequest{
		AccountTypeID: "current",
	})
	if !errors.Is(err, commons.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive for non-activation update, got %v", err)
	}

	updated, err := f.accounts.UpdateAccount(context.Background(), account.ID, models.UpdateAccountRequest{
		Status: "ACTIVE",
	})
	if err != nil {
		t.Fatalf("activate account: %v", err)
	}
	if updated.Status != domain.AccountStatusActive {
		t.Fatalf("expected ACTIVE after activation, got %s", updated.Status)
	}

	retyped, err := f.accounts.UpdateAccount(context.Background(), account.ID, models.UpdateAccountRequest{
		AccountTypeID: "current",
	})
	if err != nil {
		t.Fatalf("update account type: %v", err)
	}
	if retyped.AccountTypeID != "current" {
		t.Fatalf("expected account type current, got %s", retyped.AccountTypeID)
	}
	if retyped.Status != domain.AccountStatusActive {
		t.Fatalf("type change altered status: %s", retyped.Status)
	}
}

func TestAccountUserManagement(t *testing.T) {
	f := newFixture(t)

	if err := f.accounts.AddUserToAccount(context.Background(), f.accountA.ID, models.AccountUserRequest{
		UserID: f.userB.ID,
	}); err != nil {
		t.Fatalf("add second owner: %v", err)
	}

	users, err := f.accounts.ListAccountUsers(context.Background(), f.accountA.ID)
	if err != nil {
		t.Fatalf("list account users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(users))
	}

	if err := f.accounts.RemoveUserFromAccount(context.Background(), f.accountA.ID, f.userA.ID); err != nil {
		t.Fatalf("remove first owner: %v", err)
	}

	err = f.accounts.RemoveUserFromAccount(context.Background(), f.accountA.ID, f.userB.ID)
	if !errors.Is(err, commons.ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner for sole remaining owner, got %v", err)
	}
}

func TestAccountUserOperationsRequireActiveAccount(t *testing.T) {
	f := newFixture(t)

	account, err := f.accounts.CreateAccount(context.Background(), models.CreateAccountRequest{
		UserID:        f.userA.ID,
		AccountTypeID: "savings",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if _, err := f.accounts.ListAccountUsers(context.Background(), account.ID); !errors.Is(err, commons.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive listing users, got %v", err)
	}

	err = f.accounts.AddUserToAccount(context.Background(), account.ID, models.AccountUserRequest{
		UserID: f.userB.ID,
	})
	if !errors.Is(err, commons.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive adding user, got %v", err)
	}
}
