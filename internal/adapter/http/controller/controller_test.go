package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/adapter/http/controller"
	"github.com/oakbank/core-ledger/internal/adapter/http/models"
	"github.com/oakbank/core-ledger/internal/adapter/http/router"
	"github.com/oakbank/core-ledger/internal/adapter/repository/memory"
	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/usecase/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	userRepo := memory.NewUserRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)

	handler := router.New(
		controller.NewTransactionController(services.NewTransactionService(ledgerRepo, accountRepo, userRepo, nil)),
		controller.NewAccountController(services.NewAccountService(accountRepo, userRepo)),
		controller.NewUserController(services.NewUserService(userRepo)),
		nil,
		nil,
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var envelope commons.Response[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data == nil {
		t.Fatalf("response carried no data: %+v", envelope)
	}
	return *envelope.Data
}

func TestDepositOverHTTP(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/users", map[string]any{
		"name":           "Ada Eze",
		"email":          "ada@example.com",
		"roleId":         "customer",
		"transactionPin": "4321",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status %d", resp.StatusCode)
	}
	user := decodeData[models.UserResponse](t, resp)

	resp = postJSON(t, server.URL+"/accounts", map[string]any{
		"userId":        user.ID,
		"accountTypeId": "savings",
		"status":        "ACTIVE",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account status %d", resp.StatusCode)
	}
	account := decodeData[models.AccountResponse](t, resp)

	resp = postJSON(t, server.URL+"/transactions", map[string]any{
		"type":                 "DEPOSIT",
		"amount":               "150.00",
		"destinationAccountId": account.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create transaction status %d", resp.StatusCode)
	}
	entry := decodeData[models.TransactionResponse](t, resp)

	if entry.Type != "DEPOSIT" {
		t.Fatalf("expected DEPOSIT entry, got %s", entry.Type)
	}
	if !entry.BalanceAfter.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance after 150, got %s", entry.BalanceAfter)
	}

	resp, err := http.Get(fmt.Sprintf("%s/accounts/%s/transactions", server.URL, account.ID))
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list transactions status %d", resp.StatusCode)
	}
	entries := decodeData[[]models.TransactionResponse](t, resp)
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Fatalf("expected the deposit entry in account history, got %+v", entries)
	}
}

func TestTransactionErrorStatuses(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/transactions", map[string]any{
		"type":   "DEPOSIT",
		"amount": "10",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/transactions", map[string]any{
		"type":                 "DEPOSIT",
		"amount":               "10",
		"destinationAccountId": "missing-account",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
