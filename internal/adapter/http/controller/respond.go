package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakbank/core-ledger/internal/commons"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFromError maps domain errors onto HTTP statuses. Commit failures map
// to 503 so callers know to query before retrying.
func statusFromError(err error) (int, string) {
	if details, ok := commons.IsInsufficientFunds(err); ok {
		return http.StatusUnprocessableEntity, details.Error()
	}

	switch {
	case errors.Is(err, commons.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, commons.ErrRecordNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, commons.ErrNotOwner):
		return http.StatusForbidden, "operator does not own the account"
	case errors.Is(err, commons.ErrAccountInactive):
		return http.StatusForbidden, "account is not active"
	case errors.Is(err, commons.ErrLastOwner):
		return http.StatusConflict, "an account must have at least one user"
	case errors.Is(err, commons.ErrIndeterminate):
		return http.StatusServiceUnavailable, "transaction outcome is unknown, query before retrying"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
