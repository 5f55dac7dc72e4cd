package commons

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrNotOwner        = errors.New("user is not an owner of the account")
	ErrAccountInactive = errors.New("account is inactive")
	ErrLastOwner       = errors.New("cannot remove the last owner of an account")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidState    = errors.New("invalid state")
	ErrDuplicateEntry  = errors.New("ledger entry already exists for this group id and type")
	ErrIndeterminate   = errors.New("transaction outcome indeterminate")
)

// InsufficientFundsError carries the balance observed at the time the
// mutation was rejected, so callers can report it.
type InsufficientFundsError struct {
	Balance decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s", e.Balance.StringFixed(2))
}

func IsInsufficientFunds(err error) (*InsufficientFundsError, bool) {
	var target *InsufficientFundsError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
