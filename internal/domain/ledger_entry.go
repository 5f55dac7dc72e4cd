package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestType is the three-way classification a caller submits.
type RequestType string

const (
	RequestTypeDeposit  RequestType = "DEPOSIT"
	RequestTypeWithdraw RequestType = "WITHDRAW"
	RequestTypeTransfer RequestType = "TRANSFER"
)

// EntryType is the four-way classification stored on each ledger entry.
// A TRANSFER request produces one TRANSFER_OUT and one TRANSFER_IN entry.
type EntryType string

const (
	EntryTypeDeposit     EntryType = "DEPOSIT"
	EntryTypeWithdraw    EntryType = "WITHDRAW"
	EntryTypeTransferIn  EntryType = "TRANSFER_IN"
	EntryTypeTransferOut EntryType = "TRANSFER_OUT"
)

// LedgerEntry is one immutable record of a balance-affecting event.
// (GroupID, Type) identifies exactly one entry; the two legs of a transfer
// share a GroupID.
type LedgerEntry struct {
	ID                   string
	GroupID              string
	Type                 EntryType
	Amount               decimal.Decimal
	SourceAccountID      *string
	DestinationAccountID *string
	BalanceBefore        decimal.Decimal
	BalanceAfter         decimal.Decimal
	OperatorUserID       *string
	VisibleToAccountID   string
	Timestamp            time.Time
}

// BalanceMutation describes one atomic balance change plus the ledger entry
// template recorded with it. Delta is signed: positive credits the account,
// negative debits it.
type BalanceMutation struct {
	AccountID            string
	Delta                decimal.Decimal
	GroupID              string
	Type                 EntryType
	Amount               decimal.Decimal
	SourceAccountID      *string
	DestinationAccountID *string
	OperatorUserID       *string
	VisibleToAccountID   string
}
