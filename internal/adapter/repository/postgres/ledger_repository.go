package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

const entryColumns = `id,
       transaction_group_id,
       type,
       amount,
       source_account_id,
       destination_account_id,
       balance_before,
       balance_after,
       operator_user_id,
       visible_to_account_id,
       created_at`

func (r *LedgerRepository) Apply(ctx context.Context, mutation domain.BalanceMutation) (domain.LedgerEntry, error) {
	logger.Info("ledger repository apply mutation", logger.Fields{
		"accountId": mutation.AccountID,
		"groupId":   mutation.GroupID,
		"type":      mutation.Type,
		"delta":     mutation.Delta,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("begin mutation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var entry domain.LedgerEntry
	entry, err = applyMutation(ctx, tx, mutation)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("ledger repository commit failed", err, logger.Fields{
			"accountId": mutation.AccountID,
			"groupId":   mutation.GroupID,
		})
		return domain.LedgerEntry{}, fmt.Errorf("commit mutation for group %s: %w", mutation.GroupID, commons.ErrIndeterminate)
	}

	logger.Info("ledger repository apply mutation success", logger.Fields{
		"entryId":   entry.ID,
		"accountId": mutation.AccountID,
		"groupId":   mutation.GroupID,
		"type":      mutation.Type,
	})

	return entry, nil
}

func (r *LedgerRepository) ApplyTransfer(ctx context.Context, debit, credit domain.BalanceMutation) (domain.LedgerEntry, domain.LedgerEntry, error) {
	logger.Info("ledger repository apply transfer", logger.Fields{
		"sourceAccountId":      debit.AccountID,
		"destinationAccountId": credit.AccountID,
		"groupId":              debit.GroupID,
		"amount":               debit.Amount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock both rows in a deterministic order so two opposing transfers
	// cannot deadlock each other.
	first, second := debit.AccountID, credit.AccountID
	if second < first {
		first, second = second, first
	}
	balances := make(map[string]decimal.Decimal, 2)
	for _, accountID := range []string{first, second} {
		var balance decimal.Decimal
		balance, err = lockBalance(ctx, tx, accountID)
		if err != nil {
			return domain.LedgerEntry{}, domain.LedgerEntry{}, err
		}
		balances[accountID] = balance
	}

	// Insufficiency is checked against the locked source balance before any
	// row is written.
	sourceAfter := balances[debit.AccountID].Add(debit.Delta)
	if sourceAfter.IsNegative() {
		err = &commons.InsufficientFundsError{Balance: balances[debit.AccountID]}
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	var out, in domain.LedgerEntry
	out, err = writeMutation(ctx, tx, debit, balances[debit.AccountID], sourceAfter)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	destAfter := balances[credit.AccountID].Add(credit.Delta)
	in, err = writeMutation(ctx, tx, credit, balances[credit.AccountID], destAfter)
	if err != nil {
		return domain.LedgerEntry{}, domain.LedgerEntry{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("ledger repository commit transfer failed", err, logger.Fields{
			"groupId": debit.GroupID,
		})
		return domain.LedgerEntry{}, domain.LedgerEntry{}, fmt.Errorf("commit transfer for group %s: %w", debit.GroupID, commons.ErrIndeterminate)
	}

	logger.Info("ledger repository apply transfer success", logger.Fields{
		"outEntryId": out.ID,
		"inEntryId":  in.ID,
		"groupId":    debit.GroupID,
	})

	return out, in, nil
}

func applyMutation(ctx context.Context, tx *sql.Tx, mutation domain.BalanceMutation) (domain.LedgerEntry, error) {
	balance, err := lockBalance(ctx, tx, mutation.AccountID)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	newBalance := balance.Add(mutation.Delta)
	if newBalance.IsNegative() {
		return domain.LedgerEntry{}, &commons.InsufficientFundsError{Balance: balance}
	}

	return writeMutation(ctx, tx, mutation, balance, newBalance)
}

func lockBalance(ctx context.Context, tx *sql.Tx, accountID string) (decimal.Decimal, error) {
	const query = `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`

	var balance decimal.Decimal
	if err := tx.QueryRowContext(ctx, query, accountID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, commons.ErrRecordNotFound
		}
		return decimal.Zero, fmt.Errorf("lock balance for account %s: %w", accountID, err)
	}

	return balance, nil
}

// writeMutation persists the new balance and appends the matching ledger
// entry inside the caller's transaction.
func writeMutation(ctx context.Context, tx *sql.Tx, mutation domain.BalanceMutation, balanceBefore, balanceAfter decimal.Decimal) (domain.LedgerEntry, error) {
	const updateQuery = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, updateQuery, mutation.AccountID, balanceAfter); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("update balance for account %s: %w", mutation.AccountID, err)
	}

	const insertQuery = `
INSERT INTO ledger_entries (
	id,
	transaction_group_id,
	type,
	amount,
	source_account_id,
	destination_account_id,
	balance_before,
	balance_after,
	operator_user_id,
	visible_to_account_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at`

	entry := domain.LedgerEntry{
		ID:                   uuid.NewString(),
		GroupID:              mutation.GroupID,
		Type:                 mutation.Type,
		Amount:               mutation.Amount,
		SourceAccountID:      mutation.SourceAccountID,
		DestinationAccountID: mutation.DestinationAccountID,
		BalanceBefore:        balanceBefore,
		BalanceAfter:         balanceAfter,
		OperatorUserID:       mutation.OperatorUserID,
		VisibleToAccountID:   mutation.VisibleToAccountID,
	}

	var createdAt time.Time
	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		entry.ID,
		entry.GroupID,
		entry.Type,
		entry.Amount,
		entry.SourceAccountID,
		entry.DestinationAccountID,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.OperatorUserID,
		entry.VisibleToAccountID,
	).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return domain.LedgerEntry{}, commons.ErrDuplicateEntry
		}
		return domain.LedgerEntry{}, fmt.Errorf("insert ledger entry: %w", err)
	}

	entry.Timestamp = createdAt
	return entry, nil
}

func (r *LedgerRepository) ListAll(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries ORDER BY created_at DESC`, entryColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *LedgerRepository) ListVisibleTo(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE visible_to_account_id = $1 ORDER BY created_at DESC`, entryColumns)

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *LedgerRepository) GetByGroupAndType(ctx context.Context, groupID string, entryType domain.EntryType) (domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE transaction_group_id = $1 AND type = $2`, entryColumns)

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, groupID, entryType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LedgerEntry{}, commons.ErrRecordNotFound
		}
		return domain.LedgerEntry{}, fmt.Errorf("get ledger entry %s/%s: %w", groupID, entryType, err)
	}

	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.LedgerEntry, error) {
	var (
		entry          domain.LedgerEntry
		source         sql.NullString
		destination    sql.NullString
		operatorUserID sql.NullString
	)

	if err := row.Scan(
		&entry.ID,
		&entry.GroupID,
		&entry.Type,
		&entry.Amount,
		&source,
		&destination,
		&entry.BalanceBefore,
		&entry.BalanceAfter,
		&operatorUserID,
		&entry.VisibleToAccountID,
		&entry.Timestamp,
	); err != nil {
		return domain.LedgerEntry{}, err
	}

	if source.Valid {
		value := source.String
		entry.SourceAccountID = &value
	}
	if destination.Valid {
		value := destination.String
		entry.DestinationAccountID = &value
	}
	if operatorUserID.Valid {
		value := operatorUserID.String
		entry.OperatorUserID = &value
	}

	return entry, nil
}

func scanEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return entries, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
