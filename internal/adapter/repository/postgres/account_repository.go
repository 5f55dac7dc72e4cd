package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, account_type_id, balance, status, created_at, updated_at`

// Create inserts the account and its first ownership link in one transaction
// so an account never exists without an owner.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account, ownerUserID string) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId":   account.ID,
		"ownerUserId": ownerUserID,
		"status":      account.Status,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Account{}, fmt.Errorf("begin create account transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertAccount = `
INSERT INTO accounts (id, account_type_id, balance, status)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	if err = tx.QueryRowContext(
		ctx,
		insertAccount,
		account.ID,
		account.AccountTypeID,
		account.Balance,
		account.Status,
	).Scan(&createdAt, &updatedAt); err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	const insertLink = `INSERT INTO user_accounts (user_id, account_id) VALUES ($1, $2)`
	if _, err = tx.ExecContext(ctx, insertLink, ownerUserID, account.ID); err != nil {
		return domain.Account{}, fmt.Errorf("link first owner: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Account{}, fmt.Errorf("commit create account: %w", err)
	}

	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)

	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID,
		&account.AccountTypeID,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}

	return account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY created_at`, accountColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.AccountTypeID,
			&account.Balance,
			&account.Status,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error {
	if newBalance.IsNegative() {
		return fmt.Errorf("balance %s for account %s: %w", newBalance.StringFixed(2), id, commons.ErrInvalidState)
	}

	const query = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, newBalance)
	if err != nil {
		return fmt.Errorf("update balance for account %s: %w", id, err)
	}

	return requireRow(result, id)
}

// Update changes status and, when non-empty, the account type.
func (r *AccountRepository) Update(ctx context.Context, id string, status domain.AccountStatus, accountTypeID string) (domain.Account, error) {
	logger.Info("account repository update", logger.Fields{
		"accountId":     id,
		"status":        status,
		"accountTypeId": accountTypeID,
	})

	query := fmt.Sprintf(`
UPDATE accounts
SET status = $2,
    account_type_id = COALESCE(NULLIF($3, ''), account_type_id),
    updated_at = NOW()
WHERE id = $1
RETURNING %s`, accountColumns)

	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, id, status, accountTypeID).Scan(
		&account.ID,
		&account.AccountTypeID,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("update account %s: %w", id, err)
	}

	return account, nil
}

func (r *AccountRepository) ListOwners(ctx context.Context, accountID string) ([]domain.User, error) {
	const query = `
SELECT u.id, u.name, u.email, u.role_id, u.created_at, u.updated_at
FROM users u
JOIN user_accounts ua ON ua.user_id = u.id
WHERE ua.account_id = $1
ORDER BY ua.created_at`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list owners for account %s: %w", accountID, err)
	}
	defer rows.Close()

	owners := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.RoleID,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %w", err)
	}

	return owners, nil
}

func (r *AccountRepository) AddOwner(ctx context.Context, accountID, userID string) error {
	logger.Info("account repository add owner", logger.Fields{
		"accountId": accountID,
		"userId":    userID,
	})

	const query = `
INSERT INTO user_accounts (user_id, account_id)
VALUES ($1, $2)
ON CONFLICT (user_id, account_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, userID, accountID); err != nil {
		return fmt.Errorf("add owner %s to account %s: %w", userID, accountID, err)
	}

	return nil
}

// RemoveOwner deletes the link unless it is the account's last one. The
// guard runs in the same transaction as the delete so two concurrent
// removals cannot both pass the count check.
func (r *AccountRepository) RemoveOwner(ctx context.Context, accountID, userID string) error {
	logger.Info("account repository remove owner", logger.Fields{
		"accountId": accountID,
		"userId":    userID,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove owner transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const countQuery = `
SELECT COUNT(*)
FROM (SELECT 1 FROM user_accounts WHERE account_id = $1 FOR UPDATE) links`
	var owners int
	if err = tx.QueryRowContext(ctx, countQuery, accountID).Scan(&owners); err != nil {
		err = fmt.Errorf("count owners for account %s: %w", accountID, err)
		return err
	}
	if owners <= 1 {
		err = commons.ErrLastOwner
		return err
	}

	const deleteQuery = `DELETE FROM user_accounts WHERE account_id = $1 AND user_id = $2`
	var result sql.Result
	result, err = tx.ExecContext(ctx, deleteQuery, accountID, userID)
	if err != nil {
		err = fmt.Errorf("remove owner %s from account %s: %w", userID, accountID, err)
		return err
	}
	if err = requireRow(result, accountID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit remove owner: %w", err)
	}

	return nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return commons.ErrRecordNotFound
	}
	return nil
}
