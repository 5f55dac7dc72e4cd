package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oakbank/core-ledger/internal/commons"
	"github.com/oakbank/core-ledger/internal/domain"
	"github.com/oakbank/core-ledger/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"userId": user.ID,
		"email":  user.Email,
	})

	const query = `
INSERT INTO users (id, name, email, role_id, transaction_pin_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.RoleID,
		user.TransactionPinHash,
	).Scan(&createdAt, &updatedAt); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
SELECT id, name, email, role_id, created_at, updated_at
FROM users
WHERE id = $1`

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.RoleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, commons.ErrRecordNotFound
		}
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}

	return user, nil
}

func (r *UserRepository) GetTransactionPinHashByID(ctx context.Context, id string) (string, error) {
	const query = `SELECT transaction_pin_hash FROM users WHERE id = $1`

	var hash string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", commons.ErrRecordNotFound
		}
		return "", fmt.Errorf("get pin hash for user %s: %w", id, err)
	}

	return hash, nil
}
