package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error)
	GetByHolderID(ctx context.Context, holderID string) ([]*models.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal) error
}

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query := `INSERT INTO accounts (id, account_number, holder_id, account_type, balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING is_active, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.AccountNumber, account.HolderID, account.AccountType, account.Balance,
	).Scan(&account.IsActive, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT id, account_number, holder_id, account_type, balance, is_active, created_at, updated_at
		FROM accounts WHERE id = $1`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.AccountNumber, &account.HolderID, &account.AccountType,
		&account.Balance, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

// GetByIDForUpdate loads an account under a row-level lock. Must run
// inside the transaction that will mutate the balance.
func (r *PostgresAccountRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	query := `SELECT id, account_number, holder_id, account_type, balance, is_active, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE`

	account := &models.Account{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.AccountNumber, &account.HolderID, &account.AccountType,
		&account.Balance, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID for update: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) GetByHolderID(ctx context.Context, holderID string) ([]*models.Account, error) {
	query := `SELECT id, account_number, holder_id, account_type, balance, is_active, created_at, updated_at
		FROM accounts
		WHERE holder_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by holder ID: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		err := rows.Scan(
			&account.ID, &account.AccountNumber, &account.HolderID, &account.AccountType,
			&account.Balance, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}
	return accounts, nil
}

func (r *PostgresAccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := tx.ExecContext(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating account balance: %w", err)
	}

	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}
	return nil
}
