package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adityaverma/banking-service/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByAccountID(ctx context.Context, accountID string, skip, limit int) ([]*models.Transaction, error)
	ListByAccountIDInRange(ctx context.Context, accountID string, start, end time.Time) ([]*models.Transaction, error)
	GetLatestBefore(ctx context.Context, accountID string, before time.Time) (*models.Transaction, error)
}

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

// Create appends a ledger entry within the mutation's transaction.
// Entries are immutable; there is no update or delete.
func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	query := `INSERT INTO transactions (id, account_id, transaction_type, direction, amount, status, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := tx.QueryRowContext(ctx, query,
		transaction.ID,
		transaction.AccountID,
		transaction.Type,
		transaction.Direction,
		transaction.Amount,
		transaction.Status,
		transaction.BalanceAfter,
		nullableString(transaction.Description),
	).Scan(&transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT id, account_id, transaction_type, direction, amount, status, balance_after, COALESCE(description, ''), created_at
		FROM transactions WHERE id = $1`

	transaction := &models.Transaction{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&transaction.ID, &transaction.AccountID, &transaction.Type, &transaction.Direction,
		&transaction.Amount, &transaction.Status, &transaction.BalanceAfter,
		&transaction.Description, &transaction.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transaction not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	return transaction, nil
}

func (r *PostgresTransactionRepository) ListByAccountID(ctx context.Context, accountID string, skip, limit int) ([]*models.Transaction, error) {
	query := `SELECT id, account_id, transaction_type, direction, amount, status, balance_after, COALESCE(description, ''), created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, accountID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions by account ID: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListByAccountIDInRange returns entries with created_at in [start, end]
// in ascending creation order so callers can replay the balance
// trajectory directly.
func (r *PostgresTransactionRepository) ListByAccountIDInRange(ctx context.Context, accountID string, start, end time.Time) ([]*models.Transaction, error) {
	query := `SELECT id, account_id, transaction_type, direction, amount, status, balance_after, COALESCE(description, ''), created_at
		FROM transactions
		WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions in date range: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetLatestBefore returns the most recent entry strictly before the
// given time, or nil if the account has no prior history.
func (r *PostgresTransactionRepository) GetLatestBefore(ctx context.Context, accountID string, before time.Time) (*models.Transaction, error) {
	query := `SELECT id, account_id, transaction_type, direction, amount, status, balance_after, COALESCE(description, ''), created_at
		FROM transactions
		WHERE account_id = $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT 1`

	transaction := &models.Transaction{}
	err := r.db.QueryRowContext(ctx, query, accountID, before).Scan(
		&transaction.ID, &transaction.AccountID, &transaction.Type, &transaction.Direction,
		&transaction.Amount, &transaction.Status, &transaction.BalanceAfter,
		&transaction.Description, &transaction.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest transaction before time: %w", err)
	}
	return transaction, nil
}

func scanTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		transaction := &models.Transaction{}
		err := rows.Scan(
			&transaction.ID, &transaction.AccountID, &transaction.Type, &transaction.Direction,
			&transaction.Amount, &transaction.Status, &transaction.BalanceAfter,
			&transaction.Description, &transaction.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
