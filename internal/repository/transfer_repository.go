package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adityaverma/banking-service/internal/models"
)

type TransferRepository interface {
	Create(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error
	ListOutgoing(ctx context.Context, fromAccountID string, skip, limit int) ([]*models.Transfer, error)
	ListIncoming(ctx context.Context, toAccountID string, skip, limit int) ([]*models.Transfer, error)
}

type PostgresTransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *PostgresTransferRepository {
	return &PostgresTransferRepository{db: db}
}

// Create persists the record linking both legs. It runs in the same
// transaction as the two ledger entries so all three commit together.
func (r *PostgresTransferRepository) Create(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}

	query := `INSERT INTO transfers (id, from_account_id, to_account_id, amount, status, description, from_transaction_id, to_transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := tx.QueryRowContext(ctx, query,
		transfer.ID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		transfer.Amount,
		transfer.Status,
		nullableString(transfer.Description),
		transfer.FromTransactionID,
		transfer.ToTransactionID,
	).Scan(&transfer.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *PostgresTransferRepository) ListOutgoing(ctx context.Context, fromAccountID string, skip, limit int) ([]*models.Transfer, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, status, COALESCE(description, ''), from_transaction_id, to_transaction_id, created_at
		FROM transfers
		WHERE from_account_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	return r.listTransfers(ctx, query, fromAccountID, skip, limit)
}

func (r *PostgresTransferRepository) ListIncoming(ctx context.Context, toAccountID string, skip, limit int) ([]*models.Transfer, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, status, COALESCE(description, ''), from_transaction_id, to_transaction_id, created_at
		FROM transfers
		WHERE to_account_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	return r.listTransfers(ctx, query, toAccountID, skip, limit)
}

func (r *PostgresTransferRepository) listTransfers(ctx context.Context, query, accountID string, skip, limit int) ([]*models.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, query, accountID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*models.Transfer
	for rows.Next() {
		transfer := &models.Transfer{}
		err := rows.Scan(
			&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID, &transfer.Amount,
			&transfer.Status, &transfer.Description, &transfer.FromTransactionID,
			&transfer.ToTransactionID, &transfer.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transfers: %w", err)
	}
	return transfers, nil
}
