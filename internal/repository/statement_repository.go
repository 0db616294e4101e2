package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adityaverma/banking-service/internal/models"
)

type StatementRepository interface {
	Create(ctx context.Context, statement *models.Statement) error
	ListByAccountID(ctx context.Context, accountID string, skip, limit int) ([]*models.Statement, error)
}

type PostgresStatementRepository struct {
	db *sql.DB
}

func NewStatementRepository(db *sql.DB) *PostgresStatementRepository {
	return &PostgresStatementRepository{db: db}
}

// Create persists a generated statement. Statements are reports, not
// ledger truth; regenerating a window appends a new row.
func (r *PostgresStatementRepository) Create(ctx context.Context, statement *models.Statement) error {
	if statement.ID == "" {
		statement.ID = uuid.New().String()
	}

	query := `INSERT INTO statements (id, account_id, start_date, end_date, opening_balance, closing_balance, total_credits, total_debits, transaction_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		statement.ID, statement.AccountID, statement.StartDate, statement.EndDate,
		statement.OpeningBalance, statement.ClosingBalance,
		statement.TotalCredits, statement.TotalDebits, statement.TransactionCount,
	).Scan(&statement.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create statement: %w", err)
	}
	return nil
}

func (r *PostgresStatementRepository) ListByAccountID(ctx context.Context, accountID string, skip, limit int) ([]*models.Statement, error) {
	query := `SELECT id, account_id, start_date, end_date, opening_balance, closing_balance, total_credits, total_debits, transaction_count, created_at
		FROM statements
		WHERE account_id = $1
		ORDER BY start_date DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, accountID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements by account ID: %w", err)
	}
	defer rows.Close()

	var statements []*models.Statement
	for rows.Next() {
		statement := &models.Statement{}
		err := rows.Scan(
			&statement.ID, &statement.AccountID, &statement.StartDate, &statement.EndDate,
			&statement.OpeningBalance, &statement.ClosingBalance,
			&statement.TotalCredits, &statement.TotalDebits,
			&statement.TransactionCount, &statement.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		statements = append(statements, statement)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over statements: %w", err)
	}
	return statements, nil
}
