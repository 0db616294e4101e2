package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
)

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id string) (*models.Card, error)
	ListActiveByHolderID(ctx context.Context, holderID string) ([]*models.Card, error)
	UpdateStatus(ctx context.Context, id string, status models.CardStatus) error
}

type PostgresCardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *PostgresCardRepository {
	return &PostgresCardRepository{db: db}
}

func (r *PostgresCardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}

	query := `INSERT INTO cards (id, card_number, last_four, card_type, status, holder_id, account_id, expiry_date, cvv, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		card.ID, card.CardNumber, card.LastFour, card.Type, card.Status,
		card.HolderID, card.AccountID, card.ExpiryDate, card.CVV,
	).Scan(&card.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *PostgresCardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	query := `SELECT id, card_number, last_four, card_type, status, holder_id, account_id, expiry_date, cvv, created_at
		FROM cards WHERE id = $1`

	card := &models.Card{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.CardNumber, &card.LastFour, &card.Type, &card.Status,
		&card.HolderID, &card.AccountID, &card.ExpiryDate, &card.CVV, &card.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card by ID: %w", err)
	}
	return card, nil
}

func (r *PostgresCardRepository) ListActiveByHolderID(ctx context.Context, holderID string) ([]*models.Card, error) {
	query := `SELECT id, card_number, last_four, card_type, status, holder_id, account_id, expiry_date, cvv, created_at
		FROM cards
		WHERE holder_id = $1 AND status = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, holderID, models.CardStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards by holder ID: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	for rows.Next() {
		card := &models.Card{}
		err := rows.Scan(
			&card.ID, &card.CardNumber, &card.LastFour, &card.Type, &card.Status,
			&card.HolderID, &card.AccountID, &card.ExpiryDate, &card.CVV, &card.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over cards: %w", err)
	}
	return cards, nil
}

func (r *PostgresCardRepository) UpdateStatus(ctx context.Context, id string, status models.CardStatus) error {
	query := `UPDATE cards SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update card status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating card status: %w", err)
	}

	if rowsAffected == 0 {
		return errors.ErrCardNotFound
	}
	return nil
}
