package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// TxManager runs a function inside a single all-or-nothing transactional
// boundary. Every balance-affecting operation goes through it so that a
// failure in any step rolls back the whole mutation.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type SQLTxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *SQLTxManager {
	return &SQLTxManager{db: db}
}

// WithinTx begins a SERIALIZABLE transaction, runs fn, and commits only
// if fn returned nil. Any error rolls everything back.
func (m *SQLTxManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
