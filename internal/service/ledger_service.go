package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/repository"
)

// LedgerService owns the balance invariants. Every committed mutation
// leaves the balance non-negative and appends exactly one transaction
// recording the post-mutation balance.
type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error)
	GetTransactions(ctx context.Context, accountID string, skip, limit int) ([]*models.Transaction, error)
}

type LedgerServiceImpl struct {
	txManager       repository.TxManager
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	logger          *slog.Logger
}

func NewLedgerService(txManager repository.TxManager, accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository, logger *slog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Deposit credits an account and appends a deposit-typed ledger entry.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	amount = models.Quantize(amount)
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	var transaction *models.Transaction
	err := s.txManager.WithinTx(ctx, func(tx *sql.Tx) error {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		transaction, err = applyCredit(ctx, tx, s.accountRepo, s.transactionRepo,
			account, amount, models.TransactionTypeDeposit, description)
		return err
	})
	if err != nil {
		s.logger.Warn("deposit failed",
			"account_id", accountID,
			"amount", amount.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("deposit completed",
		"account_id", accountID,
		"transaction_id", transaction.ID,
		"amount", amount.String(),
		"balance_after", transaction.BalanceAfter.String(),
	)
	return transaction, nil
}

// Withdraw debits an account and appends a withdrawal-typed ledger
// entry. Fails with ErrInsufficientFunds before any state changes.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	amount = models.Quantize(amount)
	if !amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	var transaction *models.Transaction
	err := s.txManager.WithinTx(ctx, func(tx *sql.Tx) error {
		account, err := s.accountRepo.GetByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		transaction, err = applyDebit(ctx, tx, s.accountRepo, s.transactionRepo,
			account, amount, models.TransactionTypeWithdrawal, description)
		return err
	})
	if err != nil {
		s.logger.Warn("withdrawal failed",
			"account_id", accountID,
			"amount", amount.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("withdrawal completed",
		"account_id", accountID,
		"transaction_id", transaction.ID,
		"amount", amount.String(),
		"balance_after", transaction.BalanceAfter.String(),
	)
	return transaction, nil
}

func (s *LedgerServiceImpl) GetTransactions(ctx context.Context, accountID string, skip, limit int) ([]*models.Transaction, error) {
	return s.transactionRepo.ListByAccountID(ctx, accountID, skip, limit)
}

// applyCredit increases a locked account's balance and appends the
// matching ledger entry. The caller owns the transactional boundary
// and must have locked the account row.
func applyCredit(ctx context.Context, tx *sql.Tx, accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository,
	account *models.Account, amount decimal.Decimal, txnType models.TransactionType, description string) (*models.Transaction, error) {

	if !account.IsActive {
		return nil, errors.ErrAccountInactive
	}

	newBalance := models.Quantize(account.Balance.Add(amount))
	if err := accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
		return nil, errors.NewTransactionError("update balance on credit", err)
	}
	account.Balance = newBalance

	transaction := &models.Transaction{
		AccountID:    account.ID,
		Type:         txnType,
		Direction:    models.DirectionCredit,
		Amount:       amount,
		Status:       models.StatusCompleted,
		BalanceAfter: newBalance,
		Description:  description,
	}
	if err := transactionRepo.Create(ctx, tx, transaction); err != nil {
		return nil, errors.NewTransactionError("append credit entry", err)
	}
	return transaction, nil
}

// applyDebit decreases a locked account's balance after validating
// funds, and appends the matching ledger entry.
func applyDebit(ctx context.Context, tx *sql.Tx, accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository,
	account *models.Account, amount decimal.Decimal, txnType models.TransactionType, description string) (*models.Transaction, error) {

	if !account.IsActive {
		return nil, errors.ErrAccountInactive
	}
	if account.Balance.LessThan(amount) {
		return nil, errors.ErrInsufficientFunds
	}

	newBalance := models.Quantize(account.Balance.Sub(amount))
	if err := accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance); err != nil {
		return nil, errors.NewTransactionError("update balance on debit", err)
	}
	account.Balance = newBalance

	transaction := &models.Transaction{
		AccountID:    account.ID,
		Type:         txnType,
		Direction:    models.DirectionDebit,
		Amount:       amount,
		Status:       models.StatusCompleted,
		BalanceAfter: newBalance,
		Description:  description,
	}
	if err := transactionRepo.Create(ctx, tx, transaction); err != nil {
		return nil, errors.NewTransactionError("append debit entry", err)
	}
	return transaction, nil
}
