package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/repository"
)

// StatementService reconstructs financial summaries from the
// transaction history. It never mutates ledger state.
type StatementService interface {
	GenerateStatement(ctx context.Context, accountID string, start, end time.Time) (*models.Statement, error)
	GetStatements(ctx context.Context, accountID string, skip, limit int) ([]*models.Statement, error)
}

type StatementServiceImpl struct {
	statementRepo   repository.StatementRepository
	transactionRepo repository.TransactionRepository
	accountRepo     repository.AccountRepository
	logger          *slog.Logger
}

func NewStatementService(statementRepo repository.StatementRepository, transactionRepo repository.TransactionRepository, accountRepo repository.AccountRepository, logger *slog.Logger) *StatementServiceImpl {
	return &StatementServiceImpl{
		statementRepo:   statementRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		logger:          logger,
	}
}

// GenerateStatement computes opening balance, closing balance and
// credit/debit totals for [start, end] and persists the result.
// Regenerating an unchanged window yields identical figures.
func (s *StatementServiceImpl) GenerateStatement(ctx context.Context, accountID string, start, end time.Time) (*models.Statement, error) {
	if end.Before(start) {
		return nil, errors.NewValidationError("end_date", "must not be before start_date")
	}

	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListByAccountIDInRange(ctx, accountID, start, end)
	if err != nil {
		s.logger.Error("failed to load transactions for statement",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	}

	// Classification uses each entry's direction, recorded at creation
	// relative to this account's role. A transfer-typed entry is a
	// debit on the source account and a credit on the destination; the
	// shared transfer record's single type cannot tell them apart.
	totalCredits := models.Zero()
	totalDebits := models.Zero()
	for _, txn := range transactions {
		if txn.Direction == models.DirectionCredit {
			totalCredits = totalCredits.Add(txn.Amount)
		} else {
			totalDebits = totalDebits.Add(txn.Amount)
		}
	}
	totalCredits = models.Quantize(totalCredits)
	totalDebits = models.Quantize(totalDebits)

	// Opening balance is the balance_after of the last entry before
	// the window, or 0.00 for an account with no prior history.
	openingBalance := models.Zero()
	if latest, err := s.transactionRepo.GetLatestBefore(ctx, accountID, start); err != nil {
		s.logger.Error("failed to load opening balance for statement",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	} else if latest != nil {
		openingBalance = latest.BalanceAfter
	}

	closingBalance := models.Quantize(openingBalance.Add(totalCredits).Sub(totalDebits))

	statement := &models.Statement{
		AccountID:        accountID,
		StartDate:        start,
		EndDate:          end,
		OpeningBalance:   openingBalance,
		ClosingBalance:   closingBalance,
		TotalCredits:     totalCredits,
		TotalDebits:      totalDebits,
		TransactionCount: len(transactions),
	}
	if err := s.statementRepo.Create(ctx, statement); err != nil {
		s.logger.Error("failed to persist statement",
			"account_id", accountID,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("statement generated",
		"statement_id", statement.ID,
		"account_id", accountID,
		"opening_balance", openingBalance.String(),
		"closing_balance", closingBalance.String(),
		"transaction_count", statement.TransactionCount,
	)
	return statement, nil
}

func (s *StatementServiceImpl) GetStatements(ctx context.Context, accountID string, skip, limit int) ([]*models.Statement, error) {
	return s.statementRepo.ListByAccountID(ctx, accountID, skip, limit)
}
