package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/metrics"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/repository"
)

type TransferService interface {
	Transfer(ctx context.Context, req *models.CreateTransferRequest) (*models.Transfer, error)
	GetOutgoingTransfers(ctx context.Context, fromAccountID string, skip, limit int) ([]*models.Transfer, error)
	GetIncomingTransfers(ctx context.Context, toAccountID string, skip, limit int) ([]*models.Transfer, error)
}

type TransferServiceImpl struct {
	txManager       repository.TxManager
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	transferRepo    repository.TransferRepository
	logger          *slog.Logger
}

func NewTransferService(txManager repository.TxManager, accountRepo repository.AccountRepository, transactionRepo repository.TransactionRepository, transferRepo repository.TransferRepository, logger *slog.Logger) *TransferServiceImpl {
	return &TransferServiceImpl{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		transferRepo:    transferRepo,
		logger:          logger,
	}
}

// Transfer moves funds between two accounts as one logical unit. Both
// legs and the linking record commit together or not at all.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req *models.CreateTransferRequest) (*models.Transfer, error) {
	if err := s.validateTransferRequest(req); err != nil {
		s.logger.Warn("invalid transfer request",
			"from_account_id", req.FromAccountID,
			"to_account_id", req.ToAccountID,
			"amount", req.Amount.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	amount := models.Quantize(req.Amount)

	var transfer *models.Transfer
	err := s.txManager.WithinTx(ctx, func(tx *sql.Tx) error {
		// Lock both rows in ascending account-id order so two
		// opposite-direction transfers between the same pair cannot
		// deadlock.
		firstID, secondID := req.FromAccountID, req.ToAccountID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}

		first, err := s.accountRepo.GetByIDForUpdate(ctx, tx, firstID)
		if err != nil {
			return fmt.Errorf("lock account %s: %w", firstID, err)
		}
		second, err := s.accountRepo.GetByIDForUpdate(ctx, tx, secondID)
		if err != nil {
			return fmt.Errorf("lock account %s: %w", secondID, err)
		}

		fromAccount, toAccount := first, second
		if fromAccount.ID != req.FromAccountID {
			fromAccount, toAccount = second, first
		}

		fromTxn, err := applyDebit(ctx, tx, s.accountRepo, s.transactionRepo,
			fromAccount, amount, models.TransactionTypeTransfer,
			fmt.Sprintf("Transfer to %s", toAccount.AccountNumber))
		if err != nil {
			return err
		}

		toTxn, err := applyCredit(ctx, tx, s.accountRepo, s.transactionRepo,
			toAccount, amount, models.TransactionTypeTransfer,
			fmt.Sprintf("Transfer from %s", fromAccount.AccountNumber))
		if err != nil {
			return err
		}

		transfer = &models.Transfer{
			FromAccountID:     req.FromAccountID,
			ToAccountID:       req.ToAccountID,
			Amount:            amount,
			Status:            models.StatusCompleted,
			Description:       req.Description,
			FromTransactionID: fromTxn.ID,
			ToTransactionID:   toTxn.ID,
		}
		if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
			return errors.NewTransactionError("create transfer record", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("transfer failed",
			"from_account_id", req.FromAccountID,
			"to_account_id", req.ToAccountID,
			"amount", amount.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	metrics.TransfersCompleted.Inc()
	s.logger.Info("transfer completed",
		"transfer_id", transfer.ID,
		"from_account_id", req.FromAccountID,
		"to_account_id", req.ToAccountID,
		"amount", amount.String(),
	)
	return transfer, nil
}

func (s *TransferServiceImpl) GetOutgoingTransfers(ctx context.Context, fromAccountID string, skip, limit int) ([]*models.Transfer, error) {
	return s.transferRepo.ListOutgoing(ctx, fromAccountID, skip, limit)
}

func (s *TransferServiceImpl) GetIncomingTransfers(ctx context.Context, toAccountID string, skip, limit int) ([]*models.Transfer, error) {
	return s.transferRepo.ListIncoming(ctx, toAccountID, skip, limit)
}

func (s *TransferServiceImpl) validateTransferRequest(req *models.CreateTransferRequest) error {
	if req.FromAccountID == "" {
		return errors.NewValidationError("from_account_id", "must be non-empty")
	}
	if req.ToAccountID == "" {
		return errors.NewValidationError("to_account_id", "must be non-empty")
	}
	if req.FromAccountID == req.ToAccountID {
		return errors.ErrSameAccount
	}
	if !models.Quantize(req.Amount).IsPositive() {
		return errors.ErrInvalidAmount
	}
	return nil
}
