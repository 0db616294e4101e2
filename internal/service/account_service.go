package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/repository"
)

type AccountService interface {
	CreateAccount(ctx context.Context, holderID string, req *models.CreateAccountRequest) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountsForHolder(ctx context.Context, holderID string) ([]*models.Account, error)
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
}

type AccountServiceImpl struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	logger      *slog.Logger
}

func NewAccountService(accountRepo repository.AccountRepository, userRepo repository.UserRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, holderID string, req *models.CreateAccountRequest) (*models.Account, error) {
	if err := s.validateCreateRequest(req); err != nil {
		s.logger.Warn("invalid create account request",
			"holder_id", holderID,
			"error", err.Error(),
		)
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, holderID); err != nil {
		s.logger.Warn("account holder not found",
			"holder_id", holderID,
		)
		return nil, err
	}

	account := &models.Account{
		AccountNumber: generateAccountNumber(),
		HolderID:      holderID,
		AccountType:   req.AccountType,
		Balance:       models.Quantize(req.InitialBalance),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		s.logger.Error("failed to create account",
			"holder_id", holderID,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account created successfully",
		"account_id", account.ID,
		"account_number", account.AccountNumber,
		"holder_id", holderID,
	)
	return account, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if id == "" {
		return nil, errors.NewValidationError("account_id", "must be non-empty")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Warn("account not found",
				"account_id", id,
			)
			return nil, err
		}
		s.logger.Error("failed to get account",
			"account_id", id,
			"error", err.Error(),
		)
		return nil, err
	}

	return account, nil
}

func (s *AccountServiceImpl) GetAccountsForHolder(ctx context.Context, holderID string) ([]*models.Account, error) {
	return s.accountRepo.GetByHolderID(ctx, holderID)
}

func (s *AccountServiceImpl) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return account.Balance, nil
}

func (s *AccountServiceImpl) validateCreateRequest(req *models.CreateAccountRequest) error {
	if req.AccountType == "" {
		return errors.NewValidationError("account_type", "must be non-empty")
	}
	if req.InitialBalance.IsNegative() {
		return errors.ErrNegativeBalance
	}
	return nil
}

// generateAccountNumber produces a human-readable unique number in the
// form ACC-YYYYMMDD-XXXXXXXX.
func generateAccountNumber() string {
	datePart := time.Now().UTC().Format("20060102")
	randPart := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ACC-%s-%s", datePart, randPart)
}
