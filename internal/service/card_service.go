package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
	"github.com/adityaverma/banking-service/internal/repository"
)

// CardService provisions and manages payment cards. Number and CVV
// generation here is an opaque provisioning stand-in, not a real
// issuing integration.
type CardService interface {
	CreateCard(ctx context.Context, holderID string, req *models.CreateCardRequest) (*models.Card, error)
	GetCardsForHolder(ctx context.Context, holderID string) ([]*models.Card, error)
	BlockCard(ctx context.Context, holderID, cardID string) (*models.Card, error)
}

type CardServiceImpl struct {
	cardRepo    repository.CardRepository
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

func NewCardService(cardRepo repository.CardRepository, accountRepo repository.AccountRepository, logger *slog.Logger) *CardServiceImpl {
	return &CardServiceImpl{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (s *CardServiceImpl) CreateCard(ctx context.Context, holderID string, req *models.CreateCardRequest) (*models.Card, error) {
	if req.CardType != models.CardTypeDebit && req.CardType != models.CardTypeCredit {
		return nil, errors.NewValidationError("card_type", "must be 'debit' or 'credit'")
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.HolderID != holderID {
		s.logger.Warn("card requested for foreign account",
			"account_id", req.AccountID,
			"holder_id", holderID,
		)
		return nil, errors.ErrAccessDenied
	}

	number := generateCardNumber()
	card := &models.Card{
		CardNumber: number,
		LastFour:   number[len(number)-4:],
		Type:       req.CardType,
		Status:     models.CardStatusActive,
		HolderID:   holderID,
		AccountID:  req.AccountID,
		ExpiryDate: generateExpiryDate(),
		CVV:        generateCVV(),
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		s.logger.Error("failed to create card",
			"account_id", req.AccountID,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("card created successfully",
		"card_id", card.ID,
		"account_id", req.AccountID,
		"last_four", card.LastFour,
	)
	return card, nil
}

func (s *CardServiceImpl) GetCardsForHolder(ctx context.Context, holderID string) ([]*models.Card, error) {
	return s.cardRepo.ListActiveByHolderID(ctx, holderID)
}

func (s *CardServiceImpl) BlockCard(ctx context.Context, holderID, cardID string) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.HolderID != holderID {
		return nil, errors.ErrAccessDenied
	}

	if err := s.cardRepo.UpdateStatus(ctx, cardID, models.CardStatusBlocked); err != nil {
		s.logger.Error("failed to block card",
			"card_id", cardID,
			"error", err.Error(),
		)
		return nil, err
	}
	card.Status = models.CardStatusBlocked

	s.logger.Info("card blocked",
		"card_id", cardID,
	)
	return card, nil
}

func generateCardNumber() string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, "%d", rand.Intn(10))
	}
	return b.String()
}

// generateExpiryDate returns MM/YYYY five years out.
func generateExpiryDate() string {
	return time.Now().UTC().AddDate(5, 0, 0).Format("01/2006")
}

func generateCVV() string {
	return fmt.Sprintf("%03d", rand.Intn(1000))
}
