package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
)

// fakeStore is an in-memory stand-in for the Postgres repositories.
// All fake repos share one store so cross-entity effects (transfer
// legs, balance updates) are visible to each other.
type fakeStore struct {
	users        map[string]*models.User
	emailIndex   map[string]string
	accounts     map[string]*models.Account
	transactions []*models.Transaction
	transfers    []*models.Transfer
	cards        map[string]*models.Card
	statements   []*models.Statement
	now          time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]*models.User),
		emailIndex: make(map[string]string),
		accounts:   make(map[string]*models.Account),
		cards:      make(map[string]*models.Card),
		now:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the store clock so created_at values are strictly
// increasing, mirroring CURRENT_TIMESTAMP ordering.
func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *fakeStore) addAccount(balance string, active bool) *models.Account {
	account := &models.Account{
		ID:            uuid.New().String(),
		AccountNumber: "ACC-20240601-" + uuid.New().String()[:8],
		HolderID:      uuid.New().String(),
		AccountType:   "checking",
		Balance:       decimal.RequireFromString(balance),
		IsActive:      active,
		CreatedAt:     s.tick(),
	}
	s.accounts[account.ID] = account
	return account
}

func (s *fakeStore) snapshot() *fakeStore {
	clone := &fakeStore{
		users:        make(map[string]*models.User, len(s.users)),
		emailIndex:   make(map[string]string, len(s.emailIndex)),
		accounts:     make(map[string]*models.Account, len(s.accounts)),
		transactions: append([]*models.Transaction(nil), s.transactions...),
		transfers:    append([]*models.Transfer(nil), s.transfers...),
		cards:        make(map[string]*models.Card, len(s.cards)),
		statements:   append([]*models.Statement(nil), s.statements...),
		now:          s.now,
	}
	for id, u := range s.users {
		cp := *u
		clone.users[id] = &cp
	}
	for email, id := range s.emailIndex {
		clone.emailIndex[email] = id
	}
	for id, a := range s.accounts {
		cp := *a
		clone.accounts[id] = &cp
	}
	for id, c := range s.cards {
		cp := *c
		clone.cards[id] = &cp
	}
	return clone
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.users = snap.users
	s.emailIndex = snap.emailIndex
	s.accounts = snap.accounts
	s.transactions = snap.transactions
	s.transfers = snap.transfers
	s.cards = snap.cards
	s.statements = snap.statements
	s.now = snap.now
}

// fakeTxManager emulates the all-or-nothing boundary by restoring a
// snapshot of the store when fn fails.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	snap := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, exists := r.store.emailIndex[user.Email]; exists {
		return errors.ErrEmailAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.IsActive = true
	user.CreatedAt = r.store.tick()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.store.users[user.ID] = &cp
	r.store.emailIndex[user.Email] = user.ID
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, ok := r.store.emailIndex[email]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

type fakeAccountRepo struct {
	store *fakeStore
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.IsActive = true
	account.CreatedAt = r.store.tick()
	account.UpdatedAt = account.CreatedAt
	cp := *account
	r.store.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, ok := r.store.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (r *fakeAccountRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAccountRepo) GetByHolderID(ctx context.Context, holderID string) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, account := range r.store.accounts {
		if account.HolderID == holderID && account.IsActive {
			cp := *account
			accounts = append(accounts, &cp)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *fakeAccountRepo) UpdateBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal) error {
	account, ok := r.store.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	account.Balance = newBalance
	account.UpdatedAt = r.store.now
	return nil
}

type fakeTransactionRepo struct {
	store *fakeStore
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *sql.Tx, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	transaction.CreatedAt = r.store.tick()
	cp := *transaction
	r.store.transactions = append(r.store.transactions, &cp)
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	for _, txn := range r.store.transactions {
		if txn.ID == id {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeTransactionRepo) ListByAccountID(ctx context.Context, accountID string, skip, limit int) ([]*models.Transaction, error) {
	var matched []*models.Transaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		if r.store.transactions[i].AccountID == accountID {
			cp := *r.store.transactions[i]
			matched = append(matched, &cp)
		}
	}
	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeTransactionRepo) ListByAccountIDInRange(ctx context.Context, accountID string, start, end time.Time) ([]*models.Transaction, error) {
	var matched []*models.Transaction
	for _, txn := range r.store.transactions {
		if txn.AccountID != accountID {
			continue
		}
		if txn.CreatedAt.Before(start) || txn.CreatedAt.After(end) {
			continue
		}
		cp := *txn
		matched = append(matched, &cp)
	}
	return matched, nil
}

func (r *fakeTransactionRepo) GetLatestBefore(ctx context.Context, accountID string, before time.Time) (*models.Transaction, error) {
	var latest *models.Transaction
	for _, txn := range r.store.transactions {
		if txn.AccountID != accountID || !txn.CreatedAt.Before(before) {
			continue
		}
		if latest == nil || txn.CreatedAt.After(latest.CreatedAt) {
			cp := *txn
			latest = &cp
		}
	}
	return latest, nil
}

type fakeTransferRepo struct {
	store      *fakeStore
	failCreate error
}

func (r *fakeTransferRepo) Create(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	transfer.CreatedAt = r.store.tick()
	cp := *transfer
	r.store.transfers = append(r.store.transfers, &cp)
	return nil
}

func (r *fakeTransferRepo) ListOutgoing(ctx context.Context, fromAccountID string, skip, limit int) ([]*models.Transfer, error) {
	return r.list(func(t *models.Transfer) bool { return t.FromAccountID == fromAccountID }, skip, limit), nil
}

func (r *fakeTransferRepo) ListIncoming(ctx context.Context, toAccountID string, skip, limit int) ([]*models.Transfer, error) {
	return r.list(func(t *models.Transfer) bool { return t.ToAccountID == toAccountID }, skip, limit), nil
}

func (r *fakeTransferRepo) list(match func(*models.Transfer) bool, skip, limit int) []*models.Transfer {
	var matched []*models.Transfer
	for i := len(r.store.transfers) - 1; i >= 0; i-- {
		if match(r.store.transfers[i]) {
			cp := *r.store.transfers[i]
			matched = append(matched, &cp)
		}
	}
	if skip >= len(matched) {
		return nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched
}

type fakeCardRepo struct {
	store *fakeStore
}

func (r *fakeCardRepo) Create(ctx context.Context, card *models.Card) error {
	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	card.CreatedAt = r.store.tick()
	cp := *card
	r.store.cards[card.ID] = &cp
	return nil
}

func (r *fakeCardRepo) GetByID(ctx context.Context, id string) (*models.Card, error) {
	card, ok := r.store.cards[id]
	if !ok {
		return nil, errors.ErrCardNotFound
	}
	cp := *card
	return &cp, nil
}

func (r *fakeCardRepo) ListActiveByHolderID(ctx context.Context, holderID string) ([]*models.Card, error) {
	var cards []*models.Card
	for _, card := range r.store.cards {
		if card.HolderID == holderID && card.Status == models.CardStatusActive {
			cp := *card
			cards = append(cards, &cp)
		}
	}
	return cards, nil
}

func (r *fakeCardRepo) UpdateStatus(ctx context.Context, id string, status models.CardStatus) error {
	card, ok := r.store.cards[id]
	if !ok {
		return errors.ErrCardNotFound
	}
	card.Status = status
	return nil
}

type fakeStatementRepo struct {
	store *fakeStore
}

func (r *fakeStatementRepo) Create(ctx context.Context, statement *models.Statement) error {
	if statement.ID == "" {
		statement.ID = uuid.New().String()
	}
	statement.CreatedAt = r.store.tick()
	cp := *statement
	r.store.statements = append(r.store.statements, &cp)
	return nil
}

func (r *fakeStatementRepo) ListByAccountID(ctx context.Context, accountID string, skip, limit int) ([]*models.Statement, error) {
	var matched []*models.Statement
	for _, st := range r.store.statements {
		if st.AccountID == accountID {
			cp := *st
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartDate.After(matched[j].StartDate)
	})
	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}
