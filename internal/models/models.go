package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry by the operation that produced it.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
)

// TransactionDirection records which way a ledger entry moved the balance
// of its own account. A transfer produces two transactions of the same
// type but opposite directions, one per account.
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "credit"
	DirectionDebit  TransactionDirection = "debit"
)

// TransactionStatus is the terminal state of a ledger entry.
// Reversed is part of the persisted vocabulary but no reversal
// operation exists; entries are written as completed.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusReversed  TransactionStatus = "reversed"
)

// CardType distinguishes debit and credit cards.
type CardType string

const (
	CardTypeDebit  CardType = "debit"
	CardTypeCredit CardType = "credit"
)

// CardStatus is the lifecycle state of a payment card.
type CardStatus string

const (
	CardStatusActive    CardStatus = "active"
	CardStatusBlocked   CardStatus = "blocked"
	CardStatusExpired   CardStatus = "expired"
	CardStatusCancelled CardStatus = "cancelled"
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Account is a single-currency balance holder. The balance is only
// ever mutated through the ledger service and never goes negative.
type Account struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"account_number"`
	HolderID      string          `json:"holder_id"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Transaction is an immutable, append-only ledger entry. BalanceAfter
// is the account balance immediately following this entry, so replaying
// entries in creation order reproduces the balance trajectory.
type Transaction struct {
	ID           string               `json:"id"`
	AccountID    string               `json:"account_id"`
	Type         TransactionType      `json:"transaction_type"`
	Direction    TransactionDirection `json:"direction"`
	Amount       decimal.Decimal      `json:"amount"`
	Status       TransactionStatus    `json:"status"`
	BalanceAfter decimal.Decimal      `json:"balance_after"`
	Description  string               `json:"description,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Transfer links the two transactions produced by one inter-account
// movement. It references accounts and transactions by id but owns
// neither.
type Transfer struct {
	ID                string            `json:"id"`
	FromAccountID     string            `json:"from_account_id"`
	ToAccountID       string            `json:"to_account_id"`
	Amount            decimal.Decimal   `json:"amount"`
	Status            TransactionStatus `json:"status"`
	Description       string            `json:"description,omitempty"`
	FromTransactionID string            `json:"from_transaction_id"`
	ToTransactionID   string            `json:"to_transaction_id"`
	CreatedAt         time.Time         `json:"created_at"`
}

type Card struct {
	ID         string     `json:"id"`
	CardNumber string     `json:"card_number"`
	LastFour   string     `json:"last_four"`
	Type       CardType   `json:"card_type"`
	Status     CardStatus `json:"status"`
	HolderID   string     `json:"holder_id"`
	AccountID  string     `json:"account_id"`
	ExpiryDate string     `json:"expiry_date"`
	CVV        string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Statement is a derived report over a date window. It is safe to
// regenerate at any time from the transaction history.
type Statement struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"account_id"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	TransactionCount int             `json:"transaction_count"`
	CreatedAt        time.Time       `json:"created_at"`
}
