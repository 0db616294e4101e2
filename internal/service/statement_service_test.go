package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/adityaverma/banking-service/internal/errors"
	"github.com/adityaverma/banking-service/internal/models"
)

type statementFixture struct {
	store     *fakeStore
	ledger    *LedgerServiceImpl
	transfers *TransferServiceImpl
	svc       *StatementServiceImpl
}

func newStatementFixture() *statementFixture {
	store := newFakeStore()
	txManager := &fakeTxManager{store: store}
	accountRepo := &fakeAccountRepo{store: store}
	transactionRepo := &fakeTransactionRepo{store: store}
	return &statementFixture{
		store:     store,
		ledger:    NewLedgerService(txManager, accountRepo, transactionRepo, testLogger()),
		transfers: NewTransferService(txManager, accountRepo, transactionRepo, &fakeTransferRepo{store: store}, testLogger()),
		svc:       NewStatementService(&fakeStatementRepo{store: store}, transactionRepo, accountRepo, testLogger()),
	}
}

func (f *statementFixture) window() (time.Time, time.Time) {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
}

func TestStatementEmptyAccount(t *testing.T) {
	f := newStatementFixture()
	account := f.store.addAccount("0.00", true)
	start, end := f.window()

	st, err := f.svc.GenerateStatement(context.Background(), account.ID, start, end)
	if err != nil {
		t.Fatal(err)
	}

	if !st.OpeningBalance.IsZero() || !st.ClosingBalance.IsZero() {
		t.Errorf("opening=%s closing=%s want both 0.00", st.OpeningBalance, st.ClosingBalance)
	}
	if !st.TotalCredits.IsZero() || !st.TotalDebits.IsZero() {
		t.Errorf("credits=%s debits=%s want both 0.00", st.TotalCredits, st.TotalDebits)
	}
	if st.TransactionCount != 0 {
		t.Errorf("transaction_count=%d want=0", st.TransactionCount)
	}
}

func TestStatementReconstruction(t *testing.T) {
	f := newStatementFixture()
	account := f.store.addAccount("0.00", true)
	ctx := context.Background()

	if _, err := f.ledger.Deposit(ctx, account.ID, dec(t, "1000.00"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ledger.Withdraw(ctx, account.ID, dec(t, "300.50"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ledger.Deposit(ctx, account.ID, dec(t, "20.25"), ""); err != nil {
		t.Fatal(err)
	}

	start, end := f.window()
	st, err := f.svc.GenerateStatement(ctx, account.ID, start, end)
	if err != nil {
		t.Fatal(err)
	}

	if !st.TotalCredits.Equal(dec(t, "1020.25")) {
		t.Errorf("credits=%s want=1020.25", st.TotalCredits)
	}
	if !st.TotalDebits.Equal(dec(t, "300.50")) {
		t.Errorf("debits=%s want=300.50", st.TotalDebits)
	}
	if st.TransactionCount != 3 {
		t.Errorf("transaction_count=%d want=3", st.TransactionCount)
	}

	want := st.OpeningBalance.Add(st.TotalCredits).Sub(st.TotalDebits)
	if !st.ClosingBalance.Equal(want) {
		t.Errorf("closing=%s want=%s", st.ClosingBalance, want)
	}
	if !st.ClosingBalance.Equal(f.store.accounts[account.ID].Balance) {
		t.Errorf("closing=%s does not match live balance %s", st.ClosingBalance, f.store.accounts[account.ID].Balance)
	}
}

// TestStatementOpeningBalance puts history before the window and
// checks the opening balance picks up the last pre-window entry.
func TestStatementOpeningBalance(t *testing.T) {
	f := newStatementFixture()
	account := f.store.addAccount("0.00", true)
	ctx := context.Background()

	// Pre-window history.
	if _, err := f.ledger.Deposit(ctx, account.ID, dec(t, "500.00"), ""); err != nil {
		t.Fatal(err)
	}

	// Window starts after the deposit above.
	start := f.store.now.Add(time.Minute)
	if _, err := f.svc.GenerateStatement(ctx, account.ID, start, start.Add(24*time.Hour)); err != nil {
		t.Fatal(err)
	}
	st := f.store.statements[0]

	if !st.OpeningBalance.Equal(dec(t, "500.00")) {
		t.Errorf("opening=%s want=500.00", st.OpeningBalance)
	}
	if !st.ClosingBalance.Equal(dec(t, "500.00")) {
		t.Errorf("closing=%s want=500.00 for empty window", st.ClosingBalance)
	}
	if st.TransactionCount != 0 {
		t.Errorf("transaction_count=%d want=0", st.TransactionCount)
	}
}

// TestStatementTransferClassification verifies transfer legs are
// classified by each account's own role, not by the shared type.
func TestStatementTransferClassification(t *testing.T) {
	f := newStatementFixture()
	a := f.store.addAccount("1000.00", true)
	b := f.store.addAccount("0.00", true)
	ctx := context.Background()

	if _, err := f.transfers.Transfer(ctx, &models.CreateTransferRequest{
		FromAccountID: a.ID,
		ToAccountID:   b.ID,
		Amount:        dec(t, "400.00"),
	}); err != nil {
		t.Fatal(err)
	}

	start, end := f.window()
	stA, err := f.svc.GenerateStatement(ctx, a.ID, start, end)
	if err != nil {
		t.Fatal(err)
	}
	stB, err := f.svc.GenerateStatement(ctx, b.ID, start, end)
	if err != nil {
		t.Fatal(err)
	}

	if !stA.TotalDebits.Equal(dec(t, "400.00")) || !stA.TotalCredits.IsZero() {
		t.Errorf("source statement credits=%s debits=%s want=0/400.00", stA.TotalCredits, stA.TotalDebits)
	}
	if !stB.TotalCredits.Equal(dec(t, "400.00")) || !stB.TotalDebits.IsZero() {
		t.Errorf("destination statement credits=%s debits=%s want=400.00/0", stB.TotalCredits, stB.TotalDebits)
	}
}

// TestStatementRegenerationIdempotent regenerates the same window and
// expects identical financial figures in a distinct record.
func TestStatementRegenerationIdempotent(t *testing.T) {
	f := newStatementFixture()
	account := f.store.addAccount("0.00", true)
	ctx := context.Background()

	if _, err := f.ledger.Deposit(ctx, account.ID, dec(t, "123.45"), ""); err != nil {
		t.Fatal(err)
	}

	start, end := f.window()
	first, err := f.svc.GenerateStatement(ctx, account.ID, start, end)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.svc.GenerateStatement(ctx, account.ID, start, end)
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == second.ID {
		t.Error("regeneration should create a new record")
	}
	if !first.OpeningBalance.Equal(second.OpeningBalance) ||
		!first.ClosingBalance.Equal(second.ClosingBalance) ||
		!first.TotalCredits.Equal(second.TotalCredits) ||
		!first.TotalDebits.Equal(second.TotalDebits) ||
		first.TransactionCount != second.TransactionCount {
		t.Error("regenerated statement figures differ")
	}
}

func TestStatementAccountNotFound(t *testing.T) {
	f := newStatementFixture()
	start, end := f.window()

	if _, err := f.svc.GenerateStatement(context.Background(), "missing", start, end); !stderrors.Is(err, errors.ErrAccountNotFound) {
		t.Fatalf("want ErrAccountNotFound, got %v", err)
	}
}

func TestStatementInvalidWindow(t *testing.T) {
	f := newStatementFixture()
	account := f.store.addAccount("0.00", true)
	start, end := f.window()

	if _, err := f.svc.GenerateStatement(context.Background(), account.ID, end, start); !errors.IsValidationError(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestGetStatementsPaging(t *testing.T) {
	f := newStatementFixture()
	account := f.store.addAccount("0.00", true)
	ctx := context.Background()
	start, end := f.window()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.GenerateStatement(ctx, account.ID, start, end); err != nil {
			t.Fatal(err)
		}
	}

	statements, err := f.svc.GetStatements(ctx, account.ID, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(statements) != 2 {
		t.Errorf("statements=%d want=2", len(statements))
	}
}
