package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/transfa/bank-client/internal/domain"
)

type sourceStub struct {
	credits    []domain.Transaction
	debits     []domain.Transaction
	creditsErr error
	debitsErr  error

	// when set, ListCredits waits for ListDebits to start
	debitsStarted chan struct{}
}

func (s *sourceStub) ListCredits(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if s.debitsStarted != nil {
		select {
		case <-s.debitsStarted:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.creditsErr != nil {
		return nil, s.creditsErr
	}
	return s.credits, nil
}

func (s *sourceStub) ListDebits(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if s.debitsStarted != nil {
		close(s.debitsStarted)
	}
	if s.debitsErr != nil {
		return nil, s.debitsErr
	}
	return s.debits, nil
}

func tx(id, source, target int64, amount string) domain.Transaction {
	t := domain.NewTransaction(source, target, decimal.RequireFromString(amount))
	t.ID = id
	return t
}

func newTestReconstructor(source TransactionSource, opts ...Option) *Reconstructor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReconstructor(source, append([]Option{WithLogger(logger)}, opts...)...)
}

func TestReconstruct_OrdersByIDWithRunningBalance(t *testing.T) {
	const accountA = 10
	source := &sourceStub{
		credits: []domain.Transaction{tx(2, 99, accountA, "50")},
		debits:  []domain.Transaction{tx(1, accountA, 99, "20")},
	}

	l, err := newTestReconstructor(source).Reconstruct(context.Background(), accountA)
	if err != nil {
		t.Fatalf("Reconstruct returned error: %v", err)
	}

	want := []struct {
		id        int64
		direction domain.Direction
		balance   string
	}{
		{id: 1, direction: domain.Debit, balance: "-20"},
		{id: 2, direction: domain.Credit, balance: "30"},
	}
	if len(l.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(l.Entries))
	}
	for i, w := range want {
		got := l.Entries[i]
		if got.Transaction.ID != w.id || got.Direction != w.direction || !got.Balance.Equal(decimal.RequireFromString(w.balance)) {
			t.Fatalf("entry %d: expected id=%d %s balance=%s, got id=%d %s balance=%s",
				i, w.id, w.direction, w.balance, got.Transaction.ID, got.Direction, got.Balance)
		}
	}
	if l.AccountID != accountA {
		t.Fatalf("expected account id %d, got %d", accountA, l.AccountID)
	}
}

func TestBuild_SignConvention(t *testing.T) {
	const account = 1
	for _, amount := range []string{"0.01", "1", "19.99", "250", "1000000.5"} {
		t.Run(amount, func(t *testing.T) {
			value := decimal.RequireFromString(amount)

			credit := Build(account, []domain.Transaction{tx(1, 2, account, amount)}, nil)
			if !credit.Balance().Equal(value) {
				t.Fatalf("expected credit to raise balance by %s, got %s", value, credit.Balance())
			}

			debit := Build(account, nil, []domain.Transaction{tx(1, account, 2, amount)})
			if !debit.Balance().Equal(value.Neg()) {
				t.Fatalf("expected debit to lower balance by %s, got %s", value, debit.Balance())
			}
		})
	}
}

func TestBuild_InterleavedStreams(t *testing.T) {
	const account = 3
	credits := []domain.Transaction{tx(7, 1, account, "5"), tx(2, 1, account, "100")}
	debits := []domain.Transaction{tx(9, account, 4, "1"), tx(4, account, 4, "30")}

	l := Build(account, credits, debits)

	wantIDs := []int64{2, 4, 7, 9}
	wantBalances := []string{"100", "70", "75", "74"}
	for i := range wantIDs {
		if l.Entries[i].Transaction.ID != wantIDs[i] {
			t.Fatalf("entry %d: expected id %d, got %d", i, wantIDs[i], l.Entries[i].Transaction.ID)
		}
		if !l.Entries[i].Balance.Equal(decimal.RequireFromString(wantBalances[i])) {
			t.Fatalf("entry %d: expected balance %s, got %s", i, wantBalances[i], l.Entries[i].Balance)
		}
	}

	credited, debited := l.Totals()
	if !credited.Sub(debited).Equal(l.Balance()) {
		t.Fatalf("expected closing balance to equal credits minus debits, got %s", l.Balance())
	}
}

func TestBuild_SelfTransferNetsToZero(t *testing.T) {
	const account = 5
	self := tx(3, account, account, "40")

	l := Build(account, []domain.Transaction{self}, []domain.Transaction{self})

	if len(l.Entries) != 2 {
		t.Fatalf("expected the transfer once per stream, got %d entries", len(l.Entries))
	}
	if l.Entries[0].Direction != domain.Credit || l.Entries[1].Direction != domain.Debit {
		t.Fatalf("expected credit then debit, got %s then %s", l.Entries[0].Direction, l.Entries[1].Direction)
	}
	if !l.Balance().IsZero() {
		t.Fatalf("expected zero balance, got %s", l.Balance())
	}
}

func TestBuild_Empty(t *testing.T) {
	l := Build(1, nil, nil)
	if len(l.Entries) != 0 || !l.Balance().IsZero() {
		t.Fatalf("expected empty ledger, got %+v", l)
	}
}

func TestCompareByID(t *testing.T) {
	tests := []struct {
		a, b int64
		want int
	}{
		{a: 1, b: 2, want: -1},
		{a: 2, b: 1, want: 1},
		{a: 4, b: 4, want: 0},
	}
	for _, tt := range tests {
		if got := CompareByID(domain.Transaction{ID: tt.a}, domain.Transaction{ID: tt.b}); got != tt.want {
			t.Fatalf("CompareByID(%d, %d): expected %d, got %d", tt.a, tt.b, tt.want, got)
		}
	}
}

func TestReconstruct_FailureYieldsNoLedger(t *testing.T) {
	boom := errors.New("503 Service Unavailable")

	tests := []struct {
		name       string
		source     *sourceStub
		wantStream Stream
	}{
		{
			name:       "credits fail",
			source:     &sourceStub{creditsErr: boom, debits: []domain.Transaction{tx(1, 1, 2, "1")}},
			wantStream: StreamCredits,
		},
		{
			name:       "debits fail",
			source:     &sourceStub{debitsErr: boom, credits: []domain.Transaction{tx(1, 2, 1, "1")}},
			wantStream: StreamDebits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newTestReconstructor(tt.source).Reconstruct(context.Background(), 1)
			if l != nil {
				t.Fatalf("expected no ledger, got %+v", l)
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %T: %v", err, err)
			}
			if fetchErr.Stream != tt.wantStream || fetchErr.AccountID != 1 {
				t.Fatalf("expected %s failure for account 1, got %s for %d", tt.wantStream, fetchErr.Stream, fetchErr.AccountID)
			}
			if !errors.Is(err, boom) {
				t.Fatalf("expected underlying error to be preserved, got %v", err)
			}
		})
	}
}

func TestReconstruct_FetchesStreamsConcurrently(t *testing.T) {
	source := &sourceStub{debitsStarted: make(chan struct{})}

	_, err := newTestReconstructor(source, WithTimeout(2*time.Second)).Reconstruct(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected credits and debits to be in flight together, got %v", err)
	}
}

func TestReconstruct_TimeoutCancelsFetches(t *testing.T) {
	// both streams block until the deadline
	source := &blockingSource{}

	_, err := newTestReconstructor(source, WithTimeout(30*time.Millisecond)).Reconstruct(context.Background(), 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

type blockingSource struct{}

func (blockingSource) ListCredits(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingSource) ListDebits(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
