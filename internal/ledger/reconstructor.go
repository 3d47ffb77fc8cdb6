/**
 * @description
 * Rebuilds the transaction history of one account from its credit and debit
 * streams. Both streams are fetched concurrently and joined before they are
 * merged, ordered by transaction id and annotated with a running balance.
 */
package ledger

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/transfa/bank-client/internal/domain"
	"golang.org/x/sync/errgroup"
)

// TransactionSource provides the two transaction streams of an account.
type TransactionSource interface {
	ListCredits(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListDebits(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// Reconstructor builds ledgers from a TransactionSource.
type Reconstructor struct {
	source  TransactionSource
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconstructor) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTimeout bounds a whole reconstruction, both fetches included.
func WithTimeout(d time.Duration) Option {
	return func(r *Reconstructor) {
		r.timeout = d
	}
}

// NewReconstructor creates a new Reconstructor.
func NewReconstructor(source TransactionSource, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconstruct fetches the credits and debits of the account and returns its
// ledger. If either fetch fails no ledger is returned and the error is a
// *FetchError naming the failed stream.
func (r *Reconstructor) Reconstruct(ctx context.Context, accountID int64) (*domain.Ledger, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var credits, debits []domain.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := r.source.ListCredits(gctx, accountID)
		if err != nil {
			return &FetchError{Stream: StreamCredits, AccountID: accountID, Err: err}
		}
		credits = txs
		return nil
	})
	g.Go(func() error {
		txs, err := r.source.ListDebits(gctx, accountID)
		if err != nil {
			return &FetchError{Stream: StreamDebits, AccountID: accountID, Err: err}
		}
		debits = txs
		return nil
	})

	if err := g.Wait(); err != nil {
		r.logger.Debug("ledger reconstruction failed", "account_id", accountID, "error", err)
		return nil, err
	}

	l := Build(accountID, credits, debits)
	r.logger.Debug("ledger reconstructed", "account_id", accountID, "entries", len(l.Entries), "balance", l.Balance().String())
	return l, nil
}

type sourced struct {
	tx     domain.Transaction
	stream Stream
}

// Build merges credits and debits of the account into a ledger ordered by
// ascending transaction id, starting from a zero balance.
//
// A transfer from the account to itself is listed in both streams. Rather
// than adding it twice, the copy from the debit stream is booked as a debit,
// so the pair nets to zero and the closing balance agrees with the balance
// the service reports.
func Build(accountID int64, credits, debits []domain.Transaction) *domain.Ledger {
	merged := make([]sourced, 0, len(credits)+len(debits))
	for _, tx := range credits {
		merged = append(merged, sourced{tx: tx, stream: StreamCredits})
	}
	for _, tx := range debits {
		merged = append(merged, sourced{tx: tx, stream: StreamDebits})
	}

	slices.SortStableFunc(merged, func(a, b sourced) int {
		return CompareByID(a.tx, b.tx)
	})

	balance := decimal.Zero
	entries := make([]domain.LedgerEntry, 0, len(merged))
	for _, m := range merged {
		dir := Classify(accountID, m.tx)
		if m.tx.SourceAccount == accountID && m.tx.TargetAccount == accountID && m.stream == StreamDebits {
			dir = domain.Debit
		}

		if dir == domain.Credit {
			balance = balance.Add(m.tx.Amount)
		} else {
			balance = balance.Sub(m.tx.Amount)
		}
		entries = append(entries, domain.LedgerEntry{Transaction: m.tx, Direction: dir, Balance: balance})
	}

	return &domain.Ledger{AccountID: accountID, Entries: entries}
}

// CompareByID orders transactions by id, which the service assigns in
// booking order. It returns -1, 0 or 1.
func CompareByID(a, b domain.Transaction) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// Classify tells whether tx credits or debits the account: it is a credit
// when the account is the target and a debit otherwise.
func Classify(accountID int64, tx domain.Transaction) domain.Direction {
	if tx.TargetAccount == accountID {
		return domain.Credit
	}
	return domain.Debit
}
