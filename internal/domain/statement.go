package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a reconstructed ledger captured at a point in time together
// with the balance the service reported for the account at that moment.
type Statement struct {
	ID             int64
	AccountID      int64
	ClosingBalance decimal.Decimal
	RemoteBalance  decimal.Decimal
	TotalCredits   decimal.Decimal
	TotalDebits    decimal.Decimal
	Entries        []LedgerEntry
	CreatedAt      time.Time
}

// NewStatement captures l alongside the remote balance.
func NewStatement(l *Ledger, remoteBalance decimal.Decimal, createdAt time.Time) Statement {
	credits, debits := l.Totals()
	return Statement{
		AccountID:      l.AccountID,
		ClosingBalance: l.Balance(),
		RemoteBalance:  remoteBalance,
		TotalCredits:   credits,
		TotalDebits:    debits,
		Entries:        l.Entries,
		CreatedAt:      createdAt,
	}
}

// Balanced reports whether the reconstructed and remote balances agree.
func (s Statement) Balanced() bool {
	return s.ClosingBalance.Equal(s.RemoteBalance)
}

// Discrepancy is the remote balance minus the reconstructed one.
func (s Statement) Discrepancy() decimal.Decimal {
	return s.RemoteBalance.Sub(s.ClosingBalance)
}
