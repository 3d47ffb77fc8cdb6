package domain

import "github.com/shopspring/decimal"

// Direction tells whether a ledger entry adds to or takes from the account.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// LedgerEntry is one transaction as seen from a single account, together
// with the account balance right after it was booked.
type LedgerEntry struct {
	Transaction Transaction
	Direction   Direction
	Balance     decimal.Decimal
}

// SignedAmount is the amount with the sign it has for the viewed account.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == Debit {
		return e.Transaction.Amount.Neg()
	}
	return e.Transaction.Amount
}

// Ledger is the chronologically ordered transaction history of one account.
type Ledger struct {
	AccountID int64
	Entries   []LedgerEntry
}

// Balance returns the balance after the last entry, or zero for an empty ledger.
func (l *Ledger) Balance() decimal.Decimal {
	if len(l.Entries) == 0 {
		return decimal.Zero
	}
	return l.Entries[len(l.Entries)-1].Balance
}

// Totals sums credited and debited amounts separately.
func (l *Ledger) Totals() (credits, debits decimal.Decimal) {
	credits, debits = decimal.Zero, decimal.Zero
	for _, e := range l.Entries {
		if e.Direction == Credit {
			credits = credits.Add(e.Transaction.Amount)
		} else {
			debits = debits.Add(e.Transaction.Amount)
		}
	}
	return credits, debits
}

// Format renders the signed amount of the entry and the balance after it.
func (e LedgerEntry) Format(f *MoneyFormatter) (amount, balance string) {
	return f.Format(e.SignedAmount()), f.Format(e.Balance)
}

// FormatBalance renders the closing balance of the ledger.
func (l *Ledger) FormatBalance(f *MoneyFormatter) string {
	return f.Format(l.Balance())
}
