/**
 * @description
 * Money transfer between two accounts. The service assigns ids in increasing
 * order, so the id doubles as the ordering key for a ledger.
 */
package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction moves Amount from SourceAccount to TargetAccount.
type Transaction struct {
	ID            int64
	SourceAccount int64
	TargetAccount int64
	Amount        decimal.Decimal

	received attrs
}

var transactionMembers = []string{"id", "source_account", "target_account", "amount"}

// NewTransaction builds a transaction that has not been booked yet.
func NewTransaction(source, target int64, amount decimal.Decimal) Transaction {
	return Transaction{SourceAccount: source, TargetAccount: target, Amount: amount}
}

// Extra returns a JSON member the service sent that Transaction does not model.
func (t Transaction) Extra(key string) (json.RawMessage, bool) {
	return t.received.extra(key, transactionMembers)
}

func (t Transaction) String() string {
	return fmt.Sprintf("Transaction (%d): %d -> %d, amount %s", t.ID, t.SourceAccount, t.TargetAccount, t.Amount)
}

// UnmarshalJSON implements json.Unmarshaler. Amounts are accepted both as
// JSON numbers and as quoted decimals. A JSON null is a no-op.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	a, err := decodeAttrs(data)
	if err != nil {
		return err
	}
	var out Transaction
	if err := a.take("id", &out.ID); err != nil {
		return err
	}
	if err := a.take("source_account", &out.SourceAccount); err != nil {
		return err
	}
	if err := a.take("target_account", &out.TargetAccount); err != nil {
		return err
	}
	if err := a.take("amount", &out.Amount); err != nil {
		return err
	}
	out.received = a
	*t = out
	return nil
}

// MarshalJSON implements json.Marshaler. A changed or new amount is written
// as a bare JSON number, which is what the service expects; an untouched one
// keeps the form it arrived in.
func (t Transaction) MarshalJSON() ([]byte, error) {
	e := newEncoder(t.received)
	field(e, "id", t.ID, sameInt, t.ID, true)
	field(e, "source_account", t.SourceAccount, sameInt, t.SourceAccount, false)
	field(e, "target_account", t.TargetAccount, sameInt, t.TargetAccount, false)
	field(e, "amount", t.Amount, decimal.Decimal.Equal, json.Number(t.Amount.String()), false)
	return e.encode()
}
