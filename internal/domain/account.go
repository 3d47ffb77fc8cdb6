package domain

import "encoding/json"

// Account is a bank account. Owner is the id of the customer holding it and
// does not change after creation.
type Account struct {
	ID    int64
	Owner int64

	received attrs
}

var accountMembers = []string{"id", "owner"}

// Extra returns a JSON member the service sent that Account does not model.
func (a Account) Extra(key string) (json.RawMessage, bool) {
	return a.received.extra(key, accountMembers)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null is a no-op.
func (a *Account) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	members, err := decodeAttrs(data)
	if err != nil {
		return err
	}
	var out Account
	if err := members.take("id", &out.ID); err != nil {
		return err
	}
	if err := members.take("owner", &out.Owner); err != nil {
		return err
	}
	out.received = members
	*a = out
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Account) MarshalJSON() ([]byte, error) {
	e := newEncoder(a.received)
	field(e, "id", a.ID, sameInt, a.ID, true)
	field(e, "owner", a.Owner, sameInt, a.Owner, false)
	return e.encode()
}
