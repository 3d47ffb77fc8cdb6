/**
 * @description
 * Customer of the bank as exposed by the remote ledger service.
 */
package domain

import "encoding/json"

// Customer is a bank customer. ID is assigned by the service and stays zero
// until the customer has been created remotely.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string

	received attrs
}

var customerMembers = []string{"id", "first_name", "last_name"}

// NewCustomer builds a customer that has not been persisted yet.
func NewCustomer(firstName, lastName string) Customer {
	return Customer{FirstName: firstName, LastName: lastName}
}

// Extra returns a JSON member the service sent that Customer does not model.
func (c Customer) Extra(key string) (json.RawMessage, bool) {
	return c.received.extra(key, customerMembers)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null is a no-op.
func (c *Customer) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	a, err := decodeAttrs(data)
	if err != nil {
		return err
	}
	var out Customer
	if err := a.take("id", &out.ID); err != nil {
		return err
	}
	if err := a.take("first_name", &out.FirstName); err != nil {
		return err
	}
	if err := a.take("last_name", &out.LastName); err != nil {
		return err
	}
	out.received = a
	*c = out
	return nil
}

// MarshalJSON implements json.Marshaler. Members received from the service
// are written back unchanged unless the corresponding field was modified.
// The id of a new customer is omitted while unassigned.
func (c Customer) MarshalJSON() ([]byte, error) {
	e := newEncoder(c.received)
	field(e, "id", c.ID, sameInt, c.ID, true)
	field(e, "first_name", c.FirstName, sameString, c.FirstName, false)
	field(e, "last_name", c.LastName, sameString, c.LastName, false)
	return e.encode()
}
