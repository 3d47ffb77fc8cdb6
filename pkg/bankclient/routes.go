package bankclient

import (
	"fmt"
	"net/url"
)

// routes builds the resource URLs below the service base address.
type routes struct {
	base string
}

func (r routes) customers() string {
	return r.base + "/customers"
}

func (r routes) customer(id int64) string {
	return fmt.Sprintf("%s/customers/%d", r.base, id)
}

func (r routes) customersByName(name string) string {
	return fmt.Sprintf("%s/customers-by-name/%s", r.base, url.PathEscape(name))
}

func (r routes) accounts() string {
	return r.base + "/accounts"
}

func (r routes) account(id int64) string {
	return fmt.Sprintf("%s/accounts/%d", r.base, id)
}

func (r routes) customerAccounts(customerID int64) string {
	return fmt.Sprintf("%s/customers/%d/accounts", r.base, customerID)
}

func (r routes) accountBalance(id int64) string {
	return fmt.Sprintf("%s/accounts/%d/balance", r.base, id)
}

func (r routes) credits(accountID int64) string {
	return fmt.Sprintf("%s/account/%d/credits", r.base, accountID)
}

func (r routes) debits(accountID int64) string {
	return fmt.Sprintf("%s/account/%d/debits", r.base, accountID)
}

func (r routes) transactions() string {
	return r.base + "/transactions"
}
