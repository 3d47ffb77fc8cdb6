package bankclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/transfa/bank-client/internal/domain"
)

// ListAccounts returns every account of every customer.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return fetchMany[domain.Account](ctx, c, http.MethodGet, c.routes.accounts(), nil)
}

// GetAccount returns the account with the given id.
func (c *Client) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	return fetchOne[domain.Account](ctx, c, http.MethodGet, c.routes.account(id), nil)
}

// ListAccountsForCustomer returns the accounts owned by the customer.
func (c *Client) ListAccountsForCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return fetchMany[domain.Account](ctx, c, http.MethodGet, c.routes.customerAccounts(customerID), nil)
}

// CreateAccountForCustomer opens a new account for the customer.
func (c *Client) CreateAccountForCustomer(ctx context.Context, customerID int64) (domain.Account, error) {
	return fetchOne[domain.Account](ctx, c, http.MethodPost, c.routes.customerAccounts(customerID), nil)
}

// DeleteAccount closes the account and returns it as confirmed by the service.
func (c *Client) DeleteAccount(ctx context.Context, id int64) (domain.Account, error) {
	return fetchOne[domain.Account](ctx, c, http.MethodDelete, c.routes.account(id), nil)
}

// GetAccountBalance returns the balance the service computes for the
// account. The body is a bare JSON number rather than an entity.
func (c *Client) GetAccountBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	url := c.routes.accountBalance(id)
	raw, err := c.call(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	if err := json.Unmarshal(raw, &balance); err != nil {
		return decimal.Zero, fmt.Errorf("%s %s: %w: %v", http.MethodGet, url, domain.ErrUnexpectedShape, err)
	}
	return balance, nil
}
