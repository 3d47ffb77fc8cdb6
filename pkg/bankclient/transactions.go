package bankclient

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/transfa/bank-client/internal/domain"
)

// ListCredits returns the transactions that credit the account.
func (c *Client) ListCredits(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return fetchMany[domain.Transaction](ctx, c, http.MethodGet, c.routes.credits(accountID), nil)
}

// ListDebits returns the transactions that debit the account.
func (c *Client) ListDebits(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return fetchMany[domain.Transaction](ctx, c, http.MethodGet, c.routes.debits(accountID), nil)
}

// CreateTransaction books tx and returns it with its assigned id.
func (c *Client) CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	return fetchOne[domain.Transaction](ctx, c, http.MethodPost, c.routes.transactions(), tx)
}

// Transfer moves amount from source to target. Whether the source can cover
// it is decided by the service.
func (c *Client) Transfer(ctx context.Context, source, target int64, amount decimal.Decimal) (domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Transaction{}, ErrNonPositiveAmount
	}
	return c.CreateTransaction(ctx, domain.NewTransaction(source, target, amount))
}
