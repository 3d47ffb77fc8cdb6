package bankclient

import (
	"context"
	"net/http"

	"github.com/transfa/bank-client/internal/domain"
)

// ListCustomers returns all customers.
func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return fetchMany[domain.Customer](ctx, c, http.MethodGet, c.routes.customers(), nil)
}

// CreateCustomer adds a customer. The returned value carries the id the
// service assigned.
func (c *Client) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	return fetchOne[domain.Customer](ctx, c, http.MethodPost, c.routes.customers(), customer)
}

// GetCustomer returns the customer with the given id.
func (c *Client) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return fetchOne[domain.Customer](ctx, c, http.MethodGet, c.routes.customer(id), nil)
}

// UpdateCustomer stores customer and returns the service's view of it.
func (c *Client) UpdateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.ID == 0 {
		return domain.Customer{}, ErrUnassignedID
	}
	return fetchOne[domain.Customer](ctx, c, http.MethodPut, c.routes.customer(customer.ID), customer)
}

// DeleteCustomer removes the customer and returns it as confirmed by the service.
func (c *Client) DeleteCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return fetchOne[domain.Customer](ctx, c, http.MethodDelete, c.routes.customer(id), nil)
}

// SearchCustomers returns the customers whose name matches name.
func (c *Client) SearchCustomers(ctx context.Context, name string) ([]domain.Customer, error) {
	return fetchMany[domain.Customer](ctx, c, http.MethodGet, c.routes.customersByName(name), nil)
}
