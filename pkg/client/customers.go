package client

import (
	"context"
	"net/url"
)

// CustomersService groups the customer endpoints.
type CustomersService struct {
	c *Client
}

// List returns active customers, optionally filtered by a search query over
// name, email, phone and company.
func (s *CustomersService) List(ctx context.Context, search string) ([]Customer, error) {
	path := "/customers"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []Customer
	err := s.c.get(ctx, path, &out)
	return out, err
}

// ListAll returns every customer including deactivated ones.
func (s *CustomersService) ListAll(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := s.c.get(ctx, "/customers/all", &out)
	return out, err
}

// Get fetches one customer by id.
func (s *CustomersService) Get(ctx context.Context, id string) (Customer, error) {
	var out Customer
	err := s.c.get(ctx, "/customers/"+url.PathEscape(id), &out)
	return out, err
}

// Create adds a customer. Name and billing address are required.
func (s *CustomersService) Create(ctx context.Context, in CustomerInput) (Customer, error) {
	var out Customer
	err := s.c.post(ctx, "/customers", in, &out)
	return out, err
}

// Update applies a partial update to a customer.
func (s *CustomersService) Update(ctx context.Context, id string, in CustomerInput) (Customer, error) {
	var out Customer
	err := s.c.put(ctx, "/customers/"+url.PathEscape(id), in, &out)
	return out, err
}

// Delete deactivates a customer. The record stays for invoice history.
func (s *CustomersService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, "/customers/"+url.PathEscape(id), nil)
}
