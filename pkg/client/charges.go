package client

import (
	"context"
	"net/url"
)

// ChargesService groups the additional charge endpoints.
type ChargesService struct {
	c *Client
}

// ListByInvoice returns the additional charges of one invoice.
func (s *ChargesService) ListByInvoice(ctx context.Context, invoiceID string) ([]Charge, error) {
	var out []Charge
	err := s.c.get(ctx, "/additional-charges/"+url.PathEscape(invoiceID), &out)
	return out, err
}

// Create attaches a charge to an invoice.
func (s *ChargesService) Create(ctx context.Context, in ChargeInput) (Charge, error) {
	var out Charge
	err := s.c.post(ctx, "/additional-charges", in, &out)
	return out, err
}

// Delete removes a charge.
func (s *ChargesService) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, "/additional-charges/"+url.PathEscape(id), nil)
}
