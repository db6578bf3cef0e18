package client

import (
	"context"
	"net/url"
)

// InvoicesService groups the invoice endpoints.
type InvoicesService struct {
	c *Client
}

// List returns all invoices with embedded customer names and lines.
func (s *InvoicesService) List(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	err := s.c.get(ctx, "/invoices", &out)
	return out, err
}

// Get fetches one invoice by id.
func (s *InvoicesService) Get(ctx context.Context, id string) (Invoice, error) {
	var out Invoice
	err := s.c.get(ctx, "/invoices/"+url.PathEscape(id), &out)
	return out, err
}

// Create issues a new invoice. Line prices and tax rates fall back to the
// referenced products, the shipping address falls back to the customer's
// billing address, and totals are computed by the server.
func (s *InvoicesService) Create(ctx context.Context, in InvoiceInput) (Invoice, error) {
	var out Invoice
	err := s.c.post(ctx, "/invoices", in, &out)
	return out, err
}

// Update applies a partial update. When Items is non-nil the lines are
// replaced wholesale and totals recomputed.
func (s *InvoicesService) Update(ctx context.Context, id string, in InvoiceInput) (Invoice, error) {
	var out Invoice
	err := s.c.put(ctx, "/invoices/"+url.PathEscape(id), in, &out)
	return out, err
}

// Cancel marks an invoice cancelled with the given reason. Invoices are never
// hard deleted.
func (s *InvoicesService) Cancel(ctx context.Context, id, reason string) (Invoice, error) {
	var out Invoice
	body := map[string]string{"reason": reason}
	err := s.c.post(ctx, "/invoices/"+url.PathEscape(id)+"/cancel", body, &out)
	return out, err
}

// PDF renders the invoice as a PDF document and returns its bytes.
func (s *InvoicesService) PDF(ctx context.Context, id string) ([]byte, error) {
	return s.c.raw(ctx, "/invoices/"+url.PathEscape(id)+"/pdf")
}
