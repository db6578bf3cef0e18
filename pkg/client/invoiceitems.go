package client

import (
	"context"
	"net/url"
)

// InvoiceItemsService groups the standalone invoice line endpoints. Writes
// through this surface also refresh the parent invoice's totals.
type InvoiceItemsService struct {
	c *Client
}

// ListByInvoice returns the lines of one invoice in display order.
func (s *InvoiceItemsService) ListByInvoice(ctx context.Context, invoiceID string) ([]InvoiceItem, error) {
	var out []InvoiceItem
	err := s.c.get(ctx, "/invoice-items/invoice/"+url.PathEscape(invoiceID), &out)
	return out, err
}

// Get fetches one line by id.
func (s *InvoiceItemsService) Get(ctx context.Context, id string) (InvoiceItem, error) {
	var out InvoiceItem
	err := s.c.get(ctx, "/invoice-items/"+url.PathEscape(id), &out)
	return out, err
}

// Create appends a line to an existing invoice. InvoiceID is required here.
func (s *InvoiceItemsService) Create(ctx context.Context, in InvoiceItemInput) (InvoiceItem, error) {
	var out InvoiceItem
	err := s.c.post(ctx, "/invoice-items", in, &out)
	return out, err
}

// Update applies a partial update to a line.
func (s *InvoiceItemsService) Update(ctx context.Context, id string, in InvoiceItemInput) (InvoiceItem, error) {
	var out InvoiceItem
	err := s.c.put(ctx, "/invoice-items/"+url.PathEscape(id), in, &out)
	return out, err
}
