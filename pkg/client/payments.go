package client

import (
	"context"
	"net/url"
)

// PaymentsService groups the payment endpoints.
type PaymentsService struct {
	c *Client
}

// List returns all payments, newest first.
func (s *PaymentsService) List(ctx context.Context) ([]Payment, error) {
	var out []Payment
	err := s.c.get(ctx, "/payments", &out)
	return out, err
}

// Get fetches one payment by id.
func (s *PaymentsService) Get(ctx context.Context, id string) (Payment, error) {
	var out Payment
	err := s.c.get(ctx, "/payments/"+url.PathEscape(id), &out)
	return out, err
}

// Create records a payment. With an invoice id it settles that invoice's
// balance; without one it is stored as an advance.
func (s *PaymentsService) Create(ctx context.Context, in PaymentInput) (Payment, error) {
	var out Payment
	err := s.c.post(ctx, "/payments", in, &out)
	return out, err
}

// Update adjusts a payment's amount, date, method, reference or notes. The
// invoice linkage and refund flag are immutable.
func (s *PaymentsService) Update(ctx context.Context, id string, in PaymentInput) (Payment, error) {
	var out Payment
	err := s.c.put(ctx, "/payments/"+url.PathEscape(id), in, &out)
	return out, err
}

// Refund records a mirroring refund row for the payment and restores the
// invoice balance. The original payment row is kept.
func (s *PaymentsService) Refund(ctx context.Context, id, reason string) (Payment, error) {
	var out Payment
	body := map[string]string{"reason": reason}
	err := s.c.post(ctx, "/payments/"+url.PathEscape(id)+"/refund", body, &out)
	return out, err
}
