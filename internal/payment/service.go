package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invoiceworks/backend-invoicing/internal/billing"
	"github.com/invoiceworks/backend-invoicing/internal/common"
	"github.com/invoiceworks/backend-invoicing/internal/db"
	"github.com/invoiceworks/backend-invoicing/internal/obs"
)

// Service records money against invoices. Payments are append-only: a refund
// is a new row flagged is_refund that references the original, never a
// delete.
type Service struct {
	Q    *db.Queries
	Pool *pgxpool.Pool
}

// Payment is the public payload.
type Payment struct {
	ID            string     `json:"id"`
	InvoiceID     *string    `json:"invoice_id"`
	InvoiceNumber *string    `json:"invoice_number,omitempty"`
	CustomerID    string     `json:"customer_id"`
	Amount        float64    `json:"amount"`
	Date          string     `json:"date"`
	Method        string     `json:"method"`
	Reference     *string    `json:"reference"`
	Notes         *string    `json:"notes"`
	IsRefund      bool       `json:"is_refund"`
	IsAdvance     bool       `json:"is_advance"`
	CreatedAt     *time.Time `json:"created_at"`
}

// CreateInput is the create request body. Payments without an invoice are
// advances held against the customer.
type CreateInput struct {
	InvoiceID  *string `json:"invoice_id"`
	CustomerID string  `json:"customer_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Date       string  `json:"date" validate:"required"`
	Method     string  `json:"method" validate:"required"`
	Reference  *string `json:"reference"`
	Notes      *string `json:"notes"`
	IsAdvance  *bool   `json:"is_advance"`
}

// UpdateInput is the partial update body. The invoice linkage and refund
// flag are immutable after creation.
type UpdateInput struct {
	Amount    *float64 `json:"amount" validate:"omitempty,gt=0"`
	Date      *string  `json:"date"`
	Method    *string  `json:"method"`
	Reference *string  `json:"reference"`
	Notes     *string  `json:"notes"`
}

// List returns all payments, newest first.
func (s *Service) List(ctx context.Context) ([]Payment, error) {
	rows, err := s.Q.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPayment(row))
	}
	return out, nil
}

// Get fetches one payment by id.
func (s *Service) Get(ctx context.Context, id string) (Payment, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Payment{}, common.Invalid("invalid payment ID format: " + id)
	}
	row, err := s.Q.GetPayment(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, common.NotFound("payment")
		}
		return Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return toPayment(row), nil
}

// Create records a payment. When it targets an invoice the invoice balance
// and status move in the same transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (Payment, error) {
	customerID, err := db.ParseUUID(in.CustomerID)
	if err != nil {
		return Payment{}, common.Invalid("invalid customer ID format: " + in.CustomerID)
	}
	var invoiceID pgtype.UUID
	if in.InvoiceID != nil && *in.InvoiceID != "" {
		if invoiceID, err = db.ParseUUID(*in.InvoiceID); err != nil {
			return Payment{}, common.Invalid("invalid invoice ID format: " + *in.InvoiceID)
		}
	}
	payDate, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return Payment{}, common.Invalid("invalid date: " + in.Date)
	}
	amount := decimal.NewFromFloat(in.Amount)

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	if invoiceID.Valid {
		if _, err := qtx.GetInvoice(ctx, invoiceID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Payment{}, common.NotFound("invoice")
			}
			return Payment{}, fmt.Errorf("get invoice: %w", err)
		}
	}

	id := db.NewUUID()
	arg := db.InsertPaymentParams{
		ID:         id,
		InvoiceID:  invoiceID,
		CustomerID: customerID,
		Amount:     db.NumericFromDecimal(amount),
		Date:       db.DateFromTime(payDate),
		Method:     in.Method,
		Reference:  db.TextFromPtr(in.Reference),
		Notes:      db.TextFromPtr(in.Notes),
	}
	if in.IsAdvance != nil {
		arg.IsAdvance = *in.IsAdvance
	}
	if err := qtx.InsertPayment(ctx, arg); err != nil {
		return Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	if invoiceID.Valid {
		if err := qtx.ApplyPaymentToInvoice(ctx, invoiceID, db.NumericFromDecimal(amount)); err != nil {
			return Payment{}, fmt.Errorf("apply payment: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Payment{}, fmt.Errorf("commit tx: %w", err)
	}
	if obs.PaymentsRecordedTotal != nil {
		obs.PaymentsRecordedTotal.WithLabelValues(in.Method, "payment").Inc()
	}
	return s.Get(ctx, db.UUIDString(id))
}

// Update edits the mutable fields of a payment. Amount changes shift the
// invoice balance by the difference, inside one transaction.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Payment, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Payment{}, common.Invalid("invalid payment ID format: " + id)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	current, err := qtx.GetPayment(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, common.NotFound("payment")
		}
		return Payment{}, fmt.Errorf("get payment: %w", err)
	}

	arg := db.UpdatePaymentParams{
		ID:        uid,
		Method:    db.TextFromPtr(in.Method),
		Reference: db.TextFromPtr(in.Reference),
		Notes:     db.TextFromPtr(in.Notes),
	}
	if in.Date != nil {
		d, err := time.Parse("2006-01-02", *in.Date)
		if err != nil {
			return Payment{}, common.Invalid("invalid date: " + *in.Date)
		}
		arg.Date = db.DateFromTime(d)
	}
	if in.Amount != nil {
		arg.Amount = db.NumericFromDecimal(decimal.NewFromFloat(*in.Amount))
	}
	if err := qtx.UpdatePayment(ctx, arg); err != nil {
		return Payment{}, fmt.Errorf("update payment: %w", err)
	}
	if in.Amount != nil && current.InvoiceID.Valid {
		delta := decimal.NewFromFloat(*in.Amount).Sub(db.DecimalFromNumeric(current.Amount))
		if current.IsRefund {
			delta = delta.Neg()
		}
		if !delta.IsZero() {
			if err := qtx.ApplyPaymentToInvoice(ctx, current.InvoiceID, db.NumericFromDecimal(delta)); err != nil {
				return Payment{}, fmt.Errorf("apply payment delta: %w", err)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Payment{}, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, id)
}

// Refund reverses a payment by appending a mirrored row. The refund carries
// the same amount and method, today's date, and a reference derived from the
// original id.
func (s *Service) Refund(ctx context.Context, id, reason string) (Payment, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Payment{}, common.Invalid("invalid payment ID format: " + id)
	}
	if reason == "" {
		reason = "No reason provided"
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	original, err := qtx.GetPayment(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, common.NotFound("payment")
		}
		return Payment{}, fmt.Errorf("get payment: %w", err)
	}
	if original.IsRefund {
		return Payment{}, common.Invalid("cannot refund a refund")
	}

	originalID := db.UUIDString(original.ID)
	reference := "REFUND-" + originalID[:8]
	notes := fmt.Sprintf("Refund for payment %s. Reason: %s", originalID, reason)

	refundID := db.NewUUID()
	arg := db.InsertPaymentParams{
		ID:         refundID,
		InvoiceID:  original.InvoiceID,
		CustomerID: original.CustomerID,
		Amount:     original.Amount,
		Date:       db.DateFromTime(time.Now()),
		Method:     original.Method,
		Reference:  pgtype.Text{String: reference, Valid: true},
		Notes:      pgtype.Text{String: notes, Valid: true},
		IsRefund:   true,
	}
	if err := qtx.InsertPayment(ctx, arg); err != nil {
		return Payment{}, fmt.Errorf("insert refund: %w", err)
	}
	if original.InvoiceID.Valid {
		amount := db.DecimalFromNumeric(original.Amount)
		if err := qtx.ApplyPaymentToInvoice(ctx, original.InvoiceID, db.NumericFromDecimal(amount.Neg())); err != nil {
			return Payment{}, fmt.Errorf("apply refund: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Payment{}, fmt.Errorf("commit tx: %w", err)
	}
	if obs.PaymentsRecordedTotal != nil {
		obs.PaymentsRecordedTotal.WithLabelValues(original.Method, "refund").Inc()
	}
	return s.Get(ctx, db.UUIDString(refundID))
}

func toPayment(row db.Payment) Payment {
	p := Payment{
		ID:            db.UUIDString(row.ID),
		InvoiceNumber: db.TextPtr(row.InvoiceNumber),
		CustomerID:    db.UUIDString(row.CustomerID),
		Amount:        billing.Float2(db.DecimalFromNumeric(row.Amount)),
		Method:        row.Method,
		Reference:     db.TextPtr(row.Reference),
		Notes:         db.TextPtr(row.Notes),
		IsRefund:      row.IsRefund,
		IsAdvance:     row.IsAdvance,
	}
	if row.InvoiceID.Valid {
		id := db.UUIDString(row.InvoiceID)
		p.InvoiceID = &id
	}
	if row.Date.Valid {
		p.Date = row.Date.Time.Format("2006-01-02")
	}
	if row.CreatedAt.Valid {
		t := row.CreatedAt.Time
		p.CreatedAt = &t
	}
	return p
}
