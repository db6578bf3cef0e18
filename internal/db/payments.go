package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Payment mirrors one row of the payments table plus the joined invoice
// number.
type Payment struct {
	ID            pgtype.UUID
	InvoiceID     pgtype.UUID
	InvoiceNumber pgtype.Text
	CustomerID    pgtype.UUID
	Amount        pgtype.Numeric
	Date          pgtype.Date
	Method        string
	Reference     pgtype.Text
	Notes         pgtype.Text
	IsRefund      bool
	IsAdvance     bool
	CreatedAt     pgtype.Timestamptz
}

const paymentColumns = `pm.id, pm.invoice_id, i.invoice_number, pm.customer_id, pm.amount,
	pm.date, pm.method, pm.reference, pm.notes, pm.is_refund, pm.is_advance, pm.created_at`

const paymentFrom = ` FROM payments pm LEFT JOIN invoices i ON pm.invoice_id = i.id`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.InvoiceNumber, &p.CustomerID, &p.Amount,
		&p.Date, &p.Method, &p.Reference, &p.Notes, &p.IsRefund, &p.IsAdvance, &p.CreatedAt)
	return p, err
}

func collectPayments(rows pgx.Rows) ([]Payment, error) {
	defer rows.Close()
	var out []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListPayments returns every payment, newest first.
func (q *Queries) ListPayments(ctx context.Context) ([]Payment, error) {
	rows, err := q.db.Query(ctx, `SELECT `+paymentColumns+paymentFrom+` ORDER BY pm.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// ListPaymentsByInvoice returns the payments of one invoice in entry order.
func (q *Queries) ListPaymentsByInvoice(ctx context.Context, invoiceID pgtype.UUID) ([]Payment, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+paymentColumns+paymentFrom+` WHERE pm.invoice_id = $1 ORDER BY pm.created_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// GetPayment fetches one payment by id.
func (q *Queries) GetPayment(ctx context.Context, id pgtype.UUID) (Payment, error) {
	return scanPayment(q.db.QueryRow(ctx, `SELECT `+paymentColumns+paymentFrom+` WHERE pm.id = $1`, id))
}

// InsertPaymentParams carries the insert column set.
type InsertPaymentParams struct {
	ID         pgtype.UUID
	InvoiceID  pgtype.UUID
	CustomerID pgtype.UUID
	Amount     pgtype.Numeric
	Date       pgtype.Date
	Method     string
	Reference  pgtype.Text
	Notes      pgtype.Text
	IsRefund   bool
	IsAdvance  bool
}

// InsertPayment creates one payment row.
func (q *Queries) InsertPayment(ctx context.Context, arg InsertPaymentParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO payments (id, invoice_id, customer_id, amount, date, method, reference, notes, is_refund, is_advance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		arg.ID, arg.InvoiceID, arg.CustomerID, arg.Amount, arg.Date, arg.Method,
		arg.Reference, arg.Notes, arg.IsRefund, arg.IsAdvance)
	return err
}

// UpdatePaymentParams carries the partial update set; null params keep the
// stored value.
type UpdatePaymentParams struct {
	ID        pgtype.UUID
	Amount    pgtype.Numeric
	Date      pgtype.Date
	Method    pgtype.Text
	Reference pgtype.Text
	Notes     pgtype.Text
}

// UpdatePayment applies the provided fields to an existing row.
func (q *Queries) UpdatePayment(ctx context.Context, arg UpdatePaymentParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE payments SET
			amount = COALESCE($2, amount),
			date = COALESCE($3, date),
			method = COALESCE($4, method),
			reference = COALESCE($5, reference),
			notes = COALESCE($6, notes)
		WHERE id = $1`,
		arg.ID, arg.Amount, arg.Date, arg.Method, arg.Reference, arg.Notes)
	return err
}

// ApplyPaymentToInvoice moves the invoice balance by delta. A positive delta
// records money received, a negative one a refund. The status flips to paid
// once the balance reaches zero and back to sent when a refund reopens it.
func (q *Queries) ApplyPaymentToInvoice(ctx context.Context, invoiceID pgtype.UUID, delta pgtype.Numeric) error {
	_, err := q.db.Exec(ctx, `
		UPDATE invoices SET
			amount_paid = COALESCE(amount_paid, 0) + $2,
			balance_due = total_amount - (COALESCE(amount_paid, 0) + $2),
			status = CASE
				WHEN total_amount - (COALESCE(amount_paid, 0) + $2) <= 0 THEN 'paid'
				WHEN status = 'paid' THEN 'sent'
				ELSE status
			END
		WHERE id = $1`,
		invoiceID, delta)
	return err
}
