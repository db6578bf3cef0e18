package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Invoice mirrors one row of the invoices table plus the joined customer name.
type Invoice struct {
	ID              pgtype.UUID
	InvoiceNumber   string
	CustomerID      pgtype.UUID
	CustomerName    pgtype.Text
	Date            pgtype.Date
	DueDate         pgtype.Date
	Status          string
	Subtotal        pgtype.Numeric
	TaxAmount       pgtype.Numeric
	TotalAmount     pgtype.Numeric
	AmountPaid      pgtype.Numeric
	BalanceDue      pgtype.Numeric
	ShippingDetails []byte
	Notes           pgtype.Text
	Terms           pgtype.Text
	InvoiceType     pgtype.Text
	IsTemplate      pgtype.Bool
	CancelReason    pgtype.Text
	CreatedAt       pgtype.Timestamptz
}

const invoiceColumns = `i.id, i.invoice_number, i.customer_id, c.name AS customer_name,
	i.date, i.due_date, i.status, i.subtotal, i.tax_amount, i.total_amount,
	i.amount_paid, i.balance_due, i.shipping_details, i.notes, i.terms,
	i.invoice_type, i.is_template, i.cancel_reason, i.created_at`

const invoiceFrom = ` FROM invoices i LEFT JOIN customers c ON i.customer_id = c.id`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var v Invoice
	err := row.Scan(&v.ID, &v.InvoiceNumber, &v.CustomerID, &v.CustomerName, &v.Date,
		&v.DueDate, &v.Status, &v.Subtotal, &v.TaxAmount, &v.TotalAmount, &v.AmountPaid,
		&v.BalanceDue, &v.ShippingDetails, &v.Notes, &v.Terms, &v.InvoiceType,
		&v.IsTemplate, &v.CancelReason, &v.CreatedAt)
	return v, err
}

// ListInvoices returns all invoices, newest first, with customer names joined.
func (q *Queries) ListInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, `SELECT `+invoiceColumns+invoiceFrom+` ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		v, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetInvoice fetches one invoice by id.
func (q *Queries) GetInvoice(ctx context.Context, id pgtype.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, `SELECT `+invoiceColumns+invoiceFrom+` WHERE i.id = $1`, id))
}

// InsertInvoiceParams carries the insert column set. The invoice number and
// issue date come from column defaults.
type InsertInvoiceParams struct {
	ID              pgtype.UUID
	CustomerID      pgtype.UUID
	DueDate         pgtype.Date
	Status          string
	Subtotal        pgtype.Numeric
	TaxAmount       pgtype.Numeric
	TotalAmount     pgtype.Numeric
	ShippingDetails []byte
	Notes           pgtype.Text
	Terms           pgtype.Text
	InvoiceType     pgtype.Text
	IsTemplate      bool
}

// InsertInvoice creates an invoice row.
func (q *Queries) InsertInvoice(ctx context.Context, arg InsertInvoiceParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO invoices (id, customer_id, due_date, status, subtotal, tax_amount, total_amount,
			balance_due, shipping_details, notes, terms, invoice_type, is_template)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8, $9, $10, $11, $12)`,
		arg.ID, arg.CustomerID, arg.DueDate, arg.Status, arg.Subtotal, arg.TaxAmount,
		arg.TotalAmount, arg.ShippingDetails, arg.Notes, arg.Terms, arg.InvoiceType,
		arg.IsTemplate)
	return err
}

// UpdateInvoiceParams carries the partial update set; null params keep the
// stored value.
type UpdateInvoiceParams struct {
	ID              pgtype.UUID
	CustomerID      pgtype.UUID
	DueDate         pgtype.Date
	Status          pgtype.Text
	ShippingDetails []byte
	Notes           pgtype.Text
	Terms           pgtype.Text
	InvoiceType     pgtype.Text
	IsTemplate      pgtype.Bool
	CancelReason    pgtype.Text
}

// UpdateInvoice applies the provided header fields to an existing invoice.
func (q *Queries) UpdateInvoice(ctx context.Context, arg UpdateInvoiceParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE invoices SET
			customer_id = COALESCE($2, customer_id),
			due_date = COALESCE($3, due_date),
			status = COALESCE($4, status),
			shipping_details = COALESCE($5, shipping_details),
			notes = COALESCE($6, notes),
			terms = COALESCE($7, terms),
			invoice_type = COALESCE($8, invoice_type),
			is_template = COALESCE($9, is_template),
			cancel_reason = COALESCE($10, cancel_reason)
		WHERE id = $1`,
		arg.ID, arg.CustomerID, arg.DueDate, arg.Status, arg.ShippingDetails,
		arg.Notes, arg.Terms, arg.InvoiceType, arg.IsTemplate, arg.CancelReason)
	return err
}

// UpdateInvoiceTotals refreshes the persisted aggregates after the item
// collection changed. Balance due follows total minus what was already paid.
func (q *Queries) UpdateInvoiceTotals(ctx context.Context, id pgtype.UUID, subtotal, taxAmount, totalAmount pgtype.Numeric) error {
	_, err := q.db.Exec(ctx, `
		UPDATE invoices SET
			subtotal = $2,
			tax_amount = $3,
			total_amount = $4,
			balance_due = $4 - COALESCE(amount_paid, 0)
		WHERE id = $1`,
		id, subtotal, taxAmount, totalAmount)
	return err
}

// CancelInvoice marks the invoice cancelled with the given reason.
func (q *Queries) CancelInvoice(ctx context.Context, id pgtype.UUID, reason string) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE invoices SET status = 'cancelled', cancel_reason = $2 WHERE id = $1`, id, reason)
	return tag.RowsAffected(), err
}
