package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Charge mirrors one row of the additional_charges table.
type Charge struct {
	ID           pgtype.UUID
	InvoiceID    pgtype.UUID
	ChargeName   string
	ChargeAmount pgtype.Numeric
	IsTaxable    bool
	TaxRate      pgtype.Numeric
	TaxAmount    pgtype.Numeric
	TotalAmount  pgtype.Numeric
	CreatedAt    pgtype.Timestamptz
}

const chargeColumns = `id, invoice_id, charge_name, charge_amount, is_taxable,
	tax_rate, tax_amount, total_amount, created_at`

func scanCharge(row pgx.Row) (Charge, error) {
	var c Charge
	err := row.Scan(&c.ID, &c.InvoiceID, &c.ChargeName, &c.ChargeAmount, &c.IsTaxable,
		&c.TaxRate, &c.TaxAmount, &c.TotalAmount, &c.CreatedAt)
	return c, err
}

// ListChargesByInvoice returns the extra charges of one invoice in entry order.
func (q *Queries) ListChargesByInvoice(ctx context.Context, invoiceID pgtype.UUID) ([]Charge, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+chargeColumns+` FROM additional_charges WHERE invoice_id = $1 ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Charge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertChargeParams carries the insert column set. Tax and total arrive
// precomputed by the billing package.
type InsertChargeParams struct {
	ID           pgtype.UUID
	InvoiceID    pgtype.UUID
	ChargeName   string
	ChargeAmount pgtype.Numeric
	IsTaxable    bool
	TaxRate      pgtype.Numeric
	TaxAmount    pgtype.Numeric
	TotalAmount  pgtype.Numeric
}

// InsertCharge creates one additional-charge row.
func (q *Queries) InsertCharge(ctx context.Context, arg InsertChargeParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO additional_charges (id, invoice_id, charge_name, charge_amount, is_taxable, tax_rate, tax_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		arg.ID, arg.InvoiceID, arg.ChargeName, arg.ChargeAmount, arg.IsTaxable,
		arg.TaxRate, arg.TaxAmount, arg.TotalAmount)
	return err
}

// DeleteCharge removes one charge; the count tells callers whether it existed.
func (q *Queries) DeleteCharge(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM additional_charges WHERE id = $1`, id)
	return tag.RowsAffected(), err
}
