package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// InvoiceItem mirrors one row of the invoice_items table plus the joined
// product name.
type InvoiceItem struct {
	ID          pgtype.UUID
	InvoiceID   pgtype.UUID
	ProductID   pgtype.UUID
	ProductName pgtype.Text
	Description string
	Quantity    pgtype.Numeric
	UnitPrice   pgtype.Numeric
	TaxRate     pgtype.Numeric
	Discount    pgtype.Numeric
	Amount      pgtype.Numeric
	Position    int32
}

const invoiceItemColumns = `ii.id, ii.invoice_id, ii.product_id, p.name AS product_name,
	ii.description, ii.quantity, ii.unit_price, ii.tax_rate, ii.discount, ii.amount, ii.position`

const invoiceItemFrom = ` FROM invoice_items ii LEFT JOIN products p ON ii.product_id = p.id`

func scanInvoiceItem(row pgx.Row) (InvoiceItem, error) {
	var it InvoiceItem
	err := row.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Description,
		&it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Discount, &it.Amount, &it.Position)
	return it, err
}

// ListInvoiceItems returns the rows of one invoice in entry order.
func (q *Queries) ListInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceItem, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+invoiceItemColumns+invoiceItemFrom+` WHERE ii.invoice_id = $1 ORDER BY ii.position, ii.id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InvoiceItem
	for rows.Next() {
		it, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetInvoiceItem fetches one row by id.
func (q *Queries) GetInvoiceItem(ctx context.Context, id pgtype.UUID) (InvoiceItem, error) {
	return scanInvoiceItem(q.db.QueryRow(ctx,
		`SELECT `+invoiceItemColumns+invoiceItemFrom+` WHERE ii.id = $1`, id))
}

// InsertInvoiceItemParams carries the insert column set. Amount is the
// derived line total, persisted for display and PDF rendering.
type InsertInvoiceItemParams struct {
	ID          pgtype.UUID
	InvoiceID   pgtype.UUID
	ProductID   pgtype.UUID
	Description string
	Quantity    pgtype.Numeric
	UnitPrice   pgtype.Numeric
	TaxRate     pgtype.Numeric
	Discount    pgtype.Numeric
	Amount      pgtype.Numeric
	Position    int32
}

// InsertInvoiceItem creates one invoice row.
func (q *Queries) InsertInvoiceItem(ctx context.Context, arg InsertInvoiceItemParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO invoice_items (id, invoice_id, product_id, description, quantity, unit_price, tax_rate, discount, amount, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		arg.ID, arg.InvoiceID, arg.ProductID, arg.Description, arg.Quantity,
		arg.UnitPrice, arg.TaxRate, arg.Discount, arg.Amount, arg.Position)
	return err
}

// UpdateInvoiceItemParams carries the partial update set; null params keep
// the stored value.
type UpdateInvoiceItemParams struct {
	ID          pgtype.UUID
	ProductID   pgtype.UUID
	Description pgtype.Text
	Quantity    pgtype.Numeric
	UnitPrice   pgtype.Numeric
	TaxRate     pgtype.Numeric
	Discount    pgtype.Numeric
	Amount      pgtype.Numeric
}

// UpdateInvoiceItem applies the provided fields to an existing row.
func (q *Queries) UpdateInvoiceItem(ctx context.Context, arg UpdateInvoiceItemParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE invoice_items SET
			product_id = COALESCE($2, product_id),
			description = COALESCE($3, description),
			quantity = COALESCE($4, quantity),
			unit_price = COALESCE($5, unit_price),
			tax_rate = COALESCE($6, tax_rate),
			discount = COALESCE($7, discount),
			amount = COALESCE($8, amount)
		WHERE id = $1`,
		arg.ID, arg.ProductID, arg.Description, arg.Quantity, arg.UnitPrice,
		arg.TaxRate, arg.Discount, arg.Amount)
	return err
}

// DeleteInvoiceItems removes every row of an invoice; used when an update
// replaces the item collection wholesale.
func (q *Queries) DeleteInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	return err
}
