package invoiceitem

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invoiceworks/backend-invoicing/internal/billing"
	"github.com/invoiceworks/backend-invoicing/internal/common"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

// Service owns standalone invoice-item mutations. Each write also refreshes
// the parent invoice's persisted totals from the stored lines, inside the
// same transaction.
type Service struct {
	Q    *db.Queries
	Pool *pgxpool.Pool
}

// Item is the public payload.
type Item struct {
	ID          string   `json:"id"`
	InvoiceID   string   `json:"invoice_id"`
	ProductID   *string  `json:"product_id"`
	ProductName *string  `json:"product_name"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TaxRate     float64  `json:"tax_rate"`
	Discount    *float64 `json:"discount"`
	Amount      *float64 `json:"amount"`
}

// CreateInput is the create request body.
type CreateInput struct {
	InvoiceID   string   `json:"invoice_id" validate:"required"`
	ProductID   *string  `json:"product_id"`
	Description *string  `json:"description"`
	Quantity    float64  `json:"quantity" validate:"required,gt=0"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	TaxRate     *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Discount    *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
}

// UpdateInput is the partial update body.
type UpdateInput struct {
	ProductID   *string  `json:"product_id"`
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	TaxRate     *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Discount    *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
}

// ListByInvoice returns the items of one invoice.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]Item, error) {
	uid, err := db.ParseUUID(invoiceID)
	if err != nil {
		return nil, common.Invalid("invalid invoice ID format: " + invoiceID)
	}
	rows, err := s.Q.ListInvoiceItems(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, toItem(row))
	}
	return out, nil
}

// Get fetches one item by id.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Item{}, common.Invalid("invalid item ID format: " + id)
	}
	row, err := s.Q.GetInvoiceItem(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, common.NotFound("invoice item")
		}
		return Item{}, fmt.Errorf("get invoice item: %w", err)
	}
	return toItem(row), nil
}

// Create appends one line to an invoice. Missing price, tax rate, or
// description falls back to the product, which must then exist and be
// active.
func (s *Service) Create(ctx context.Context, in CreateInput) (Item, error) {
	invoiceID, err := db.ParseUUID(in.InvoiceID)
	if err != nil {
		return Item{}, common.Invalid("invalid invoice ID format: " + in.InvoiceID)
	}
	var productID pgtype.UUID
	if in.ProductID != nil {
		if productID, err = db.ParseUUID(*in.ProductID); err != nil {
			return Item{}, common.Invalid("invalid product ID format: " + *in.ProductID)
		}
	}
	if in.Quantity <= 0 {
		return Item{}, common.Invalid("quantity must be greater than zero")
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	if _, err := qtx.GetInvoice(ctx, invoiceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, common.NotFound("invoice")
		}
		return Item{}, fmt.Errorf("get invoice: %w", err)
	}

	unitPrice := in.UnitPrice
	taxRate := in.TaxRate
	description := ""
	if in.Description != nil {
		description = *in.Description
	}
	if productID.Valid && (unitPrice == nil || taxRate == nil || description == "") {
		product, err := qtx.GetActiveProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Item{}, common.Invalid("product not found or inactive: " + *in.ProductID)
			}
			return Item{}, fmt.Errorf("get product: %w", err)
		}
		if unitPrice == nil {
			v := billing.Float2(db.DecimalFromNumeric(product.Price))
			unitPrice = &v
		}
		if taxRate == nil {
			v := billing.Float2(db.DecimalFromNumeric(product.TaxRate))
			taxRate = &v
		}
		if description == "" {
			description = product.Name
		}
	}
	if unitPrice == nil || *unitPrice < 0 {
		return Item{}, common.Invalid("unit price must be non-negative")
	}
	if description == "" {
		return Item{}, common.Invalid("description is required")
	}

	line := billing.LineInput{
		Quantity:  decimal.NewFromFloat(in.Quantity),
		UnitPrice: decimal.NewFromFloat(*unitPrice),
	}
	if taxRate != nil {
		line.TaxRate = decimal.NewFromFloat(*taxRate)
	}
	if in.Discount != nil {
		line.Discount = decimal.NewFromFloat(*in.Discount)
	}
	amounts := billing.ComputeLine(line)

	existing, err := qtx.ListInvoiceItems(ctx, invoiceID)
	if err != nil {
		return Item{}, fmt.Errorf("list invoice items: %w", err)
	}
	itemID := db.NewUUID()
	arg := db.InsertInvoiceItemParams{
		ID:          itemID,
		InvoiceID:   invoiceID,
		ProductID:   productID,
		Description: description,
		Quantity:    db.NumericFromDecimal(line.Quantity),
		UnitPrice:   db.NumericFromDecimal(line.UnitPrice),
		TaxRate:     db.NumericFromDecimal(line.TaxRate),
		Discount:    db.NumericFromDecimal(line.Discount),
		Amount:      db.NumericFromDecimal(billing.Round2(amounts.Total)),
		Position:    int32(len(existing)),
	}
	if err := qtx.InsertInvoiceItem(ctx, arg); err != nil {
		return Item{}, fmt.Errorf("insert invoice item: %w", err)
	}
	if err := refreshTotals(ctx, qtx, invoiceID); err != nil {
		return Item{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Item{}, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, db.UUIDString(itemID))
}

// Update applies the provided fields to one line and refreshes the parent
// invoice totals.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Item, error) {
	itemID, err := db.ParseUUID(id)
	if err != nil {
		return Item{}, common.Invalid("invalid item ID format: " + id)
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return Item{}, common.Invalid("quantity must be greater than zero")
	}
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		return Item{}, common.Invalid("unit price must be non-negative")
	}
	var productID pgtype.UUID
	if in.ProductID != nil {
		if productID, err = db.ParseUUID(*in.ProductID); err != nil {
			return Item{}, common.Invalid("invalid product ID format: " + *in.ProductID)
		}
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	current, err := qtx.GetInvoiceItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, common.NotFound("invoice item")
		}
		return Item{}, fmt.Errorf("get invoice item: %w", err)
	}

	// recompute the stored amount from the merged line
	quantity := db.DecimalFromNumeric(current.Quantity)
	unitPrice := db.DecimalFromNumeric(current.UnitPrice)
	taxRate := db.DecimalFromNumeric(current.TaxRate)
	discount := db.DecimalFromNumeric(current.Discount)
	if in.Quantity != nil {
		quantity = decimal.NewFromFloat(*in.Quantity)
	}
	if in.UnitPrice != nil {
		unitPrice = decimal.NewFromFloat(*in.UnitPrice)
	}
	if in.TaxRate != nil {
		taxRate = decimal.NewFromFloat(*in.TaxRate)
	}
	if in.Discount != nil {
		discount = decimal.NewFromFloat(*in.Discount)
	}
	amounts := billing.ComputeLine(billing.LineInput{
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Discount:  discount,
		TaxRate:   taxRate,
	})

	arg := db.UpdateInvoiceItemParams{
		ID:          itemID,
		ProductID:   productID,
		Description: db.TextFromPtr(in.Description),
		Quantity:    db.NumericFromDecimal(quantity),
		UnitPrice:   db.NumericFromDecimal(unitPrice),
		TaxRate:     db.NumericFromDecimal(taxRate),
		Discount:    db.NumericFromDecimal(discount),
		Amount:      db.NumericFromDecimal(billing.Round2(amounts.Total)),
	}
	if err := qtx.UpdateInvoiceItem(ctx, arg); err != nil {
		return Item{}, fmt.Errorf("update invoice item: %w", err)
	}
	if err := refreshTotals(ctx, qtx, current.InvoiceID); err != nil {
		return Item{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Item{}, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, id)
}

// refreshTotals recomputes the invoice aggregates from its stored lines.
func refreshTotals(ctx context.Context, q *db.Queries, invoiceID pgtype.UUID) error {
	rows, err := q.ListInvoiceItems(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	inputs := make([]billing.LineInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, billing.LineInput{
			Quantity:  db.DecimalFromNumeric(row.Quantity),
			UnitPrice: db.DecimalFromNumeric(row.UnitPrice),
			Discount:  db.DecimalFromNumeric(row.Discount),
			TaxRate:   db.DecimalFromNumeric(row.TaxRate),
		})
	}
	totals := billing.ComputeTotals(inputs)
	if err := q.UpdateInvoiceTotals(ctx, invoiceID,
		db.NumericFromDecimal(billing.Round2(totals.Subtotal)),
		db.NumericFromDecimal(billing.Round2(totals.TaxAmount)),
		db.NumericFromDecimal(billing.Round2(totals.TotalAmount))); err != nil {
		return fmt.Errorf("update invoice totals: %w", err)
	}
	return nil
}

func toItem(row db.InvoiceItem) Item {
	item := Item{
		ID:          db.UUIDString(row.ID),
		InvoiceID:   db.UUIDString(row.InvoiceID),
		ProductName: db.TextPtr(row.ProductName),
		Description: row.Description,
		Quantity:    billing.Float2(db.DecimalFromNumeric(row.Quantity)),
		UnitPrice:   billing.Float2(db.DecimalFromNumeric(row.UnitPrice)),
		TaxRate:     billing.Float2(db.DecimalFromNumeric(row.TaxRate)),
	}
	if row.ProductID.Valid {
		pid := db.UUIDString(row.ProductID)
		item.ProductID = &pid
	}
	if row.Discount.Valid {
		d := billing.Float2(db.DecimalFromNumeric(row.Discount))
		item.Discount = &d
	}
	if row.Amount.Valid {
		a := billing.Float2(db.DecimalFromNumeric(row.Amount))
		item.Amount = &a
	}
	return item
}
