package invoice

import (
	"context"
	"encoding/json"
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

// Statuses an invoice can carry. Cancelled is terminal; there is no hard
// delete.
const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusDraft:     true,
	StatusSent:      true,
	StatusPaid:      true,
	StatusOverdue:   true,
	StatusCancelled: true,
	"partially_paid": true,
}

// Service owns the invoice lifecycle. Create and Update run inside a
// transaction so the header, its items, and the persisted totals always move
// together. Totals are always recomputed here from the stored items, never
// trusted from the request.
type Service struct {
	Q       *db.Queries
	Pool    *pgxpool.Pool
	Company CompanyInfo
	DueDays int
}

// CompanyInfo is the seller block printed on PDFs.
type CompanyInfo struct {
	Name     string
	Address  string
	GSTIN    string
	Currency string
}

// ItemInput is one requested line. Price, tax rate, and description may be
// omitted and are then taken from the product.
type ItemInput struct {
	ProductID   string   `json:"product_id" validate:"required"`
	Quantity    float64  `json:"quantity" validate:"required,gt=0"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	TaxRate     *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Discount    *float64 `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Description *string  `json:"description"`
}

// CreateInput is the create request body. Submitted subtotal, tax_amount,
// and total_amount are accepted for wire compatibility and ignored.
type CreateInput struct {
	CustomerID      string            `json:"customer_id" validate:"required"`
	DueDate         *string           `json:"due_date"`
	Status          *string           `json:"status"`
	Notes           *string           `json:"notes"`
	Terms           *string           `json:"terms"`
	ShippingAddress map[string]string `json:"shipping_address"`
	Subtotal        *float64          `json:"subtotal"`
	TaxAmount       *float64          `json:"tax_amount"`
	TotalAmount     *float64          `json:"total_amount"`
	Items           []ItemInput       `json:"items" validate:"required,min=1,dive"`
	InvoiceType     *string           `json:"invoice_type"`
	IsTemplate      *bool             `json:"is_template"`
}

// UpdateInput is the partial update body. A non-nil Items replaces the item
// collection wholesale and triggers a totals recompute.
type UpdateInput struct {
	CustomerID      *string           `json:"customer_id"`
	DueDate         *string           `json:"due_date"`
	Status          *string           `json:"status"`
	ShippingAddress map[string]string `json:"shipping_address"`
	Notes           *string           `json:"notes"`
	Terms           *string           `json:"terms"`
	Subtotal        *float64          `json:"subtotal"`
	TaxAmount       *float64          `json:"tax_amount"`
	TotalAmount     *float64          `json:"total_amount"`
	Items           []ItemInput       `json:"items"`
	InvoiceType     *string           `json:"invoice_type"`
	IsTemplate      *bool             `json:"is_template"`
	CancelReason    *string           `json:"cancel_reason"`
}

// Item is one invoice line in responses, with product details embedded.
type Item struct {
	ID          string   `json:"id"`
	ProductID   *string  `json:"product_id"`
	ProductName *string  `json:"product_name"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TaxRate     float64  `json:"tax_rate"`
	Discount    *float64 `json:"discount"`
	Amount      *float64 `json:"amount"`
}

// Invoice is the public payload with customer name and items embedded.
type Invoice struct {
	ID              string            `json:"id"`
	InvoiceNumber   string            `json:"invoice_number"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    *string           `json:"customer_name"`
	Date            string            `json:"date"`
	DueDate         string            `json:"due_date"`
	Status          string            `json:"status"`
	Subtotal        float64           `json:"subtotal"`
	TaxAmount       float64           `json:"tax_amount"`
	TotalAmount     float64           `json:"total_amount"`
	AmountPaid      *float64          `json:"amount_paid"`
	BalanceDue      *float64          `json:"balance_due"`
	ShippingDetails map[string]string `json:"shipping_details,omitempty"`
	Notes           *string           `json:"notes"`
	Terms           *string           `json:"terms"`
	InvoiceType     *string           `json:"invoice_type"`
	IsTemplate      *bool             `json:"is_template"`
	CancelReason    *string           `json:"cancel_reason"`
	CreatedAt       *time.Time        `json:"created_at"`
	Items           []Item            `json:"items"`
}

// productLookup is the slice of the query layer item resolution needs.
type productLookup interface {
	GetActiveProduct(ctx context.Context, id pgtype.UUID) (db.Product, error)
}

// resolvedItem pairs the stored column values of one line with its exact
// computed amounts.
type resolvedItem struct {
	ProductID   pgtype.UUID
	Description string
	Input       billing.LineInput
	Amounts     billing.LineAmounts
}

// resolveItems validates the requested lines and fills price, tax rate, and
// description from the product where the request left them out. Explicit
// zero values are respected; only absent fields fall back.
func resolveItems(ctx context.Context, products productLookup, items []ItemInput) ([]resolvedItem, error) {
	out := make([]resolvedItem, 0, len(items))
	for i, in := range items {
		pid, err := db.ParseUUID(in.ProductID)
		if err != nil {
			return nil, common.Invalid(fmt.Sprintf("item %d: invalid product ID format: %s", i, in.ProductID))
		}
		if in.Quantity <= 0 {
			return nil, common.Invalid(fmt.Sprintf("item %d: quantity must be greater than zero", i))
		}
		var product db.Product
		haveProduct := false
		if products != nil {
			product, err = products.GetActiveProduct(ctx, pid)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("get product: %w", err)
			}
			haveProduct = err == nil
		}

		var unitPrice, taxRate decimal.Decimal
		switch {
		case in.UnitPrice != nil:
			unitPrice = decimal.NewFromFloat(*in.UnitPrice)
		case haveProduct:
			unitPrice = db.DecimalFromNumeric(product.Price)
		default:
			return nil, common.Invalid(fmt.Sprintf("item %d: unit_price is required when the product is unknown", i))
		}
		if unitPrice.IsNegative() {
			return nil, common.Invalid(fmt.Sprintf("item %d: unit_price cannot be negative", i))
		}
		switch {
		case in.TaxRate != nil:
			taxRate = decimal.NewFromFloat(*in.TaxRate)
		case haveProduct:
			taxRate = db.DecimalFromNumeric(product.TaxRate)
		}
		description := ""
		if in.Description != nil {
			description = *in.Description
		}
		if description == "" && haveProduct {
			description = product.Name
		}
		discount := decimal.Zero
		if in.Discount != nil {
			discount = decimal.NewFromFloat(*in.Discount)
		}

		line := billing.LineInput{
			Quantity:  decimal.NewFromFloat(in.Quantity),
			UnitPrice: unitPrice,
			Discount:  discount,
			TaxRate:   taxRate,
		}
		out = append(out, resolvedItem{
			ProductID:   pid,
			Description: description,
			Input:       line,
			Amounts:     billing.ComputeLine(line),
		})
	}
	return out, nil
}

func totalsOf(items []resolvedItem) billing.Totals {
	inputs := make([]billing.LineInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, it.Input)
	}
	return billing.ComputeTotals(inputs)
}

// List returns all invoices with their items embedded, newest first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	rows, err := s.Q.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]Invoice, 0, len(rows))
	for _, row := range rows {
		items, err := s.Q.ListInvoiceItems(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("list invoice items: %w", err)
		}
		out = append(out, toInvoice(row, items))
	}
	return out, nil
}

// Get fetches one invoice with items.
func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Invoice{}, common.Invalid("invalid invoice ID format: " + id)
	}
	row, err := s.Q.GetInvoice(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, common.NotFound("invoice")
		}
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	items, err := s.Q.ListInvoiceItems(ctx, row.ID)
	if err != nil {
		return Invoice{}, fmt.Errorf("list invoice items: %w", err)
	}
	return toInvoice(row, items), nil
}

// Create issues an invoice with its items in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (Invoice, error) {
	customerID, err := db.ParseUUID(in.CustomerID)
	if err != nil {
		return Invoice{}, common.Invalid("invalid customer ID format: " + in.CustomerID)
	}
	status := StatusDraft
	if in.Status != nil {
		if !validStatuses[*in.Status] {
			return Invoice{}, common.Invalid("invalid status: " + *in.Status)
		}
		status = *in.Status
	}
	dueDate, err := s.resolveDueDate(in.DueDate)
	if err != nil {
		return Invoice{}, err
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Invoice{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	shipping, err := shippingJSON(in.ShippingAddress)
	if err != nil {
		return Invoice{}, err
	}
	if shipping == nil {
		// fall back to the customer's billing address
		billingAddr, err := qtx.GetCustomerBillingAddress(ctx, customerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return Invoice{}, common.NotFound("customer")
			}
			return Invoice{}, fmt.Errorf("get customer billing address: %w", err)
		}
		shipping = billingAddr
	}

	resolved, err := resolveItems(ctx, qtx, in.Items)
	if err != nil {
		return Invoice{}, err
	}
	totals := totalsOf(resolved)

	invoiceID := db.NewUUID()
	arg := db.InsertInvoiceParams{
		ID:              invoiceID,
		CustomerID:      customerID,
		DueDate:         db.DateFromTime(dueDate),
		Status:          status,
		Subtotal:        db.NumericFromDecimal(billing.Round2(totals.Subtotal)),
		TaxAmount:       db.NumericFromDecimal(billing.Round2(totals.TaxAmount)),
		TotalAmount:     db.NumericFromDecimal(billing.Round2(totals.TotalAmount)),
		ShippingDetails: shipping,
		Notes:           db.TextFromPtr(in.Notes),
		Terms:           db.TextFromPtr(in.Terms),
		InvoiceType:     db.TextFromPtr(in.InvoiceType),
	}
	if !arg.InvoiceType.Valid {
		arg.InvoiceType = pgtype.Text{String: "sales", Valid: true}
	}
	if in.IsTemplate != nil {
		arg.IsTemplate = *in.IsTemplate
	}
	if err := qtx.InsertInvoice(ctx, arg); err != nil {
		return Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	if err := insertResolvedItems(ctx, qtx, invoiceID, resolved); err != nil {
		return Invoice{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, fmt.Errorf("commit tx: %w", err)
	}
	if obs.InvoicesIssuedTotal != nil {
		obs.InvoicesIssuedTotal.WithLabelValues(arg.InvoiceType.String).Inc()
	}
	return s.Get(ctx, db.UUIDString(invoiceID))
}

// Update applies a partial update. When items are provided they replace the
// stored collection and the totals are recomputed inside the transaction.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Invoice, error) {
	invoiceID, err := db.ParseUUID(id)
	if err != nil {
		return Invoice{}, common.Invalid("invalid invoice ID format: " + id)
	}
	if in.Status != nil && !validStatuses[*in.Status] {
		return Invoice{}, common.Invalid("invalid status: " + *in.Status)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Invoice{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	if _, err := qtx.GetInvoice(ctx, invoiceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, common.NotFound("invoice")
		}
		return Invoice{}, fmt.Errorf("get invoice: %w", err)
	}

	arg := db.UpdateInvoiceParams{
		ID:           invoiceID,
		Status:       db.TextFromPtr(in.Status),
		Notes:        db.TextFromPtr(in.Notes),
		Terms:        db.TextFromPtr(in.Terms),
		InvoiceType:  db.TextFromPtr(in.InvoiceType),
		IsTemplate:   db.BoolFromPtr(in.IsTemplate),
		CancelReason: db.TextFromPtr(in.CancelReason),
	}
	if in.CustomerID != nil {
		if arg.CustomerID, err = db.ParseUUID(*in.CustomerID); err != nil {
			return Invoice{}, common.Invalid("invalid customer ID format: " + *in.CustomerID)
		}
	}
	if in.DueDate != nil {
		due, err := parseDate(*in.DueDate)
		if err != nil {
			return Invoice{}, common.Invalid("invalid due_date: " + *in.DueDate)
		}
		arg.DueDate = db.DateFromTime(due)
	}
	if in.ShippingAddress != nil {
		if arg.ShippingDetails, err = shippingJSON(in.ShippingAddress); err != nil {
			return Invoice{}, err
		}
	}
	if err := qtx.UpdateInvoice(ctx, arg); err != nil {
		return Invoice{}, fmt.Errorf("update invoice: %w", err)
	}

	if in.Items != nil {
		resolved, err := resolveItems(ctx, qtx, in.Items)
		if err != nil {
			return Invoice{}, err
		}
		if err := qtx.DeleteInvoiceItems(ctx, invoiceID); err != nil {
			return Invoice{}, fmt.Errorf("delete invoice items: %w", err)
		}
		if err := insertResolvedItems(ctx, qtx, invoiceID, resolved); err != nil {
			return Invoice{}, err
		}
		totals := totalsOf(resolved)
		if err := qtx.UpdateInvoiceTotals(ctx, invoiceID,
			db.NumericFromDecimal(billing.Round2(totals.Subtotal)),
			db.NumericFromDecimal(billing.Round2(totals.TaxAmount)),
			db.NumericFromDecimal(billing.Round2(totals.TotalAmount))); err != nil {
			return Invoice{}, fmt.Errorf("update invoice totals: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, id)
}

// Cancel marks the invoice cancelled with a reason. Invoices are never hard
// deleted.
func (s *Service) Cancel(ctx context.Context, id, reason string) (Invoice, error) {
	invoiceID, err := db.ParseUUID(id)
	if err != nil {
		return Invoice{}, common.Invalid("invalid invoice ID format: " + id)
	}
	if reason == "" {
		reason = "No reason provided"
	}
	n, err := s.Q.CancelInvoice(ctx, invoiceID, reason)
	if err != nil {
		return Invoice{}, fmt.Errorf("cancel invoice: %w", err)
	}
	if n == 0 {
		return Invoice{}, common.NotFound("invoice")
	}
	if obs.InvoicesCancelledTotal != nil {
		obs.InvoicesCancelledTotal.Inc()
	}
	return s.Get(ctx, id)
}

func insertResolvedItems(ctx context.Context, q *db.Queries, invoiceID pgtype.UUID, items []resolvedItem) error {
	for i, it := range items {
		arg := db.InsertInvoiceItemParams{
			ID:          db.NewUUID(),
			InvoiceID:   invoiceID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    db.NumericFromDecimal(it.Input.Quantity),
			UnitPrice:   db.NumericFromDecimal(it.Input.UnitPrice),
			TaxRate:     db.NumericFromDecimal(it.Input.TaxRate),
			Discount:    db.NumericFromDecimal(it.Input.Discount),
			Amount:      db.NumericFromDecimal(billing.Round2(it.Amounts.Total)),
			Position:    int32(i),
		}
		if err := q.InsertInvoiceItem(ctx, arg); err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

func (s *Service) resolveDueDate(raw *string) (time.Time, error) {
	if raw == nil || *raw == "" {
		days := s.DueDays
		if days <= 0 {
			days = 15
		}
		return time.Now().AddDate(0, 0, days), nil
	}
	due, err := parseDate(*raw)
	if err != nil {
		return time.Time{}, common.Invalid("invalid due_date: " + *raw)
	}
	return due, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func shippingJSON(addr map[string]string) ([]byte, error) {
	if addr == nil {
		return nil, nil
	}
	data, err := json.Marshal(addr)
	if err != nil {
		return nil, common.Invalid("shipping_address is not serializable")
	}
	return data, nil
}

func toInvoice(row db.Invoice, items []db.InvoiceItem) Invoice {
	inv := Invoice{
		ID:            db.UUIDString(row.ID),
		InvoiceNumber: row.InvoiceNumber,
		CustomerID:    db.UUIDString(row.CustomerID),
		CustomerName:  db.TextPtr(row.CustomerName),
		Status:        row.Status,
		Subtotal:      billing.Float2(db.DecimalFromNumeric(row.Subtotal)),
		TaxAmount:     billing.Float2(db.DecimalFromNumeric(row.TaxAmount)),
		TotalAmount:   billing.Float2(db.DecimalFromNumeric(row.TotalAmount)),
		Notes:         db.TextPtr(row.Notes),
		Terms:         db.TextPtr(row.Terms),
		InvoiceType:   db.TextPtr(row.InvoiceType),
		CancelReason:  db.TextPtr(row.CancelReason),
		Items:         make([]Item, 0, len(items)),
	}
	if row.Date.Valid {
		inv.Date = row.Date.Time.Format("2006-01-02")
	}
	if row.DueDate.Valid {
		inv.DueDate = row.DueDate.Time.Format("2006-01-02")
	}
	if row.AmountPaid.Valid {
		paid := billing.Float2(db.DecimalFromNumeric(row.AmountPaid))
		inv.AmountPaid = &paid
	}
	if row.BalanceDue.Valid {
		due := billing.Float2(db.DecimalFromNumeric(row.BalanceDue))
		inv.BalanceDue = &due
	}
	if row.IsTemplate.Valid {
		v := row.IsTemplate.Bool
		inv.IsTemplate = &v
	}
	if len(row.ShippingDetails) > 0 {
		_ = json.Unmarshal(row.ShippingDetails, &inv.ShippingDetails)
	}
	if row.CreatedAt.Valid {
		t := row.CreatedAt.Time
		inv.CreatedAt = &t
	}
	for _, it := range items {
		inv.Items = append(inv.Items, toItem(it))
	}
	return inv
}

func toItem(row db.InvoiceItem) Item {
	item := Item{
		ID:          db.UUIDString(row.ID),
		Description: row.Description,
		Quantity:    billing.Float2(db.DecimalFromNumeric(row.Quantity)),
		UnitPrice:   billing.Float2(db.DecimalFromNumeric(row.UnitPrice)),
		TaxRate:     billing.Float2(db.DecimalFromNumeric(row.TaxRate)),
		ProductName: db.TextPtr(row.ProductName),
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
