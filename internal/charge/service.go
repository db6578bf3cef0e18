package charge

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/invoiceworks/backend-invoicing/internal/billing"
	"github.com/invoiceworks/backend-invoicing/internal/common"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

type queryProvider interface {
	GetInvoice(ctx context.Context, id pgtype.UUID) (db.Invoice, error)
	ListChargesByInvoice(ctx context.Context, invoiceID pgtype.UUID) ([]db.Charge, error)
	InsertCharge(ctx context.Context, arg db.InsertChargeParams) error
	DeleteCharge(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Service owns additional charges attached to invoices, for costs that are
// not product lines (freight, packing, rounding adjustments).
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) (*Service, error) {
	if queries == nil {
		return nil, errors.New("charge: queries provider is required")
	}
	return &Service{queries: queries}, nil
}

// Charge is the public payload. Tax and total are derived server-side.
type Charge struct {
	ID           string  `json:"id"`
	InvoiceID    string  `json:"invoice_id"`
	ChargeName   string  `json:"charge_name"`
	ChargeAmount float64 `json:"charge_amount"`
	IsTaxable    bool    `json:"is_taxable"`
	TaxRate      float64 `json:"tax_rate"`
	TaxAmount    float64 `json:"tax_amount"`
	TotalAmount  float64 `json:"total_amount"`
}

// CreateInput is the create request body.
type CreateInput struct {
	InvoiceID    string   `json:"invoice_id" validate:"required"`
	ChargeName   string   `json:"charge_name" validate:"required"`
	ChargeAmount *float64 `json:"charge_amount" validate:"required,gte=0"`
	IsTaxable    bool     `json:"is_taxable"`
	TaxRate      *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
}

// ListByInvoice returns the charges of one invoice in entry order.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]Charge, error) {
	uid, err := db.ParseUUID(invoiceID)
	if err != nil {
		return nil, common.Invalid("invalid invoice ID format: " + invoiceID)
	}
	rows, err := s.queries.ListChargesByInvoice(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list charges: %w", err)
	}
	out := make([]Charge, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCharge(row))
	}
	return out, nil
}

// Create attaches a charge to an invoice. Tax applies only when the charge
// is taxable.
func (s *Service) Create(ctx context.Context, in CreateInput) (Charge, error) {
	invoiceID, err := db.ParseUUID(in.InvoiceID)
	if err != nil {
		return Charge{}, common.Invalid("invalid invoice ID format: " + in.InvoiceID)
	}
	if _, err := s.queries.GetInvoice(ctx, invoiceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Charge{}, common.NotFound("invoice")
		}
		return Charge{}, fmt.Errorf("get invoice: %w", err)
	}

	amount := decimal.NewFromFloat(*in.ChargeAmount)
	taxRate := decimal.Zero
	if in.TaxRate != nil {
		taxRate = decimal.NewFromFloat(*in.TaxRate)
	}
	tax, total := billing.ComputeCharge(amount, in.IsTaxable, taxRate)

	id := db.NewUUID()
	arg := db.InsertChargeParams{
		ID:           id,
		InvoiceID:    invoiceID,
		ChargeName:   in.ChargeName,
		ChargeAmount: db.NumericFromDecimal(amount),
		IsTaxable:    in.IsTaxable,
		TaxRate:      db.NumericFromDecimal(taxRate),
		TaxAmount:    db.NumericFromDecimal(billing.Round2(tax)),
		TotalAmount:  db.NumericFromDecimal(billing.Round2(total)),
	}
	if err := s.queries.InsertCharge(ctx, arg); err != nil {
		return Charge{}, fmt.Errorf("insert charge: %w", err)
	}
	return Charge{
		ID:           db.UUIDString(id),
		InvoiceID:    in.InvoiceID,
		ChargeName:   in.ChargeName,
		ChargeAmount: billing.Float2(amount),
		IsTaxable:    in.IsTaxable,
		TaxRate:      billing.Float2(taxRate),
		TaxAmount:    billing.Float2(tax),
		TotalAmount:  billing.Float2(total),
	}, nil
}

// Delete removes one charge.
func (s *Service) Delete(ctx context.Context, id string) error {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return common.Invalid("invalid charge ID format: " + id)
	}
	n, err := s.queries.DeleteCharge(ctx, uid)
	if err != nil {
		return fmt.Errorf("delete charge: %w", err)
	}
	if n == 0 {
		return common.NotFound("additional charge")
	}
	return nil
}

func toCharge(row db.Charge) Charge {
	return Charge{
		ID:           db.UUIDString(row.ID),
		InvoiceID:    db.UUIDString(row.InvoiceID),
		ChargeName:   row.ChargeName,
		ChargeAmount: billing.Float2(db.DecimalFromNumeric(row.ChargeAmount)),
		IsTaxable:    row.IsTaxable,
		TaxRate:      billing.Float2(db.DecimalFromNumeric(row.TaxRate)),
		TaxAmount:    billing.Float2(db.DecimalFromNumeric(row.TaxAmount)),
		TotalAmount:  billing.Float2(db.DecimalFromNumeric(row.TotalAmount)),
	}
}
