package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/invoiceworks/backend-invoicing/internal/billing"
	"github.com/invoiceworks/backend-invoicing/internal/common"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

type queryProvider interface {
	ListActiveProducts(ctx context.Context) ([]db.Product, error)
	SearchActiveProducts(ctx context.Context, term string) ([]db.Product, error)
	ListAllProducts(ctx context.Context) ([]db.Product, error)
	GetActiveProduct(ctx context.Context, id pgtype.UUID) (db.Product, error)
	InsertProduct(ctx context.Context, arg db.InsertProductParams) error
	UpdateProduct(ctx context.Context, arg db.UpdateProductParams) error
	DeactivateProduct(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Service owns product CRUD with soft deletion.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) (*Service, error) {
	if queries == nil {
		return nil, errors.New("product: queries provider is required")
	}
	return &Service{queries: queries}, nil
}

// Product is the public payload.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	HSNSACCode  *string    `json:"hsn_sac_code"`
	Price       float64    `json:"price"`
	TaxRate     float64    `json:"tax_rate"`
	Unit        *string    `json:"unit"`
	IsTaxable   bool       `json:"is_taxable"`
	Category    *string    `json:"category"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_at"`
}

// CreateInput is the create request body.
type CreateInput struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	HSNSACCode  *string  `json:"hsn_sac_code"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	TaxRate     *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Unit        *string  `json:"unit"`
	IsTaxable   *bool    `json:"is_taxable"`
	Category    *string  `json:"category"`
}

// UpdateInput is the partial update body; nil fields keep stored values.
type UpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	HSNSACCode  *string  `json:"hsn_sac_code"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	TaxRate     *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Unit        *string  `json:"unit"`
	IsTaxable   *bool    `json:"is_taxable"`
	Category    *string  `json:"category"`
}

// List returns active products, optionally filtered by a search term over
// name, description, and category.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	search = strings.TrimSpace(search)
	var (
		rows []db.Product
		err  error
	)
	if search == "" {
		rows, err = s.queries.ListActiveProducts(ctx)
	} else {
		rows, err = s.queries.SearchActiveProducts(ctx, search)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return toProducts(rows), nil
}

// ListAll returns every product including deactivated ones.
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := s.queries.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return toProducts(rows), nil
}

// Get fetches one active product.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Product{}, common.Invalid("invalid product ID format: " + id)
	}
	row, err := s.queries.GetActiveProduct(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, common.NotFound("product")
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return toProduct(row), nil
}

// Create inserts a product with the catalogue defaults applied.
func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	id := db.NewUUID()
	taxRate := decimal.NewFromInt(18)
	if in.TaxRate != nil {
		taxRate = decimal.NewFromFloat(*in.TaxRate)
	}
	unit := "NOS"
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != "" {
		unit = *in.Unit
	}
	taxable := true
	if in.IsTaxable != nil {
		taxable = *in.IsTaxable
	}
	arg := db.InsertProductParams{
		ID:          id,
		Name:        in.Name,
		Description: db.TextFromPtr(in.Description),
		HSNSACCode:  db.TextFromPtr(in.HSNSACCode),
		Price:       db.NumericFromDecimal(decimal.NewFromFloat(*in.Price)),
		TaxRate:     db.NumericFromDecimal(taxRate),
		Unit:        pgtype.Text{String: unit, Valid: true},
		IsTaxable:   taxable,
		Category:    db.TextFromPtr(in.Category),
	}
	if err := s.queries.InsertProduct(ctx, arg); err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return s.Get(ctx, db.UUIDString(id))
}

// Update applies the provided fields and returns the refreshed row.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Product, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Product{}, common.Invalid("invalid product ID format: " + id)
	}
	if _, err := s.queries.GetActiveProduct(ctx, uid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, common.NotFound("product")
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	arg := db.UpdateProductParams{
		ID:          uid,
		Name:        db.TextFromPtr(in.Name),
		Description: db.TextFromPtr(in.Description),
		HSNSACCode:  db.TextFromPtr(in.HSNSACCode),
		Unit:        db.TextFromPtr(in.Unit),
		IsTaxable:   db.BoolFromPtr(in.IsTaxable),
		Category:    db.TextFromPtr(in.Category),
	}
	if in.Price != nil {
		arg.Price = db.NumericFromDecimal(decimal.NewFromFloat(*in.Price))
	}
	if in.TaxRate != nil {
		arg.TaxRate = db.NumericFromDecimal(decimal.NewFromFloat(*in.TaxRate))
	}
	if err := s.queries.UpdateProduct(ctx, arg); err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return s.Get(ctx, id)
}

// Deactivate soft deletes the product. Existing invoice rows keep their
// copied price and description.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return common.Invalid("invalid product ID format: " + id)
	}
	n, err := s.queries.DeactivateProduct(ctx, uid)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if n == 0 {
		return common.NotFound("product")
	}
	return nil
}

func toProducts(rows []db.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProduct(row))
	}
	return out
}

func toProduct(row db.Product) Product {
	return Product{
		ID:          db.UUIDString(row.ID),
		Name:        row.Name,
		Description: db.TextPtr(row.Description),
		HSNSACCode:  db.TextPtr(row.HSNSACCode),
		Price:       billing.Float2(db.DecimalFromNumeric(row.Price)),
		TaxRate:     billing.Float2(db.DecimalFromNumeric(row.TaxRate)),
		Unit:        db.TextPtr(row.Unit),
		IsTaxable:   row.IsTaxable,
		Category:    db.TextPtr(row.Category),
		IsActive:    row.IsActive,
		CreatedAt:   timePtr(row.CreatedAt),
	}
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
