package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/invoiceworks/backend-invoicing/internal/common"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

type queryProvider interface {
	ListActiveCustomers(ctx context.Context) ([]db.Customer, error)
	SearchActiveCustomers(ctx context.Context, term string) ([]db.Customer, error)
	ListAllCustomers(ctx context.Context) ([]db.Customer, error)
	GetActiveCustomer(ctx context.Context, id pgtype.UUID) (db.Customer, error)
	InsertCustomer(ctx context.Context, arg db.InsertCustomerParams) error
	UpdateCustomer(ctx context.Context, arg db.UpdateCustomerParams) error
	DeactivateCustomer(ctx context.Context, id pgtype.UUID) (int64, error)
}

// Service owns customer CRUD with soft deletion.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(queries queryProvider) (*Service, error) {
	if queries == nil {
		return nil, errors.New("customer: queries provider is required")
	}
	return &Service{queries: queries}, nil
}

// Customer is the public payload.
type Customer struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Contact         *string           `json:"contact"`
	Email           *string           `json:"email"`
	Phone           *string           `json:"phone"`
	BillingAddress  map[string]string `json:"billing_address"`
	ShippingAddress map[string]string `json:"shipping_address,omitempty"`
	GSTNo           *string           `json:"gst_no"`
	PlaceOfSupply   *string           `json:"place_of_supply"`
	PaymentTerms    *int              `json:"payment_terms"`
	CreditLimit     *float64          `json:"credit_limit"`
	CompanyType     *string           `json:"company_type"`
	Notes           *string           `json:"notes"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       *time.Time        `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at"`
}

// CreateInput is the create request body.
type CreateInput struct {
	Name            string            `json:"name" validate:"required"`
	Contact         *string           `json:"contact"`
	Email           *string           `json:"email" validate:"omitempty,email"`
	Phone           *string           `json:"phone"`
	BillingAddress  map[string]string `json:"billing_address" validate:"required"`
	ShippingAddress map[string]string `json:"shipping_address"`
	GSTNo           *string           `json:"gst_no"`
	PlaceOfSupply   *string           `json:"place_of_supply"`
	PaymentTerms    *int              `json:"payment_terms"`
	CreditLimit     *float64          `json:"credit_limit"`
	CompanyType     *string           `json:"company_type"`
	Notes           *string           `json:"notes"`
}

// UpdateInput is the partial update body; nil fields keep stored values.
type UpdateInput struct {
	Name            *string           `json:"name"`
	Contact         *string           `json:"contact"`
	Email           *string           `json:"email" validate:"omitempty,email"`
	Phone           *string           `json:"phone"`
	BillingAddress  map[string]string `json:"billing_address"`
	ShippingAddress map[string]string `json:"shipping_address"`
	GSTNo           *string           `json:"gst_no"`
	PlaceOfSupply   *string           `json:"place_of_supply"`
	PaymentTerms    *int              `json:"payment_terms"`
	CreditLimit     *float64          `json:"credit_limit"`
	CompanyType     *string           `json:"company_type"`
	Notes           *string           `json:"notes"`
}

// List returns active customers ordered by name, filtered by a free-text
// search over name, contact, email, phone, and company type when provided.
func (s *Service) List(ctx context.Context, search string) ([]Customer, error) {
	var (
		rows []db.Customer
		err  error
	)
	if search != "" {
		rows, err = s.queries.SearchActiveCustomers(ctx, search)
	} else {
		rows, err = s.queries.ListActiveCustomers(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return toCustomers(rows), nil
}

// ListAll returns every customer including deactivated ones.
func (s *Service) ListAll(ctx context.Context) ([]Customer, error) {
	rows, err := s.queries.ListAllCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all customers: %w", err)
	}
	return toCustomers(rows), nil
}

// Get fetches one active customer.
func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Customer{}, common.Invalid("invalid customer ID format: " + id)
	}
	row, err := s.queries.GetActiveCustomer(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, common.NotFound("customer")
		}
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return toCustomer(row), nil
}

// Create inserts a customer and returns the stored row.
func (s *Service) Create(ctx context.Context, in CreateInput) (Customer, error) {
	id := db.NewUUID()
	billing, err := json.Marshal(in.BillingAddress)
	if err != nil {
		return Customer{}, common.Invalid("billing_address is not serializable")
	}
	var shipping []byte
	if in.ShippingAddress != nil {
		if shipping, err = json.Marshal(in.ShippingAddress); err != nil {
			return Customer{}, common.Invalid("shipping_address is not serializable")
		}
	}
	terms := in.PaymentTerms
	if terms == nil {
		d := 15
		terms = &d
	}
	arg := db.InsertCustomerParams{
		ID:              id,
		Name:            in.Name,
		Contact:         db.TextFromPtr(in.Contact),
		Email:           db.TextFromPtr(in.Email),
		Phone:           db.TextFromPtr(in.Phone),
		BillingAddress:  billing,
		ShippingAddress: shipping,
		GSTNo:           db.TextFromPtr(in.GSTNo),
		PlaceOfSupply:   db.TextFromPtr(in.PlaceOfSupply),
		PaymentTerms:    pgtype.Int4{Int32: int32(*terms), Valid: true},
		CreditLimit:     numericFromFloatPtr(in.CreditLimit),
		CompanyType:     db.TextFromPtr(in.CompanyType),
		Notes:           db.TextFromPtr(in.Notes),
	}
	if err := s.queries.InsertCustomer(ctx, arg); err != nil {
		return Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return s.Get(ctx, db.UUIDString(id))
}

// Update applies the provided fields and returns the refreshed row.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Customer, error) {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return Customer{}, common.Invalid("invalid customer ID format: " + id)
	}
	if _, err := s.queries.GetActiveCustomer(ctx, uid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, common.NotFound("customer")
		}
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	arg := db.UpdateCustomerParams{
		ID:            uid,
		Name:          db.TextFromPtr(in.Name),
		Contact:       db.TextFromPtr(in.Contact),
		Email:         db.TextFromPtr(in.Email),
		Phone:         db.TextFromPtr(in.Phone),
		GSTNo:         db.TextFromPtr(in.GSTNo),
		PlaceOfSupply: db.TextFromPtr(in.PlaceOfSupply),
		CreditLimit:   numericFromFloatPtr(in.CreditLimit),
		CompanyType:   db.TextFromPtr(in.CompanyType),
		Notes:         db.TextFromPtr(in.Notes),
	}
	if in.PaymentTerms != nil {
		arg.PaymentTerms = pgtype.Int4{Int32: int32(*in.PaymentTerms), Valid: true}
	}
	if in.BillingAddress != nil {
		if arg.BillingAddress, err = json.Marshal(in.BillingAddress); err != nil {
			return Customer{}, common.Invalid("billing_address is not serializable")
		}
	}
	if in.ShippingAddress != nil {
		if arg.ShippingAddress, err = json.Marshal(in.ShippingAddress); err != nil {
			return Customer{}, common.Invalid("shipping_address is not serializable")
		}
	}
	if err := s.queries.UpdateCustomer(ctx, arg); err != nil {
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return s.Get(ctx, id)
}

// Deactivate soft deletes the customer. Invoices keep referencing it.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	uid, err := db.ParseUUID(id)
	if err != nil {
		return common.Invalid("invalid customer ID format: " + id)
	}
	n, err := s.queries.DeactivateCustomer(ctx, uid)
	if err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	if n == 0 {
		return common.NotFound("customer")
	}
	return nil
}

func toCustomers(rows []db.Customer) []Customer {
	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCustomer(row))
	}
	return out
}

func toCustomer(row db.Customer) Customer {
	c := Customer{
		ID:            db.UUIDString(row.ID),
		Name:          row.Name,
		Contact:       db.TextPtr(row.Contact),
		Email:         db.TextPtr(row.Email),
		Phone:         db.TextPtr(row.Phone),
		GSTNo:         db.TextPtr(row.GSTNo),
		PlaceOfSupply: db.TextPtr(row.PlaceOfSupply),
		CompanyType:   db.TextPtr(row.CompanyType),
		Notes:         db.TextPtr(row.Notes),
		IsActive:      row.IsActive,
	}
	if len(row.BillingAddress) > 0 {
		_ = json.Unmarshal(row.BillingAddress, &c.BillingAddress)
	}
	if len(row.ShippingAddress) > 0 {
		_ = json.Unmarshal(row.ShippingAddress, &c.ShippingAddress)
	}
	if row.PaymentTerms.Valid {
		terms := int(row.PaymentTerms.Int32)
		c.PaymentTerms = &terms
	}
	if row.CreditLimit.Valid {
		limit, _ := db.DecimalFromNumeric(row.CreditLimit).Round(2).Float64()
		c.CreditLimit = &limit
	}
	if row.CreatedAt.Valid {
		t := row.CreatedAt.Time
		c.CreatedAt = &t
	}
	if row.UpdatedAt.Valid {
		t := row.UpdatedAt.Time
		c.UpdatedAt = &t
	}
	return c
}

func numericFromFloatPtr(f *float64) pgtype.Numeric {
	if f == nil {
		return pgtype.Numeric{}
	}
	return db.NumericFromDecimal(decimal.NewFromFloat(*f))
}
