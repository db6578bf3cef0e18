package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Customer mirrors one row of the customers table.
type Customer struct {
	ID              pgtype.UUID
	Name            string
	Contact         pgtype.Text
	Email           pgtype.Text
	Phone           pgtype.Text
	BillingAddress  []byte
	ShippingAddress []byte
	GSTNo           pgtype.Text
	PlaceOfSupply   pgtype.Text
	PaymentTerms    pgtype.Int4
	CreditLimit     pgtype.Numeric
	CompanyType     pgtype.Text
	Notes           pgtype.Text
	IsActive        bool
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

const customerColumns = `id, name, contact, email, phone, billing_address, shipping_address,
	gst_no, place_of_supply, payment_terms, credit_limit, company_type, notes,
	is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Contact, &c.Email, &c.Phone, &c.BillingAddress,
		&c.ShippingAddress, &c.GSTNo, &c.PlaceOfSupply, &c.PaymentTerms, &c.CreditLimit,
		&c.CompanyType, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) collectCustomers(ctx context.Context, sql string, args ...any) ([]Customer, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListActiveCustomers returns active customers ordered by name.
func (q *Queries) ListActiveCustomers(ctx context.Context) ([]Customer, error) {
	return q.collectCustomers(ctx, `SELECT `+customerColumns+` FROM customers WHERE is_active = TRUE ORDER BY name`)
}

// SearchActiveCustomers matches the term against name, contact, email,
// phone, and company type, case-insensitively.
func (q *Queries) SearchActiveCustomers(ctx context.Context, term string) ([]Customer, error) {
	pattern := "%" + term + "%"
	return q.collectCustomers(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE is_active = TRUE
		  AND (name ILIKE $1 OR contact ILIKE $1 OR email ILIKE $1
		       OR phone ILIKE $1 OR company_type ILIKE $1)
		ORDER BY name`, pattern)
}

// ListAllCustomers returns every customer, active or not, ordered by name.
func (q *Queries) ListAllCustomers(ctx context.Context) ([]Customer, error) {
	return q.collectCustomers(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
}

// GetActiveCustomer fetches one active customer by id.
func (q *Queries) GetActiveCustomer(ctx context.Context, id pgtype.UUID) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND is_active = TRUE`, id))
}

// InsertCustomerParams carries the full insert column set.
type InsertCustomerParams struct {
	ID              pgtype.UUID
	Name            string
	Contact         pgtype.Text
	Email           pgtype.Text
	Phone           pgtype.Text
	BillingAddress  []byte
	ShippingAddress []byte
	GSTNo           pgtype.Text
	PlaceOfSupply   pgtype.Text
	PaymentTerms    pgtype.Int4
	CreditLimit     pgtype.Numeric
	CompanyType     pgtype.Text
	Notes           pgtype.Text
}

// InsertCustomer creates an active customer row.
func (q *Queries) InsertCustomer(ctx context.Context, arg InsertCustomerParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO customers (id, name, contact, email, phone, billing_address, shipping_address,
			gst_no, place_of_supply, payment_terms, credit_limit, company_type, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, TRUE)`,
		arg.ID, arg.Name, arg.Contact, arg.Email, arg.Phone, arg.BillingAddress,
		arg.ShippingAddress, arg.GSTNo, arg.PlaceOfSupply, arg.PaymentTerms,
		arg.CreditLimit, arg.CompanyType, arg.Notes)
	return err
}

// UpdateCustomerParams carries the partial update set; null params keep the
// stored value.
type UpdateCustomerParams struct {
	ID              pgtype.UUID
	Name            pgtype.Text
	Contact         pgtype.Text
	Email           pgtype.Text
	Phone           pgtype.Text
	BillingAddress  []byte
	ShippingAddress []byte
	GSTNo           pgtype.Text
	PlaceOfSupply   pgtype.Text
	PaymentTerms    pgtype.Int4
	CreditLimit     pgtype.Numeric
	CompanyType     pgtype.Text
	Notes           pgtype.Text
}

// UpdateCustomer applies the provided fields to an existing row.
func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE customers SET
			name = COALESCE($2, name),
			contact = COALESCE($3, contact),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			billing_address = COALESCE($6, billing_address),
			shipping_address = COALESCE($7, shipping_address),
			gst_no = COALESCE($8, gst_no),
			place_of_supply = COALESCE($9, place_of_supply),
			payment_terms = COALESCE($10, payment_terms),
			credit_limit = COALESCE($11, credit_limit),
			company_type = COALESCE($12, company_type),
			notes = COALESCE($13, notes),
			updated_at = now()
		WHERE id = $1`,
		arg.ID, arg.Name, arg.Contact, arg.Email, arg.Phone, arg.BillingAddress,
		arg.ShippingAddress, arg.GSTNo, arg.PlaceOfSupply, arg.PaymentTerms,
		arg.CreditLimit, arg.CompanyType, arg.Notes)
	return err
}

// DeactivateCustomer soft deletes the customer.
func (q *Queries) DeactivateCustomer(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE customers SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	return tag.RowsAffected(), err
}

// GetCustomerBillingAddress returns the billing address JSON used as the
// shipping fallback during invoice creation.
func (q *Queries) GetCustomerBillingAddress(ctx context.Context, id pgtype.UUID) ([]byte, error) {
	var addr []byte
	err := q.db.QueryRow(ctx, `SELECT billing_address FROM customers WHERE id = $1`, id).Scan(&addr)
	return addr, err
}
