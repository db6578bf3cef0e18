package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Product mirrors one row of the products table.
type Product struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	HSNSACCode  pgtype.Text
	Price       pgtype.Numeric
	TaxRate     pgtype.Numeric
	Unit        pgtype.Text
	IsTaxable   bool
	Category    pgtype.Text
	IsActive    bool
	CreatedAt   pgtype.Timestamptz
}

const productColumns = `id, name, description, hsn_sac_code, price, tax_rate, unit,
	is_taxable, category, is_active, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.HSNSACCode, &p.Price, &p.TaxRate,
		&p.Unit, &p.IsTaxable, &p.Category, &p.IsActive, &p.CreatedAt)
	return p, err
}

func (q *Queries) collectProducts(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListActiveProducts returns active products ordered by name.
func (q *Queries) ListActiveProducts(ctx context.Context) ([]Product, error) {
	return q.collectProducts(ctx, `SELECT `+productColumns+` FROM products WHERE is_active = TRUE ORDER BY name`)
}

// SearchActiveProducts matches the term against name, description, and
// category, case-insensitively.
func (q *Queries) SearchActiveProducts(ctx context.Context, term string) ([]Product, error) {
	pattern := "%" + term + "%"
	return q.collectProducts(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active = TRUE
		  AND (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1)
		ORDER BY name`, pattern)
}

// ListAllProducts returns every product including deactivated ones.
func (q *Queries) ListAllProducts(ctx context.Context) ([]Product, error) {
	return q.collectProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

// GetActiveProduct fetches one active product by id.
func (q *Queries) GetActiveProduct(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active = TRUE`, id))
}

// InsertProductParams carries the full insert column set.
type InsertProductParams struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	HSNSACCode  pgtype.Text
	Price       pgtype.Numeric
	TaxRate     pgtype.Numeric
	Unit        pgtype.Text
	IsTaxable   bool
	Category    pgtype.Text
}

// InsertProduct creates an active product row.
func (q *Queries) InsertProduct(ctx context.Context, arg InsertProductParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO products (id, name, description, hsn_sac_code, price, tax_rate, unit, is_taxable, category, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)`,
		arg.ID, arg.Name, arg.Description, arg.HSNSACCode, arg.Price, arg.TaxRate,
		arg.Unit, arg.IsTaxable, arg.Category)
	return err
}

// UpdateProductParams carries the partial update set; null params keep the
// stored value.
type UpdateProductParams struct {
	ID          pgtype.UUID
	Name        pgtype.Text
	Description pgtype.Text
	HSNSACCode  pgtype.Text
	Price       pgtype.Numeric
	TaxRate     pgtype.Numeric
	Unit        pgtype.Text
	IsTaxable   pgtype.Bool
	Category    pgtype.Text
}

// UpdateProduct applies the provided fields to an existing row.
func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE products SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			hsn_sac_code = COALESCE($4, hsn_sac_code),
			price = COALESCE($5, price),
			tax_rate = COALESCE($6, tax_rate),
			unit = COALESCE($7, unit),
			is_taxable = COALESCE($8, is_taxable),
			category = COALESCE($9, category)
		WHERE id = $1`,
		arg.ID, arg.Name, arg.Description, arg.HSNSACCode, arg.Price, arg.TaxRate,
		arg.Unit, arg.IsTaxable, arg.Category)
	return err
}

// DeactivateProduct soft deletes the product.
func (q *Queries) DeactivateProduct(ctx context.Context, id pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, `UPDATE products SET is_active = FALSE WHERE id = $1`, id)
	return tag.RowsAffected(), err
}
