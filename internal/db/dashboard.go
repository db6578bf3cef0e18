package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// InvoiceStatusCount is one bucket of the status breakdown.
type InvoiceStatusCount struct {
	Status string
	Count  int64
}

// CountInvoicesByStatus groups all invoices by status.
func (q *Queries) CountInvoicesByStatus(ctx context.Context) ([]InvoiceStatusCount, error) {
	rows, err := q.db.Query(ctx, `SELECT status, COUNT(*) FROM invoices GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InvoiceStatusCount
	for rows.Next() {
		var c InvoiceStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RevenueSummary splits billed money into received and outstanding across
// every non-cancelled invoice.
type RevenueSummary struct {
	TotalInvoices  int64
	PaidRevenue    pgtype.Numeric
	PendingRevenue pgtype.Numeric
}

// GetRevenueSummary sums paid and outstanding amounts over live invoices.
func (q *Queries) GetRevenueSummary(ctx context.Context) (RevenueSummary, error) {
	var s RevenueSummary
	err := q.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(amount_paid), 0),
			COALESCE(SUM(balance_due), 0)
		FROM invoices
		WHERE status != 'cancelled'`).Scan(&s.TotalInvoices, &s.PaidRevenue, &s.PendingRevenue)
	return s, err
}

// CountCustomers counts every customer row, active or not.
func (q *Queries) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}

// CountActiveCustomers counts distinct customers invoiced since the cutoff.
func (q *Queries) CountActiveCustomers(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT customer_id) FROM invoices WHERE date >= $1`,
		pgtype.Date{Time: since, Valid: true}).Scan(&n)
	return n, err
}

// CountProducts counts every product row.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

// RecentInvoice is the compact row shown on the dashboard.
type RecentInvoice struct {
	ID            pgtype.UUID
	InvoiceNumber string
	Date          pgtype.Date
	TotalAmount   pgtype.Numeric
	Status        string
	CustomerName  pgtype.Text
}

// ListRecentInvoices returns the latest invoices by issue date.
func (q *Queries) ListRecentInvoices(ctx context.Context, limit int32) ([]RecentInvoice, error) {
	rows, err := q.db.Query(ctx, `
		SELECT i.id, i.invoice_number, i.date, i.total_amount, i.status, c.name
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id
		ORDER BY i.date DESC, i.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecentInvoice
	for rows.Next() {
		var v RecentInvoice
		if err := rows.Scan(&v.ID, &v.InvoiceNumber, &v.Date, &v.TotalAmount, &v.Status, &v.CustomerName); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// MonthRevenue is one point of the revenue trend, month formatted YYYY-MM.
type MonthRevenue struct {
	Month   string
	Revenue pgtype.Numeric
}

// GetRevenueTrend sums received money per month since the cutoff, cancelled
// invoices excluded.
func (q *Queries) GetRevenueTrend(ctx context.Context, since time.Time) ([]MonthRevenue, error) {
	rows, err := q.db.Query(ctx, `
		SELECT to_char(date, 'YYYY-MM') AS month, COALESCE(SUM(amount_paid), 0)
		FROM invoices
		WHERE date >= $1 AND status != 'cancelled'
		GROUP BY to_char(date, 'YYYY-MM')
		ORDER BY month`, pgtype.Date{Time: since, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MonthRevenue
	for rows.Next() {
		var m MonthRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
