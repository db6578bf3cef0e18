package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invoiceworks/backend-invoicing/internal/billing"
	"github.com/invoiceworks/backend-invoicing/internal/db"
	"github.com/invoiceworks/backend-invoicing/internal/obs"
)

const statsCacheKey = "dash:stats"

// Querier defines the database access the dashboard needs.
type Querier interface {
	CountInvoicesByStatus(ctx context.Context) ([]db.InvoiceStatusCount, error)
	GetRevenueSummary(ctx context.Context) (db.RevenueSummary, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountActiveCustomers(ctx context.Context, since time.Time) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	ListRecentInvoices(ctx context.Context, limit int32) ([]db.RecentInvoice, error)
	GetRevenueTrend(ctx context.Context, since time.Time) ([]db.MonthRevenue, error)
}

// Service aggregates business metrics for the dashboard, cached in Redis
// with a short TTL so the landing page does not hammer the database.
type Service struct {
	Q         Querier
	R         *redis.Client
	TTL       time.Duration
	TrendDays int
	Now       func() time.Time
}

// RecentInvoice is one row of the recent list.
type RecentInvoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	Date          string  `json:"date"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	CustomerName  *string `json:"customer_name"`
}

// TrendPoint is one month of received revenue.
type TrendPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// Stats is the dashboard payload.
type Stats struct {
	TotalInvoices   int64           `json:"total_invoices"`
	PendingInvoices int64           `json:"pending_invoices"`
	PaidInvoices    int64           `json:"paid_invoices"`
	OverdueInvoices int64           `json:"overdue_invoices"`
	TotalRevenue    float64         `json:"total_revenue"`
	PendingRevenue  float64         `json:"pending_revenue"`
	TotalCustomers  int64           `json:"total_customers"`
	ActiveCustomers int64           `json:"active_customers"`
	TotalProducts   int64           `json:"total_products"`
	RecentInvoices  []RecentInvoice `json:"recent_invoices"`
	RevenueTrend    []TrendPoint    `json:"revenue_trend"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Stats assembles the dashboard payload, serving from cache when fresh.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s == nil || s.Q == nil {
		return Stats{}, fmt.Errorf("dashboard service not configured")
	}
	if cached, ok := s.fromCache(ctx); ok {
		if obs.DashboardCacheTotal != nil {
			obs.DashboardCacheTotal.WithLabelValues("hit").Inc()
		}
		return cached, nil
	}
	if obs.DashboardCacheTotal != nil {
		obs.DashboardCacheTotal.WithLabelValues("miss").Inc()
	}

	stats := Stats{
		RecentInvoices: []RecentInvoice{},
		RevenueTrend:   []TrendPoint{},
	}

	buckets, err := s.Q.CountInvoicesByStatus(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count invoices by status: %w", err)
	}
	for _, b := range buckets {
		switch b.Status {
		case "draft", "sent", "partially_paid":
			stats.PendingInvoices += b.Count
		case "paid":
			stats.PaidInvoices += b.Count
		case "overdue":
			stats.OverdueInvoices += b.Count
		}
	}

	revenue, err := s.Q.GetRevenueSummary(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("revenue summary: %w", err)
	}
	stats.TotalInvoices = revenue.TotalInvoices
	stats.TotalRevenue = billing.Float2(db.DecimalFromNumeric(revenue.PaidRevenue))
	stats.PendingRevenue = billing.Float2(db.DecimalFromNumeric(revenue.PendingRevenue))

	if stats.TotalCustomers, err = s.Q.CountCustomers(ctx); err != nil {
		return Stats{}, fmt.Errorf("count customers: %w", err)
	}
	trendDays := s.TrendDays
	if trendDays <= 0 {
		trendDays = 180
	}
	since := s.now().AddDate(0, 0, -trendDays)
	if stats.ActiveCustomers, err = s.Q.CountActiveCustomers(ctx, since); err != nil {
		return Stats{}, fmt.Errorf("count active customers: %w", err)
	}
	if stats.TotalProducts, err = s.Q.CountProducts(ctx); err != nil {
		return Stats{}, fmt.Errorf("count products: %w", err)
	}

	recent, err := s.Q.ListRecentInvoices(ctx, 5)
	if err != nil {
		return Stats{}, fmt.Errorf("recent invoices: %w", err)
	}
	for _, row := range recent {
		item := RecentInvoice{
			ID:            db.UUIDString(row.ID),
			InvoiceNumber: row.InvoiceNumber,
			TotalAmount:   billing.Float2(db.DecimalFromNumeric(row.TotalAmount)),
			Status:        row.Status,
			CustomerName:  db.TextPtr(row.CustomerName),
		}
		if row.Date.Valid {
			item.Date = row.Date.Time.Format("2006-01-02")
		}
		stats.RecentInvoices = append(stats.RecentInvoices, item)
	}

	trend, err := s.Q.GetRevenueTrend(ctx, since)
	if err != nil {
		return Stats{}, fmt.Errorf("revenue trend: %w", err)
	}
	for _, row := range trend {
		stats.RevenueTrend = append(stats.RevenueTrend, TrendPoint{
			Month:   row.Month,
			Revenue: billing.Float2(db.DecimalFromNumeric(row.Revenue)),
		})
	}

	s.store(ctx, stats)
	return stats, nil
}

func (s *Service) fromCache(ctx context.Context) (Stats, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Stats{}, false
	}
	data, err := s.R.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return Stats{}, false
	}
	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return Stats{}, false
	}
	return stats, true
}

func (s *Service) store(ctx context.Context, stats Stats) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, statsCacheKey, data, s.TTL).Err()
}
