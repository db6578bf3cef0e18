package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/internal/dashboard"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

type stubQueries struct {
	calls int
}

func num(s string) pgtype.Numeric {
	return db.NumericFromDecimal(decimal.RequireFromString(s))
}

func (s *stubQueries) CountInvoicesByStatus(ctx context.Context) ([]db.InvoiceStatusCount, error) {
	s.calls++
	return []db.InvoiceStatusCount{
		{Status: "draft", Count: 2},
		{Status: "sent", Count: 3},
		{Status: "partially_paid", Count: 1},
		{Status: "paid", Count: 4},
		{Status: "overdue", Count: 1},
		{Status: "cancelled", Count: 2},
	}, nil
}

func (s *stubQueries) GetRevenueSummary(ctx context.Context) (db.RevenueSummary, error) {
	return db.RevenueSummary{
		TotalInvoices:  13,
		PaidRevenue:    num("45000.50"),
		PendingRevenue: num("12000.00"),
	}, nil
}

func (s *stubQueries) CountCustomers(ctx context.Context) (int64, error) { return 9, nil }
func (s *stubQueries) CountProducts(ctx context.Context) (int64, error)  { return 21, nil }

func (s *stubQueries) CountActiveCustomers(ctx context.Context, since time.Time) (int64, error) {
	return 6, nil
}

func (s *stubQueries) ListRecentInvoices(ctx context.Context, limit int32) ([]db.RecentInvoice, error) {
	name := "Acme Traders"
	return []db.RecentInvoice{
		{
			ID:            db.NewUUID(),
			InvoiceNumber: "INV-2025-0042",
			Date:          pgtype.Date{Time: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), Valid: true},
			TotalAmount:   num("1180.00"),
			Status:        "sent",
			CustomerName:  db.TextFromPtr(&name),
		},
	}, nil
}

func (s *stubQueries) GetRevenueTrend(ctx context.Context, since time.Time) ([]db.MonthRevenue, error) {
	return []db.MonthRevenue{
		{Month: "2025-07", Revenue: num("20000")},
		{Month: "2025-08", Revenue: num("25000.50")},
	}, nil
}

func newTestService(t *testing.T, q dashboard.Querier) (*dashboard.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &dashboard.Service{
		Q:   q,
		R:   rdb,
		TTL: time.Minute,
		Now: func() time.Time { return time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC) },
	}, mr
}

func TestStatsAggregates(t *testing.T) {
	q := &stubQueries{}
	svc, _ := newTestService(t, q)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(13), stats.TotalInvoices)
	require.Equal(t, int64(6), stats.PendingInvoices)
	require.Equal(t, int64(4), stats.PaidInvoices)
	require.Equal(t, int64(1), stats.OverdueInvoices)
	require.InDelta(t, 45000.50, stats.TotalRevenue, 1e-9)
	require.InDelta(t, 12000.00, stats.PendingRevenue, 1e-9)
	require.Equal(t, int64(9), stats.TotalCustomers)
	require.Equal(t, int64(6), stats.ActiveCustomers)
	require.Equal(t, int64(21), stats.TotalProducts)

	require.Len(t, stats.RecentInvoices, 1)
	require.Equal(t, "INV-2025-0042", stats.RecentInvoices[0].InvoiceNumber)
	require.Equal(t, "2025-08-20", stats.RecentInvoices[0].Date)
	require.NotNil(t, stats.RecentInvoices[0].CustomerName)
	require.Equal(t, "Acme Traders", *stats.RecentInvoices[0].CustomerName)

	require.Len(t, stats.RevenueTrend, 2)
	require.Equal(t, "2025-07", stats.RevenueTrend[0].Month)
	require.InDelta(t, 25000.50, stats.RevenueTrend[1].Revenue, 1e-9)
}

func TestStatsCached(t *testing.T) {
	q := &stubQueries{}
	svc, _ := newTestService(t, q)

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)

	second, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, q.calls, "second read should come from cache")
	require.Equal(t, first, second)
}

func TestStatsCacheExpiry(t *testing.T) {
	q := &stubQueries{}
	svc, mr := newTestService(t, q)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, q.calls, "expired cache should hit the database again")
}
