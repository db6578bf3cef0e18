package payment

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/internal/db"
)

func TestToPaymentMapsRow(t *testing.T) {
	invID := db.NewUUID()
	row := db.Payment{
		ID:            db.NewUUID(),
		InvoiceID:     invID,
		InvoiceNumber: pgtype.Text{String: "INV-2026-0042", Valid: true},
		CustomerID:    db.NewUUID(),
		Amount:        db.NumericFromDecimal(decimal.RequireFromString("212.40")),
		Date:          pgtype.Date{Time: mustDate(t, "2026-08-30"), Valid: true},
		Method:        "bank_transfer",
		Reference:     pgtype.Text{String: "UTR123", Valid: true},
		IsRefund:      false,
		IsAdvance:     true,
	}

	p := toPayment(row)
	require.Equal(t, db.UUIDString(invID), *p.InvoiceID)
	require.Equal(t, "INV-2026-0042", *p.InvoiceNumber)
	require.Equal(t, 212.4, p.Amount)
	require.Equal(t, "2026-08-30", p.Date)
	require.Equal(t, "bank_transfer", p.Method)
	require.Equal(t, "UTR123", *p.Reference)
	require.True(t, p.IsAdvance)
	require.False(t, p.IsRefund)
}

func TestToPaymentWithoutInvoice(t *testing.T) {
	p := toPayment(db.Payment{
		ID:         db.NewUUID(),
		CustomerID: db.NewUUID(),
		Amount:     db.NumericFromDecimal(decimal.NewFromInt(500)),
		Method:     "cash",
	})
	require.Nil(t, p.InvoiceID)
	require.Nil(t, p.InvoiceNumber)
	require.Equal(t, 500.0, p.Amount)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}
