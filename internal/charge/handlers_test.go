package charge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/internal/charge"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

type fakeChargeQueries struct {
	invoices map[string]db.Invoice
	charges  map[string]db.Charge
}

func newFakeChargeQueries() *fakeChargeQueries {
	return &fakeChargeQueries{
		invoices: map[string]db.Invoice{},
		charges:  map[string]db.Charge{},
	}
}

func (f *fakeChargeQueries) GetInvoice(_ context.Context, id pgtype.UUID) (db.Invoice, error) {
	inv, ok := f.invoices[db.UUIDString(id)]
	if !ok {
		return db.Invoice{}, pgx.ErrNoRows
	}
	return inv, nil
}

func (f *fakeChargeQueries) ListChargesByInvoice(_ context.Context, invoiceID pgtype.UUID) ([]db.Charge, error) {
	var out []db.Charge
	for _, c := range f.charges {
		if db.UUIDString(c.InvoiceID) == db.UUIDString(invoiceID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChargeQueries) InsertCharge(_ context.Context, arg db.InsertChargeParams) error {
	f.charges[db.UUIDString(arg.ID)] = db.Charge{
		ID:           arg.ID,
		InvoiceID:    arg.InvoiceID,
		ChargeName:   arg.ChargeName,
		ChargeAmount: arg.ChargeAmount,
		IsTaxable:    arg.IsTaxable,
		TaxRate:      arg.TaxRate,
		TaxAmount:    arg.TaxAmount,
		TotalAmount:  arg.TotalAmount,
	}
	return nil
}

func (f *fakeChargeQueries) DeleteCharge(_ context.Context, id pgtype.UUID) (int64, error) {
	if _, ok := f.charges[db.UUIDString(id)]; !ok {
		return 0, nil
	}
	delete(f.charges, db.UUIDString(id))
	return 1, nil
}

func newChargeRouter(t *testing.T) (*chi.Mux, *fakeChargeQueries, string) {
	t.Helper()
	queries := newFakeChargeQueries()
	invID := db.NewUUID()
	queries.invoices[db.UUIDString(invID)] = db.Invoice{ID: invID, Status: "sent"}
	svc, err := charge.NewService(queries)
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Route("/additional-charges", charge.NewHandler(svc).Routes)
	return r, queries, db.UUIDString(invID)
}

func TestChargeCreateTaxable(t *testing.T) {
	router, _, invID := newChargeRouter(t)

	body := `{"invoice_id": "` + invID + `", "charge_name": "Freight", "charge_amount": 500, "is_taxable": true, "tax_rate": 18}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/additional-charges", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var c charge.Charge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, 500.0, c.ChargeAmount)
	require.Equal(t, 90.0, c.TaxAmount)
	require.Equal(t, 590.0, c.TotalAmount)
}

func TestChargeCreateNonTaxableIgnoresRate(t *testing.T) {
	router, _, invID := newChargeRouter(t)

	body := `{"invoice_id": "` + invID + `", "charge_name": "Packing", "charge_amount": 120, "is_taxable": false, "tax_rate": 18}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/additional-charges", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var c charge.Charge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, 0.0, c.TaxAmount)
	require.Equal(t, 120.0, c.TotalAmount)
}

func TestChargeListAndDelete(t *testing.T) {
	router, _, invID := newChargeRouter(t)

	body := `{"invoice_id": "` + invID + `", "charge_name": "Freight", "charge_amount": 500}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/additional-charges", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created charge.Charge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/additional-charges/"+invID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []charge.Charge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/additional-charges/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/additional-charges/"+created.ID, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChargeUnknownInvoice(t *testing.T) {
	router, _, _ := newChargeRouter(t)

	body := `{"invoice_id": "` + db.UUIDString(db.NewUUID()) + `", "charge_name": "Freight", "charge_amount": 500}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/additional-charges", strings.NewReader(body)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
