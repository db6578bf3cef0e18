package customer_test

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

	"github.com/invoiceworks/backend-invoicing/internal/customer"
	"github.com/invoiceworks/backend-invoicing/internal/db"
)

type fakeCustomerQueries struct {
	rows map[string]db.Customer
}

func newFakeCustomerQueries() *fakeCustomerQueries {
	return &fakeCustomerQueries{rows: map[string]db.Customer{}}
}

func (f *fakeCustomerQueries) ListActiveCustomers(context.Context) ([]db.Customer, error) {
	var out []db.Customer
	for _, c := range f.rows {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomerQueries) SearchActiveCustomers(_ context.Context, term string) ([]db.Customer, error) {
	var out []db.Customer
	for _, c := range f.rows {
		if c.IsActive && strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCustomerQueries) ListAllCustomers(context.Context) ([]db.Customer, error) {
	var out []db.Customer
	for _, c := range f.rows {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCustomerQueries) GetActiveCustomer(_ context.Context, id pgtype.UUID) (db.Customer, error) {
	c, ok := f.rows[db.UUIDString(id)]
	if !ok || !c.IsActive {
		return db.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCustomerQueries) InsertCustomer(_ context.Context, arg db.InsertCustomerParams) error {
	f.rows[db.UUIDString(arg.ID)] = db.Customer{
		ID:              arg.ID,
		Name:            arg.Name,
		Contact:         arg.Contact,
		Email:           arg.Email,
		Phone:           arg.Phone,
		BillingAddress:  arg.BillingAddress,
		ShippingAddress: arg.ShippingAddress,
		GSTNo:           arg.GSTNo,
		PlaceOfSupply:   arg.PlaceOfSupply,
		PaymentTerms:    arg.PaymentTerms,
		CreditLimit:     arg.CreditLimit,
		CompanyType:     arg.CompanyType,
		Notes:           arg.Notes,
		IsActive:        true,
	}
	return nil
}

func (f *fakeCustomerQueries) UpdateCustomer(_ context.Context, arg db.UpdateCustomerParams) error {
	c, ok := f.rows[db.UUIDString(arg.ID)]
	if !ok {
		return nil
	}
	if arg.Name.Valid {
		c.Name = arg.Name.String
	}
	if arg.Email.Valid {
		c.Email = arg.Email
	}
	if arg.Notes.Valid {
		c.Notes = arg.Notes
	}
	if len(arg.BillingAddress) > 0 {
		c.BillingAddress = arg.BillingAddress
	}
	f.rows[db.UUIDString(arg.ID)] = c
	return nil
}

func (f *fakeCustomerQueries) DeactivateCustomer(_ context.Context, id pgtype.UUID) (int64, error) {
	c, ok := f.rows[db.UUIDString(id)]
	if !ok {
		return 0, nil
	}
	c.IsActive = false
	f.rows[db.UUIDString(id)] = c
	return 1, nil
}

func newCustomerRouter(t *testing.T) (*chi.Mux, *fakeCustomerQueries) {
	t.Helper()
	queries := newFakeCustomerQueries()
	svc, err := customer.NewService(queries)
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Route("/customers", customer.NewHandler(svc).Routes)
	return r, queries
}

func TestCustomerLifecycle(t *testing.T) {
	router, _ := newCustomerRouter(t)

	body := `{
		"name": "Sharma Traders",
		"email": "accounts@sharma.example",
		"billing_address": {"line1": "14 MG Road", "city": "Pune", "state": "MH", "pincode": "411001"}
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Sharma Traders", created.Name)
	require.Equal(t, "Pune", created.BillingAddress["city"])
	require.NotNil(t, created.PaymentTerms)
	require.Equal(t, 15, *created.PaymentTerms)
	require.True(t, created.IsActive)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	update := `{"name": "Sharma & Sons"}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/customers/"+created.ID, strings.NewReader(update)))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Sharma & Sons", updated.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/customers/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// soft deleted rows disappear from the active list but stay in /all
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Empty(t, listed)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/all", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.False(t, listed[0].IsActive)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/"+created.ID, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerSearch(t *testing.T) {
	router, _ := newCustomerRouter(t)

	for _, name := range []string{"Sharma Traders", "Acme Exports"} {
		body := `{"name": "` + name + `", "billing_address": {"city": "Pune"}}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers?search=acme", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "Acme Exports", listed[0].Name)
}

func TestCustomerValidation(t *testing.T) {
	router, _ := newCustomerRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"billing_address": {"city": "Pune"}}`},
		{"missing billing address", `{"name": "No Address"}`},
		{"bad email", `{"name": "Bad Email", "email": "not-an-email", "billing_address": {"city": "Pune"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(tc.body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
