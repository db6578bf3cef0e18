package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/pkg/client"
)

func newServer(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(client.WithBaseURL(srv.URL))
}

func TestCustomersList(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/customers", r.URL.Path)
		require.Equal(t, "acme", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"c1","name":"Acme Traders","billing_address":{"city":"Pune"},"is_active":true}]`))
	})

	customers, err := c.Customers.List(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "Acme Traders", customers[0].Name)
	require.Equal(t, "Pune", customers[0].BillingAddress["city"])
}

func TestInvoiceCreateSendsBody(t *testing.T) {
	var got map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/invoices", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"inv1","invoice_number":"INV-2025-0001","customer_id":"c1","status":"draft","total_amount":1180,"items":[]}`))
	})

	customerID := "c1"
	inv, err := c.Invoices.Create(context.Background(), client.InvoiceInput{
		CustomerID: &customerID,
		Items: []client.InvoiceItemInput{
			{ProductID: strPtr("p1"), Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "INV-2025-0001", inv.InvoiceNumber)

	require.Equal(t, "c1", got["customer_id"])
	items, ok := got["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2.0, first["quantity"])
	_, sentPrice := first["unit_price"]
	require.False(t, sentPrice, "omitted price should not be serialized")
}

func TestErrorEnvelopeParsed(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"not_found","message":"Invoice not found"}}`))
	})

	_, err := c.Invoices.Get(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, client.IsNotFound(err))

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "not_found", apiErr.Code)
	require.Equal(t, "Invoice not found", apiErr.Message)
}

func TestErrorWithoutBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Dashboard.Stats(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Empty(t, apiErr.Code)
}

func TestInvoicePDFRaw(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake document")
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/invoices/inv1/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})

	data, err := c.Invoices.PDF(context.Background(), "inv1")
	require.NoError(t, err)
	require.Equal(t, pdf, data)
}

func TestPaymentRefund(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/pay1/refund", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "duplicate charge", body["reason"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pay2","customer_id":"c1","amount":100,"date":"2025-08-30","method":"card","is_refund":true}`))
	})

	refund, err := c.Payments.Refund(context.Background(), "pay1", "duplicate charge")
	require.NoError(t, err)
	require.True(t, refund.IsRefund)
}

func TestLoggingTransportLogsRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	c := client.New(client.WithBaseURL(srv.URL), client.WithLogging(log))

	_, err := c.Payments.List(context.Background())
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, float64(http.StatusOK), entry["status"])
	require.Equal(t, "api request", entry["message"])
}

func strPtr(s string) *string { return &s }
