// Package client is a typed Go client for the invoicing API. It mirrors the
// REST surface one method per operation and carries no business logic; totals
// and defaults are always computed server side.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "http://localhost:1969"

// Client talks to the invoicing API. Construct it with New.
type Client struct {
	baseURL string
	httpc   *http.Client

	Customers    *CustomersService
	Products     *ProductsService
	Invoices     *InvoicesService
	InvoiceItems *InvoiceItemsService
	Payments     *PaymentsService
	Charges      *ChargesService
	Dashboard    *DashboardService
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient swaps the underlying http.Client, for custom transports or
// timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpc = hc
	}
}

// WithLogging wraps the client's transport in a LoggingTransport. It decorates
// whatever transport is configured at that point, so order it after
// WithHTTPClient.
func WithLogging(log zerolog.Logger) Option {
	return func(c *Client) {
		c.httpc.Transport = &LoggingTransport{Base: c.httpc.Transport, Log: log}
	}
}

// New builds a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Customers = &CustomersService{c: c}
	c.Products = &ProductsService{c: c}
	c.Invoices = &InvoicesService{c: c}
	c.InvoiceItems = &InvoiceItemsService{c: c}
	c.Payments = &PaymentsService{c: c}
	c.Charges = &ChargesService{c: c}
	c.Dashboard = &DashboardService{c: c}
	return c
}

// do issues one request. A non-nil in is sent as a JSON body, a non-nil out
// receives the decoded response. Non-2xx responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// raw issues a GET and returns the response body bytes, for binary endpoints
// like PDF rendering.
func (c *Client) raw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}
	return io.ReadAll(resp.Body)
}
