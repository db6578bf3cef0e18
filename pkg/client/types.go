package client

import "time"

// Customer is one customer record as the API serializes it.
type Customer struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Contact         *string           `json:"contact"`
	Email           *string           `json:"email"`
	Phone           *string           `json:"phone"`
	BillingAddress  map[string]string `json:"billing_address"`
	ShippingAddress map[string]string `json:"shipping_address,omitempty"`
	GSTNo           *string           `json:"gst_no"`
	PlaceOfSupply   *string           `json:"place_of_supply"`
	PaymentTerms    *int              `json:"payment_terms"`
	CreditLimit     *float64          `json:"credit_limit"`
	CompanyType     *string           `json:"company_type"`
	Notes           *string           `json:"notes"`
	IsActive        bool              `json:"is_active"`
	CreatedAt       *time.Time        `json:"created_at"`
	UpdatedAt       *time.Time        `json:"updated_at"`
}

// CustomerInput carries customer fields for create and update. Nil fields are
// omitted so partial updates leave them untouched.
type CustomerInput struct {
	Name            *string           `json:"name,omitempty"`
	Contact         *string           `json:"contact,omitempty"`
	Email           *string           `json:"email,omitempty"`
	Phone           *string           `json:"phone,omitempty"`
	BillingAddress  map[string]string `json:"billing_address,omitempty"`
	ShippingAddress map[string]string `json:"shipping_address,omitempty"`
	GSTNo           *string           `json:"gst_no,omitempty"`
	PlaceOfSupply   *string           `json:"place_of_supply,omitempty"`
	PaymentTerms    *int              `json:"payment_terms,omitempty"`
	CreditLimit     *float64          `json:"credit_limit,omitempty"`
	CompanyType     *string           `json:"company_type,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
}

// Product is one product record.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	HSNSACCode  *string    `json:"hsn_sac_code"`
	Price       float64    `json:"price"`
	TaxRate     float64    `json:"tax_rate"`
	Unit        *string    `json:"unit"`
	IsTaxable   bool       `json:"is_taxable"`
	Category    *string    `json:"category"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   *time.Time `json:"created_at"`
}

// ProductInput carries product fields for create and update.
type ProductInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	HSNSACCode  *string  `json:"hsn_sac_code,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	TaxRate     *float64 `json:"tax_rate,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	IsTaxable   *bool    `json:"is_taxable,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// InvoiceItem is one line on an invoice.
type InvoiceItem struct {
	ID          string   `json:"id"`
	InvoiceID   string   `json:"invoice_id,omitempty"`
	ProductID   *string  `json:"product_id"`
	ProductName *string  `json:"product_name"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	TaxRate     float64  `json:"tax_rate"`
	Discount    *float64 `json:"discount"`
	Amount      *float64 `json:"amount"`
}

// InvoiceItemInput carries line fields for invoice create and update. Price,
// tax rate and description fall back to the referenced product when omitted.
type InvoiceItemInput struct {
	InvoiceID   *string  `json:"invoice_id,omitempty"`
	ProductID   *string  `json:"product_id,omitempty"`
	Description *string  `json:"description,omitempty"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	TaxRate     *float64 `json:"tax_rate,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
}

// Invoice is one invoice with its embedded lines.
type Invoice struct {
	ID              string            `json:"id"`
	InvoiceNumber   string            `json:"invoice_number"`
	CustomerID      string            `json:"customer_id"`
	CustomerName    *string           `json:"customer_name"`
	Date            string            `json:"date"`
	DueDate         string            `json:"due_date"`
	Status          string            `json:"status"`
	Subtotal        float64           `json:"subtotal"`
	TaxAmount       float64           `json:"tax_amount"`
	TotalAmount     float64           `json:"total_amount"`
	AmountPaid      *float64          `json:"amount_paid"`
	BalanceDue      *float64          `json:"balance_due"`
	ShippingDetails map[string]string `json:"shipping_details,omitempty"`
	Notes           *string           `json:"notes"`
	Terms           *string           `json:"terms"`
	InvoiceType     *string           `json:"invoice_type"`
	IsTemplate      *bool             `json:"is_template"`
	CancelReason    *string           `json:"cancel_reason"`
	CreatedAt       *time.Time        `json:"created_at"`
	Items           []InvoiceItem     `json:"items"`
}

// InvoiceInput carries invoice fields for create and update. Totals are
// always recomputed by the server.
type InvoiceInput struct {
	CustomerID      *string            `json:"customer_id,omitempty"`
	Date            *string            `json:"date,omitempty"`
	DueDate         *string            `json:"due_date,omitempty"`
	Status          *string            `json:"status,omitempty"`
	ShippingDetails map[string]string  `json:"shipping_details,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	Terms           *string            `json:"terms,omitempty"`
	InvoiceType     *string            `json:"invoice_type,omitempty"`
	IsTemplate      *bool              `json:"is_template,omitempty"`
	Items           []InvoiceItemInput `json:"items,omitempty"`
}

// Payment is one recorded payment or refund.
type Payment struct {
	ID            string     `json:"id"`
	InvoiceID     *string    `json:"invoice_id"`
	InvoiceNumber *string    `json:"invoice_number,omitempty"`
	CustomerID    string     `json:"customer_id"`
	Amount        float64    `json:"amount"`
	Date          string     `json:"date"`
	Method        string     `json:"method"`
	Reference     *string    `json:"reference"`
	Notes         *string    `json:"notes"`
	IsRefund      bool       `json:"is_refund"`
	IsAdvance     bool       `json:"is_advance"`
	CreatedAt     *time.Time `json:"created_at"`
}

// PaymentInput carries payment fields for create and update. Omitting
// InvoiceID records an advance payment.
type PaymentInput struct {
	InvoiceID  *string  `json:"invoice_id,omitempty"`
	CustomerID *string  `json:"customer_id,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Date       *string  `json:"date,omitempty"`
	Method     *string  `json:"method,omitempty"`
	Reference  *string  `json:"reference,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// Charge is one additional charge attached to an invoice.
type Charge struct {
	ID           string  `json:"id"`
	InvoiceID    string  `json:"invoice_id"`
	ChargeName   string  `json:"charge_name"`
	ChargeAmount float64 `json:"charge_amount"`
	IsTaxable    bool    `json:"is_taxable"`
	TaxRate      float64 `json:"tax_rate"`
	TaxAmount    float64 `json:"tax_amount"`
	TotalAmount  float64 `json:"total_amount"`
}

// ChargeInput creates an additional charge. Tax is computed server side when
// IsTaxable is set.
type ChargeInput struct {
	InvoiceID    string   `json:"invoice_id"`
	ChargeName   string   `json:"charge_name"`
	ChargeAmount float64  `json:"charge_amount"`
	IsTaxable    bool     `json:"is_taxable"`
	TaxRate      *float64 `json:"tax_rate,omitempty"`
}

// DashboardRecentInvoice is one row of the dashboard recent list.
type DashboardRecentInvoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	Date          string  `json:"date"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	CustomerName  *string `json:"customer_name"`
}

// DashboardTrendPoint is one month of received revenue.
type DashboardTrendPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// DashboardStats is the aggregate dashboard payload.
type DashboardStats struct {
	TotalInvoices   int64                    `json:"total_invoices"`
	PendingInvoices int64                    `json:"pending_invoices"`
	PaidInvoices    int64                    `json:"paid_invoices"`
	OverdueInvoices int64                    `json:"overdue_invoices"`
	TotalRevenue    float64                  `json:"total_revenue"`
	PendingRevenue  float64                  `json:"pending_revenue"`
	TotalCustomers  int64                    `json:"total_customers"`
	ActiveCustomers int64                    `json:"active_customers"`
	TotalProducts   int64                    `json:"total_products"`
	RecentInvoices  []DashboardRecentInvoice `json:"recent_invoices"`
	RevenueTrend    []DashboardTrendPoint    `json:"revenue_trend"`
}

// Message is the generic acknowledgement body some delete endpoints return.
type Message struct {
	Message string `json:"message"`
}
