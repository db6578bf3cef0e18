// Package billing implements invoice line-item and totals arithmetic.
//
// Every screen and service that needs a subtotal, tax amount, or invoice
// total goes through this package; there is exactly one copy of the math.
// Values stay exact decimals throughout; rounding to currency precision
// happens only at the serialization boundary via Round2.
package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineInput carries the user-supplied fields of one invoice row.
// Quantity must be positive and the percentages within [0,100]; range
// checks belong to the caller, the computation is total over that domain.
type LineInput struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // percent, applied pre-tax
	TaxRate   decimal.Decimal // percent, applied post-discount
}

// LineAmounts holds the derived values for one row.
type LineAmounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Totals aggregates the derived values over all rows of an invoice.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeLine derives one row's subtotal, tax, and total:
//
//	subtotal = quantity * unit_price * (1 - discount/100)
//	tax      = subtotal * tax_rate/100
//	total    = subtotal + tax
func ComputeLine(in LineInput) LineAmounts {
	subtotal := in.Quantity.Mul(in.UnitPrice).Mul(hundred.Sub(in.Discount)).Div(hundred)
	tax := subtotal.Mul(in.TaxRate).Div(hundred)
	return LineAmounts{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// ComputeTotals sums the per-row amounts in input order. Summation order is
// deterministic for reproducibility, though the result is order-independent
// under exact arithmetic. An empty slice yields zero totals.
func ComputeTotals(items []LineInput) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, in := range items {
		amounts := ComputeLine(in)
		subtotal = subtotal.Add(amounts.Subtotal)
		tax = tax.Add(amounts.Tax)
	}
	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: subtotal.Add(tax),
	}
}

// ComputeCharge derives the tax and grand total of an additional charge.
// Tax applies only when the charge is taxable.
func ComputeCharge(amount decimal.Decimal, taxable bool, taxRate decimal.Decimal) (tax, total decimal.Decimal) {
	tax = decimal.Zero
	if taxable {
		tax = amount.Mul(taxRate).Div(hundred)
	}
	return tax, amount.Add(tax)
}

// Round2 rounds to two decimal places, half away from zero. Applied only
// when a value leaves the package for display or persistence.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Float2 is Round2 followed by conversion to float64, the shape API
// responses carry money in.
func Float2(d decimal.Decimal) float64 {
	f, _ := Round2(d).Float64()
	return f
}
