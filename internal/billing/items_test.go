package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/invoiceworks/backend-invoicing/internal/billing"
)

func row(productID, qty, price, discount, taxRate string) billing.Item {
	return billing.Item{
		ProductID: productID,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
		Discount:  decimal.RequireFromString(discount),
		TaxRate:   decimal.RequireFromString(taxRate),
	}
}

func TestAddMergesDuplicateProduct(t *testing.T) {
	list := billing.ItemList{row("p1", "2", "100", "10", "18")}

	merged, totals := list.Add(row("p1", "3", "100", "5", "18"))

	if len(merged) != 1 {
		t.Fatalf("expected single merged row, got %d rows", len(merged))
	}
	if !merged[0].Quantity.Equal(decimal.RequireFromString("5")) {
		t.Errorf("quantity = %s, want 5 (2+3)", merged[0].Quantity)
	}
	if !merged[0].Discount.Equal(decimal.RequireFromString("5")) {
		t.Errorf("discount = %s, want the newly entered 5", merged[0].Discount)
	}

	// 5 * 100 * 0.95 = 475, tax 85.5
	if !totals.Subtotal.Equal(decimal.RequireFromString("475")) {
		t.Errorf("subtotal = %s, want 475", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(decimal.RequireFromString("85.5")) {
		t.Errorf("tax = %s, want 85.5", totals.TaxAmount)
	}

	// original list untouched
	if !list[0].Quantity.Equal(decimal.RequireFromString("2")) {
		t.Errorf("receiver mutated: quantity = %s", list[0].Quantity)
	}
}

func TestAddDistinctProductAppends(t *testing.T) {
	list := billing.ItemList{row("p1", "1", "50", "0", "18")}
	next, _ := list.Add(row("p2", "1", "80", "0", "12"))
	if len(next) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(next))
	}
	if next[1].ProductID != "p2" {
		t.Errorf("appended row product = %s, want p2", next[1].ProductID)
	}
}

func TestAddWithoutProductReferenceNeverMerges(t *testing.T) {
	list := billing.ItemList{row("", "1", "50", "0", "0")}
	next, _ := list.Add(row("", "1", "50", "0", "0"))
	if len(next) != 2 {
		t.Fatalf("ad-hoc rows must not merge, got %d rows", len(next))
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	list := billing.ItemList{
		row("p1", "2", "100", "0", "18"),
		row("p2", "1", "200", "0", "12"),
	}
	next, totals := list.Update(1, decimal.RequireFromString("4"), decimal.RequireFromString("25"))
	if !next[1].Quantity.Equal(decimal.RequireFromString("4")) || !next[1].Discount.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("row not updated: %+v", next[1])
	}
	// 2*100 + 4*200*0.75 = 200 + 600 = 800
	if !totals.Subtotal.Equal(decimal.RequireFromString("800")) {
		t.Errorf("subtotal = %s, want 800", totals.Subtotal)
	}
}

func TestUpdateOutOfRangeIsNoop(t *testing.T) {
	list := billing.ItemList{row("p1", "2", "100", "0", "18")}
	next, _ := list.Update(5, decimal.RequireFromString("9"), decimal.Zero)
	if !next[0].Quantity.Equal(decimal.RequireFromString("2")) {
		t.Fatalf("out-of-range update changed the list: %+v", next[0])
	}
}

func TestRemoveMatchesIndependentSum(t *testing.T) {
	three := billing.ItemList{
		row("p1", "3", "50", "0", "18"),
		row("p2", "1", "200", "25", "12"),
		row("p3", "2", "75", "10", "5"),
	}
	two := billing.ItemList{three[0], three[2]}

	removed, totals := three.Remove(1)
	if len(removed) != 2 {
		t.Fatalf("expected 2 rows after removal, got %d", len(removed))
	}
	want := two.Totals()
	if !totals.Subtotal.Equal(want.Subtotal) || !totals.TaxAmount.Equal(want.TaxAmount) || !totals.TotalAmount.Equal(want.TotalAmount) {
		t.Fatalf("removal totals %+v != independently computed %+v", totals, want)
	}
}

func TestRemoveLastRowYieldsZeroTotals(t *testing.T) {
	list := billing.ItemList{row("p1", "1", "100", "0", "18")}
	next, totals := list.Remove(0)
	if len(next) != 0 {
		t.Fatalf("expected empty list, got %d rows", len(next))
	}
	if !totals.TotalAmount.IsZero() {
		t.Errorf("totals not zero: %+v", totals)
	}
}

func TestAmounts(t *testing.T) {
	list := billing.ItemList{row("p1", "2", "100", "10", "18")}
	amounts := list.Amounts(0)
	if !amounts.Total.Equal(decimal.RequireFromString("212.4")) {
		t.Errorf("amount = %s, want 212.4", amounts.Total)
	}
	if out := list.Amounts(3); !out.Total.IsZero() {
		t.Errorf("out-of-range amount should be zero, got %s", out.Total)
	}
}
