package billing

import "github.com/shopspring/decimal"

// Item is one row of an invoice being composed: a product reference plus
// the fields the totals depend on.
type Item struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TaxRate     decimal.Decimal
}

// ItemList is the ordered collection of rows for a single invoice editing
// session. Mutations return the new list plus recomputed totals; the
// receiver is never modified.
type ItemList []Item

// Add appends the item, or merges it when a row with the same product
// reference already exists: quantities sum and the discount is overwritten
// with the newly entered value. The merge is a deliberate business rule,
// not deduplication for convenience.
func (l ItemList) Add(item Item) (ItemList, Totals) {
	for i, existing := range l {
		if existing.ProductID != "" && existing.ProductID == item.ProductID {
			merged := make(ItemList, len(l))
			copy(merged, l)
			merged[i].Quantity = existing.Quantity.Add(item.Quantity)
			merged[i].Discount = item.Discount
			return merged, merged.Totals()
		}
	}
	next := make(ItemList, len(l), len(l)+1)
	copy(next, l)
	next = append(next, item)
	return next, next.Totals()
}

// Update replaces the quantity and discount of the row at index in place.
// Out-of-range indexes leave the list untouched.
func (l ItemList) Update(index int, quantity, discount decimal.Decimal) (ItemList, Totals) {
	if index < 0 || index >= len(l) {
		return l, l.Totals()
	}
	next := make(ItemList, len(l))
	copy(next, l)
	next[index].Quantity = quantity
	next[index].Discount = discount
	return next, next.Totals()
}

// Remove deletes the row at index by position.
func (l ItemList) Remove(index int) (ItemList, Totals) {
	if index < 0 || index >= len(l) {
		return l, l.Totals()
	}
	next := make(ItemList, 0, len(l)-1)
	next = append(next, l[:index]...)
	next = append(next, l[index+1:]...)
	return next, next.Totals()
}

// Totals recomputes the invoice aggregates from the current rows.
func (l ItemList) Totals() Totals {
	return ComputeTotals(l.Inputs())
}

// Inputs projects the rows into calculator inputs, preserving order.
func (l ItemList) Inputs() []LineInput {
	inputs := make([]LineInput, 0, len(l))
	for _, item := range l {
		inputs = append(inputs, LineInput{
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			TaxRate:   item.TaxRate,
		})
	}
	return inputs
}

// Amounts returns the derived values for the row at index.
func (l ItemList) Amounts(index int) LineAmounts {
	if index < 0 || index >= len(l) {
		return LineAmounts{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	}
	item := l[index]
	return ComputeLine(LineInput{
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Discount:  item.Discount,
		TaxRate:   item.TaxRate,
	})
}
