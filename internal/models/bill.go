package models

// BillItem represents a single line item on a parsed bill.
type BillItem struct {
	// Name is the item description as read off the receipt.
	// Not guaranteed unique within a bill.
	Name string

	// Quantity is the number of units this line represents.
	Quantity int

	// UnitPrice is the price of a single unit, not of the whole line.
	UnitPrice float64
}

// LineValue returns the monetary value of the line: unit price × quantity.
func (i BillItem) LineValue() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Bill represents the structured output of bill extraction.
// It is created once when extraction completes and is immutable afterwards.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	// Assigned by the store when the bill is first saved.
	ID string

	// Vendor is the restaurant or store name. Descriptive only,
	// not used in calculation.
	Vendor string

	// BillDate is the date printed on the bill, as extracted.
	// Kept as a string because extraction output is free-form.
	BillDate string

	// Items are the line items in display order. Order carries no
	// calculation semantics, but an item's position is captured at
	// selection time for disambiguation.
	Items []BillItem

	// Subtotal is the pre-tax amount as reported by the source.
	// It is NOT required to equal the sum of item line values.
	Subtotal float64

	// Tax is the tax amount as reported by the source.
	Tax float64

	// Total is the final amount as reported by the source.
	// Subtotal + Tax may not reconcile to Total exactly.
	Total float64

	// Currency is the ISO currency code (e.g. "USD", "INR").
	Currency string

	// CreatedAt is the Unix timestamp when the bill was saved.
	CreatedAt int64
}
