// Package extraction turns a bill image into a structured Bill using an
// external vision model. The engine only depends on the Extractor contract;
// the Gemini client is one implementation.
package extraction

import (
	"context"

	"billsplit/internal/models"
)

// Extractor converts a bill image into structured bill data.
type Extractor interface {
	ExtractBill(ctx context.Context, image []byte, mimeType string) (*ExtractedBill, error)
}

// ExtractedItem is one line item as reported by the vision model.
// Numeric fields are pointers so null/missing values survive decoding
// instead of silently becoming zero before we can tell the difference.
type ExtractedItem struct {
	Name     string   `json:"name"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// ExtractedBill is the raw extraction output contract:
// vendor?, bill_date?, items[] (name, quantity, price), subtotal, tax,
// total, currency. Any field may be absent; extraction is lossy.
type ExtractedBill struct {
	BillDate *string         `json:"bill_date"`
	Vendor   *string         `json:"vendor"`
	Items    []ExtractedItem `json:"items"`
	Subtotal *float64        `json:"subtotal"`
	Tax      *float64        `json:"tax"`
	Total    *float64        `json:"total"`
	Currency *string         `json:"currency"`
}

// ToBill coerces the extraction output into a Bill. This is the single
// boundary where tolerant degradation happens: nil numerics become zero,
// negatives are clamped to zero, and the currency defaults to USD. Internal
// inconsistency between subtotal and the item sum is accepted as-is.
func (e *ExtractedBill) ToBill() *models.Bill {
	bill := &models.Bill{
		Vendor:   strOrEmpty(e.Vendor),
		BillDate: strOrEmpty(e.BillDate),
		Subtotal: amountOrZero(e.Subtotal),
		Tax:      amountOrZero(e.Tax),
		Total:    amountOrZero(e.Total),
		Currency: strOrEmpty(e.Currency),
	}
	if bill.Currency == "" {
		bill.Currency = "USD"
	}

	bill.Items = make([]models.BillItem, len(e.Items))
	for i, item := range e.Items {
		bill.Items[i] = models.BillItem{
			Name:      item.Name,
			Quantity:  countOrZero(item.Quantity),
			UnitPrice: amountOrZero(item.Price),
		}
	}
	return bill
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func amountOrZero(f *float64) float64 {
	if f == nil || *f < 0 {
		return 0
	}
	return *f
}

func countOrZero(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}
