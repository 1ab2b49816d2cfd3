// Package calculator computes one diner's share of a parsed bill.
//
// The engine is pure: it takes a Bill and a SelectionSet and produces a
// ShareResult without touching storage or the network. Tax is allocated
// proportionally to the diner's consumed subtotal as a fraction of the
// bill's reported subtotal:
//
//	user_tax = user_subtotal × (bill.tax / bill.subtotal)
//
// The bill's own reported subtotal is the denominator (not the sum of item
// line values) so the allocation stays consistent with the bill's tax base
// even when item-level data is incomplete.
package calculator

import (
	"errors"
	"math"

	"billsplit/internal/models"
)

// ErrInvalidSelection is returned when a share calculation is requested
// with an empty selection. It is user-correctable, never fatal.
var ErrInvalidSelection = errors.New("no items selected")

// ShareResult is one diner's computed share of a bill.
// Produced fresh on every calculation; never persisted.
type ShareResult struct {
	// UserSubtotal is the sum of line values over the selected items.
	UserSubtotal float64

	// UserTaxShare is the proportional allocation of the bill's tax.
	UserTaxShare float64

	// UserTotal is UserSubtotal + UserTaxShare.
	UserTotal float64

	// BillTotal and Currency are carried through from the bill for
	// display context; they take no part in the computation.
	BillTotal float64
	Currency  string
}

// CalculateShare computes the consuming party's share of the bill.
//
// Line values come from the selection's captured snapshots; entries are not
// re-validated against the live bill. A bill reporting a zero subtotal gets
// a zero tax share (no tax is manufactured on a bill that reports none).
// Rounding to the currency minor unit happens once, at the end, half-up.
func CalculateShare(bill *models.Bill, selection SelectionSet) (*ShareResult, error) {
	if selection.IsEmpty() {
		return nil, ErrInvalidSelection
	}

	var userSubtotal float64
	for _, e := range selection.entries {
		userSubtotal += e.UnitPrice * float64(e.Quantity)
	}

	taxRate := 0.0
	if bill.Subtotal > 0 {
		taxRate = bill.Tax / bill.Subtotal
	}

	userTaxShare := round2(userSubtotal * taxRate)
	userTotal := round2(userSubtotal + userTaxShare)

	return &ShareResult{
		UserSubtotal: round2(userSubtotal),
		UserTaxShare: userTaxShare,
		UserTotal:    userTotal,
		BillTotal:    bill.Total,
		Currency:     bill.Currency,
	}, nil
}

// round2 rounds to two decimal places, half-up.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
