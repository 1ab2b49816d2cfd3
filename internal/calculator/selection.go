package calculator

import (
	"strings"

	"billsplit/internal/models"
)

// Selection is a snapshot of one bill item a diner claims to have consumed.
// The snapshot is taken at toggle time: price and quantity are copied, so a
// later change to the bill does not affect an existing selection.
type Selection struct {
	// Name is the item name as it appeared on the bill.
	Name string

	// Quantity is the unit count of the selected line.
	Quantity int

	// UnitPrice is the per-unit price captured when the item was selected.
	UnitPrice float64

	// Index is the item's position in Bill.Items when it was toggled.
	// Retained for disambiguation of duplicate-named lines; not part of
	// the selection key.
	Index int
}

// selectionKey determines whether two selections refer to "the same" item.
// Two lines with the same name (case-insensitive) and quantity are treated
// as interchangeable, even at different prices. This coarseness is a
// documented tradeoff, not a bug.
type selectionKey struct {
	name     string
	quantity int
}

func keyOf(name string, quantity int) selectionKey {
	return selectionKey{name: strings.ToLower(name), quantity: quantity}
}

// SelectionSet is an unordered, de-duplicated collection of selections built
// incrementally via Toggle. The zero value is an empty, ready-to-use set.
//
// All methods are pure: Toggle returns a new set and never modifies the
// receiver or the bill, so toggling is trivially undoable.
type SelectionSet struct {
	entries []Selection
}

// NewSelectionSet creates a set from pre-captured selection snapshots, such
// as the consumed_items of a calculation request. Later entries replace
// earlier ones with the same key, matching Toggle's last-write-wins behavior.
func NewSelectionSet(entries ...Selection) SelectionSet {
	var s SelectionSet
	for _, e := range entries {
		s = s.put(e)
	}
	return s
}

// Toggle adds the item to the set, or removes it if an entry with the same
// (name, quantity) key is already present. index is the item's position in
// Bill.Items. The receiver is left untouched; the updated set is returned.
func (s SelectionSet) Toggle(item models.BillItem, index int) SelectionSet {
	key := keyOf(item.Name, item.Quantity)
	for i, e := range s.entries {
		if keyOf(e.Name, e.Quantity) == key {
			return s.without(i)
		}
	}
	return s.put(Selection{
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Index:     index,
	})
}

// Contains reports whether an entry with the item's selection key is present.
func (s SelectionSet) Contains(item models.BillItem) bool {
	key := keyOf(item.Name, item.Quantity)
	for _, e := range s.entries {
		if keyOf(e.Name, e.Quantity) == key {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no entries.
func (s SelectionSet) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the set.
func (s SelectionSet) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the selections in the set.
func (s SelectionSet) Entries() []Selection {
	out := make([]Selection, len(s.entries))
	copy(out, s.entries)
	return out
}

// put returns a new set with e added, replacing any entry sharing its key.
func (s SelectionSet) put(e Selection) SelectionSet {
	key := keyOf(e.Name, e.Quantity)
	out := make([]Selection, 0, len(s.entries)+1)
	for _, existing := range s.entries {
		if keyOf(existing.Name, existing.Quantity) != key {
			out = append(out, existing)
		}
	}
	return SelectionSet{entries: append(out, e)}
}

// without returns a new set with the entry at position i removed.
func (s SelectionSet) without(i int) SelectionSet {
	out := make([]Selection, 0, len(s.entries)-1)
	out = append(out, s.entries[:i]...)
	out = append(out, s.entries[i+1:]...)
	return SelectionSet{entries: out}
}
