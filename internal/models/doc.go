// Package models defines the core domain models for billsplit.
//
// # Models
//
//   - Bill: structured representation of a parsed restaurant bill
//   - BillItem: individual line items on a bill
//
// A Bill is produced once by the extraction step (see internal/extraction)
// and is immutable afterwards. Selection and share calculation reference a
// bill by its ID; they never mutate it.
//
// # Design Principles
//
//  1. **Tolerant degradation**: extraction output is inherently noisy
//     (OCR/AI); missing or null numeric fields are coerced to zero at the
//     extraction boundary, so models hold plain (non-pointer) numerics and
//     downstream code never checks for nil.
//  2. **No reconciliation invariant**: Subtotal, Tax and Total are the
//     figures the source reported. They may disagree with the sum of item
//     line values (rounding, auto-added charges) and that is legitimate.
//  3. **Avoid circular references**: bills are referenced by ID strings, not
//     pointers, across package boundaries.
package models
