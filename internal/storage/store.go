// Package storage provides abstractions for bill persistence.
package storage

import (
	"context"
	"errors"

	"billsplit/internal/models"
)

// ErrBillNotFound is returned by GetBill when the identifier does not
// resolve to a stored bill. Implementations wrap it so callers can use
// errors.Is.
var ErrBillNotFound = errors.New("bill not found")

// Store defines the interface for bill storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
//
// Stores guarantee read-after-write visibility: once SaveBill returns,
// GetBill for that ID observes the bill. Writes for different IDs need no
// ordering among themselves.
type Store interface {
	// SaveBill persists a new bill. The bill's ID and CreatedAt fields
	// are populated by the store if unset.
	SaveBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	// Returns an error wrapping ErrBillNotFound if the bill is absent.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns all stored bills, newest first.
	ListBills(ctx context.Context) ([]*models.Bill, error)

	// Close releases any resources held by the store.
	Close() error
}
