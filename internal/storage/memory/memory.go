// Package memory provides an in-memory implementation of the storage.Store
// interface for tests and single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"billsplit/internal/models"
	"billsplit/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps bills in a map guarded by an RWMutex. Reads of a given ID
// after its write are always visible.
type Store struct {
	mu    sync.RWMutex
	bills map[string]*models.Bill
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{bills: make(map[string]*models.Bill)}
}

// SaveBill stores a copy of the bill, assigning ID and CreatedAt if unset.
func (s *Store) SaveBill(_ context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Currency == "" {
		bill.Currency = "USD"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bills[bill.ID] = clone(bill)
	return nil
}

// GetBill returns a copy of the stored bill.
func (s *Store) GetBill(_ context.Context, billID string) (*models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bill, ok := s.bills[billID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrBillNotFound, billID)
	}
	return clone(bill), nil
}

// ListBills returns copies of all bills, newest first.
func (s *Store) ListBills(_ context.Context) ([]*models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bills := make([]*models.Bill, 0, len(s.bills))
	for _, bill := range s.bills {
		bills = append(bills, clone(bill))
	}
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].CreatedAt != bills[j].CreatedAt {
			return bills[i].CreatedAt > bills[j].CreatedAt
		}
		return bills[i].ID < bills[j].ID
	})
	return bills, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// clone copies a bill so callers cannot mutate stored state.
func clone(bill *models.Bill) *models.Bill {
	out := *bill
	out.Items = make([]models.BillItem, len(bill.Items))
	copy(out.Items, bill.Items)
	return &out
}
