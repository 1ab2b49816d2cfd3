// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"billsplit/internal/models"
	"billsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveBill persists a new bill and its items to the database.
func (s *SQLiteStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Currency == "" {
		bill.Currency = "USD"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills (id, vendor, bill_date, subtotal, tax, total, currency, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		bill.ID, bill.Vendor, bill.BillDate, bill.Subtotal, bill.Tax, bill.Total, bill.Currency, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, item := range bill.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_items (bill_id, position, name, quantity, unit_price) VALUES (?, ?, ?, ?, ?)",
			bill.ID, i, item.Name, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including all items in display order.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, vendor, bill_date, subtotal, tax, total, currency, created_at FROM bills WHERE id = ?",
		billID,
	).Scan(&bill.ID, &bill.Vendor, &bill.BillDate, &bill.Subtotal, &bill.Tax, &bill.Total, &bill.Currency, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrBillNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	items, err := s.billItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items

	return bill, nil
}

// ListBills returns all bills, newest first, each with its items.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, vendor, bill_date, subtotal, tax, total, currency, created_at FROM bills ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill := &models.Bill{}
		if err := rows.Scan(&bill.ID, &bill.Vendor, &bill.BillDate, &bill.Subtotal, &bill.Tax, &bill.Total, &bill.Currency, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	for _, bill := range bills {
		items, err := s.billItems(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		bill.Items = items
	}

	return bills, nil
}

// billItems loads a bill's items ordered by their original position.
func (s *SQLiteStore) billItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, quantity, unit_price FROM bill_items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.BillItem
	for rows.Next() {
		var item models.BillItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}
