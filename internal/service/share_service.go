// Package service implements the application operations behind the HTTP API:
// bill upload/extraction and share calculation. Handlers stay thin; domain
// errors cross this boundary as sentinel values, not HTTP codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"billsplit/internal/calculator"
	"billsplit/internal/extraction"
	"billsplit/internal/metrics"
	"billsplit/internal/models"
	"billsplit/internal/storage"
)

// ShareService wires the extraction boundary, the bill store and the share
// calculation engine together.
type ShareService struct {
	store     storage.Store
	extractor extraction.Extractor
}

// NewShareService creates a ShareService with the given storage backend and
// bill extractor.
func NewShareService(store storage.Store, extractor extraction.Extractor) *ShareService {
	return &ShareService{store: store, extractor: extractor}
}

// UploadBill extracts structured bill data from the image, saves the bill
// and returns it with its assigned ID.
func (s *ShareService) UploadBill(ctx context.Context, image []byte, mimeType string) (*models.Bill, error) {
	start := time.Now()
	extracted, err := s.extractor.ExtractBill(ctx, image, mimeType)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ExtractionFailures.Inc()
		slog.Error("Bill extraction failed", "error", err)
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	bill := extracted.ToBill()
	if err := s.store.SaveBill(ctx, bill); err != nil {
		slog.Error("Failed to save bill", "error", err)
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	metrics.BillsExtracted.Inc()
	slog.Info("Bill processed",
		"bill_id", bill.ID,
		"vendor", bill.Vendor,
		"items", len(bill.Items),
		"total", bill.Total,
		"currency", bill.Currency,
		"extraction_ms", time.Since(start).Milliseconds(),
	)
	return bill, nil
}

// CalculateShare resolves the bill by ID and computes the share owed for
// the given consumed-item snapshots.
//
// The consumed entries are the snapshots captured at selection time; they
// are not re-matched against the stored bill, so a selection that outlived
// a bill edit still computes from the values the diner actually saw.
func (s *ShareService) CalculateShare(ctx context.Context, billID string, consumed []calculator.Selection) (*calculator.ShareResult, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		metrics.ShareCalculations.WithLabelValues("unknown_bill").Inc()
		slog.Warn("CalculateShare: bill lookup failed", "bill_id", billID, "error", err)
		return nil, err
	}

	result, err := calculator.CalculateShare(bill, calculator.NewSelectionSet(consumed...))
	if err != nil {
		metrics.ShareCalculations.WithLabelValues("invalid_selection").Inc()
		slog.Warn("CalculateShare failed", "bill_id", billID, "error", err)
		return nil, err
	}

	metrics.ShareCalculations.WithLabelValues("ok").Inc()
	slog.Debug("Share calculated",
		"bill_id", billID,
		"selected_items", len(consumed),
		"user_subtotal", result.UserSubtotal,
		"user_tax_share", result.UserTaxShare,
		"user_total", result.UserTotal,
	)
	return result, nil
}

// GetBill retrieves a stored bill by ID.
func (s *ShareService) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return s.store.GetBill(ctx, billID)
}

// ListBills returns all stored bills, newest first.
func (s *ShareService) ListBills(ctx context.Context) ([]*models.Bill, error) {
	return s.store.ListBills(ctx)
}
