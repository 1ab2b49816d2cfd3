package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"billsplit/internal/extraction"
	"billsplit/internal/models"
	"billsplit/internal/service"
	"billsplit/internal/storage/memory"
)

func ptr[T any](v T) *T { return &v }

type stubExtractor struct {
	result *extraction.ExtractedBill
	err    error
}

func (s *stubExtractor) ExtractBill(_ context.Context, _ []byte, _ string) (*extraction.ExtractedBill, error) {
	return s.result, s.err
}

// setupRouter builds a router backed by an in-memory store and the given
// extractor, returning the store for test seeding.
func setupRouter(extractor extraction.Extractor) (*gin.Engine, *memory.Store) {
	gin.SetMode(gin.TestMode)
	store := memory.New()
	svc := service.NewShareService(store, extractor)
	return NewRouter(svc), store
}

func seedBill(t *testing.T, store *memory.Store) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		Vendor:   "Pizza Corner",
		Subtotal: 100,
		Tax:      18,
		Total:    118,
		Currency: "INR",
		Items: []models.BillItem{
			{Name: "Pizza", Quantity: 1, UnitPrice: 60},
			{Name: "Soda", Quantity: 2, UnitPrice: 20},
		},
	}
	if err := store.SaveBill(context.Background(), bill); err != nil {
		t.Fatalf("SaveBill failed: %v", err)
	}
	return bill
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupRouter(&stubExtractor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestCalculateShareEndpoint(t *testing.T) {
	r, store := setupRouter(&stubExtractor{})
	bill := seedBill(t, store)

	body := fmt.Sprintf(`{
		"bill_id": %q,
		"consumed_items": [{"name": "Pizza", "quantity": 1, "price": 60}]
	}`, bill.ID)

	req := httptest.NewRequest(http.MethodPost, "/calculate-share", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		UserSubtotal float64 `json:"user_subtotal"`
		UserTaxShare float64 `json:"user_tax_share"`
		UserTotal    float64 `json:"user_total"`
		BillTotal    float64 `json:"bill_total"`
		Currency     string  `json:"currency"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if math.Abs(resp.UserSubtotal-60) > 0.005 {
		t.Errorf("user_subtotal = %v, want 60", resp.UserSubtotal)
	}
	if math.Abs(resp.UserTaxShare-10.80) > 0.005 {
		t.Errorf("user_tax_share = %v, want 10.80", resp.UserTaxShare)
	}
	if math.Abs(resp.UserTotal-70.80) > 0.005 {
		t.Errorf("user_total = %v, want 70.80", resp.UserTotal)
	}
	if resp.BillTotal != 118 || resp.Currency != "INR" {
		t.Errorf("bill context wrong: %+v", resp)
	}
}

func TestCalculateShareEndpointErrors(t *testing.T) {
	r, store := setupRouter(&stubExtractor{})
	bill := seedBill(t, store)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "unknown bill",
			body:       `{"bill_id": "missing", "consumed_items": [{"name": "Pizza", "quantity": 1, "price": 60}]}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "empty selection",
			body:       fmt.Sprintf(`{"bill_id": %q, "consumed_items": []}`, bill.ID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing bill_id",
			body:       `{"consumed_items": [{"name": "Pizza", "quantity": 1, "price": 60}]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"bill_id": `,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/calculate-share", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestCalculateShareEndpointNullNumericsCoerce(t *testing.T) {
	// A consumed item with null price/quantity contributes zero instead of
	// failing the request.
	r, store := setupRouter(&stubExtractor{})
	bill := seedBill(t, store)

	body := fmt.Sprintf(`{
		"bill_id": %q,
		"consumed_items": [
			{"name": "Pizza", "quantity": 1, "price": 60},
			{"name": "Smudged", "quantity": null, "price": null}
		]
	}`, bill.ID)

	req := httptest.NewRequest(http.MethodPost, "/calculate-share", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		UserSubtotal float64 `json:"user_subtotal"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.UserSubtotal-60) > 0.005 {
		t.Errorf("user_subtotal = %v, want 60 (null entry contributes zero)", resp.UserSubtotal)
	}
}

func TestUploadBillEndpoint(t *testing.T) {
	extractor := &stubExtractor{
		result: &extraction.ExtractedBill{
			Vendor: ptr("Biryani House"),
			Items: []extraction.ExtractedItem{
				{Name: "Biryani", Quantity: ptr(2), Price: ptr(12.0)},
			},
			Subtotal: ptr(24.0),
			Tax:      ptr(2.16),
			Total:    ptr(26.16),
			Currency: ptr("USD"),
		},
	}
	r, store := setupRouter(extractor)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "bill.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write([]byte("fake-jpeg-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload-bill", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		BillID  string `json:"bill_id"`
		Data    struct {
			Vendor string  `json:"vendor"`
			Total  float64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.BillID == "" {
		t.Errorf("unexpected response: %s", w.Body.String())
	}
	if resp.Data.Vendor != "Biryani House" || resp.Data.Total != 26.16 {
		t.Errorf("data mismatch: %+v", resp.Data)
	}

	// The stored bill must be retrievable for the calculation flow.
	if _, err := store.GetBill(context.Background(), resp.BillID); err != nil {
		t.Errorf("uploaded bill not retrievable: %v", err)
	}
}

func TestUploadBillEndpointErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r, _ := setupRouter(&stubExtractor{})

		req := httptest.NewRequest(http.MethodPost, "/upload-bill", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("extraction failure maps to bad gateway", func(t *testing.T) {
		r, _ := setupRouter(&stubExtractor{err: errors.New("vision model down")})

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("image", "bill.jpg")
		part.Write([]byte("bytes"))
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/upload-bill", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("status = %d, want 502", w.Code)
		}
	})
}

func TestGetAndListBills(t *testing.T) {
	r, store := setupRouter(&stubExtractor{})
	bill := seedBill(t, store)

	t.Run("get by id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/"+bill.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp struct {
			ID    string `json:"id"`
			Items []struct {
				Name  string  `json:"name"`
				Price float64 `json:"price"`
			} `json:"items"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != bill.ID || len(resp.Items) != 2 {
			t.Errorf("unexpected bill response: %s", w.Body.String())
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp []json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp) != 1 {
			t.Errorf("list length = %d, want 1", len(resp))
		}
	})
}
