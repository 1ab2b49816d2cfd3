package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"billsplit/internal/calculator"
	"billsplit/internal/models"
	"billsplit/internal/service"
	"billsplit/internal/storage"
)

// maxImageBytes caps uploaded bill images at 10 MB.
const maxImageBytes = 10 << 20

type handler struct {
	svc *service.ShareService
}

func newHandler(svc *service.ShareService) *handler {
	return &handler{svc: svc}
}

// consumedItemRequest is one selection snapshot from the client. Numeric
// fields are pointers so null survives decoding; they coerce to zero.
type consumedItemRequest struct {
	Name     string   `json:"name"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

type calculateShareRequest struct {
	BillID        string                `json:"bill_id"`
	ConsumedItems []consumedItemRequest `json:"consumed_items"`
}

type shareResponse struct {
	UserSubtotal float64 `json:"user_subtotal"`
	UserTaxShare float64 `json:"user_tax_share"`
	UserTotal    float64 `json:"user_total"`
	BillTotal    float64 `json:"bill_total"`
	Currency     string  `json:"currency"`
}

type billItemResponse struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type billResponse struct {
	ID        string             `json:"id"`
	BillDate  string             `json:"bill_date"`
	Vendor    string             `json:"vendor"`
	Items     []billItemResponse `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	Tax       float64            `json:"tax"`
	Total     float64            `json:"total"`
	Currency  string             `json:"currency"`
	CreatedAt int64              `json:"created_at"`
}

func toBillResponse(bill *models.Bill) billResponse {
	items := make([]billItemResponse, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = billItemResponse{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		}
	}
	return billResponse{
		ID:        bill.ID,
		BillDate:  bill.BillDate,
		Vendor:    bill.Vendor,
		Items:     items,
		Subtotal:  bill.Subtotal,
		Tax:       bill.Tax,
		Total:     bill.Total,
		Currency:  bill.Currency,
		CreatedAt: bill.CreatedAt,
	}
}

// uploadBill handles POST /upload-bill: multipart image in, extracted and
// stored bill out.
func (h *handler) uploadBill(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image file"})
		return
	}

	bill, err := h.svc.UploadBill(c.Request.Context(), image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract bill data from image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bill processed successfully",
		"bill_id": bill.ID,
		"data":    toBillResponse(bill),
	})
}

// calculateShare handles POST /calculate-share.
func (h *handler) calculateShare(c *gin.Context) {
	var req calculateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: bill_id and consumed_items"})
		return
	}
	if req.BillID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: bill_id and consumed_items"})
		return
	}

	consumed := make([]calculator.Selection, len(req.ConsumedItems))
	for i, item := range req.ConsumedItems {
		consumed[i] = calculator.Selection{
			Name:      item.Name,
			Quantity:  intOrZero(item.Quantity),
			UnitPrice: floatOrZero(item.Price),
			Index:     i,
		}
	}

	result, err := h.svc.CalculateShare(c.Request.Context(), req.BillID, consumed)
	switch {
	case errors.Is(err, storage.ErrBillNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	case errors.Is(err, calculator.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select at least one item"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate share"})
		return
	}

	c.JSON(http.StatusOK, shareResponse{
		UserSubtotal: result.UserSubtotal,
		UserTaxShare: result.UserTaxShare,
		UserTotal:    result.UserTotal,
		BillTotal:    result.BillTotal,
		Currency:     result.Currency,
	})
}

// listBills handles GET /bills.
func (h *handler) listBills(c *gin.Context) {
	bills, err := h.svc.ListBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bills"})
		return
	}

	out := make([]billResponse, len(bills))
	for i, bill := range bills {
		out[i] = toBillResponse(bill)
	}
	c.JSON(http.StatusOK, out)
}

// getBill handles GET /bills/:id.
func (h *handler) getBill(c *gin.Context) {
	bill, err := h.svc.GetBill(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrBillNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get bill"})
		return
	}

	c.JSON(http.StatusOK, toBillResponse(bill))
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
