package handler

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"poscan/internal/domain"
	"poscan/internal/export"
	"poscan/internal/service"
)

// OrderHandler handles the purchase-order endpoints.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Upload handles POST /api/purchase-orders/upload: a single multipart
// "file" field carrying the PDF.
func (h *OrderHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "No PDF uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "reading uploaded file failed")
		return
	}

	rec, err := h.orders.Process(c.Request.Context(), &service.ProcessInput{
		Data:        data,
		FileName:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// List handles GET /api/purchase-orders.
func (h *OrderHandler) List(c *gin.Context) {
	records, err := h.orders.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if records == nil {
		records = []domain.PurchaseOrderRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Update handles PATCH /api/purchase-orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "reading request body failed")
		return
	}

	rec, err := h.orders.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Export handles GET /api/purchase-orders/export?format=csv|xlsx and
// streams the same capped list the List endpoint serves.
func (h *OrderHandler) Export(c *gin.Context) {
	records, err := h.orders.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, records); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="purchase-orders-`+stamp+`.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		data, err := export.WriteXLSX(records)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="purchase-orders-`+stamp+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		respondMessage(c, http.StatusBadRequest, "unsupported export format; allowed: csv, xlsx")
	}
}

// Source handles GET /api/purchase-orders/:id/source and returns a
// presigned link to the archived source PDF.
func (h *OrderHandler) Source(c *gin.Context) {
	url, err := h.orders.SourceURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
