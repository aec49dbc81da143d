package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/entity"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler serves receipt documents.
type ReceiptHandler struct {
	BaseHandler
	service *receipt.Service
}

// NewReceiptHandler creates a receipt handler.
func NewReceiptHandler(service *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

func (h *ReceiptHandler) parseFilter(c *gin.Context) (receipt.ListFilter, error) {
	filter := receipt.ListFilter{ListFilter: ParseListFilter(c)}
	if filter.OrderBy == "name" {
		filter.OrderBy = ""
	}

	warehouseID, err := ParseIDQuery(c, "warehouseId")
	if err != nil {
		return filter, err
	}
	filter.WarehouseID = warehouseID

	if status := c.Query("status"); status != "" {
		s := entity.DocumentStatus(status)
		filter.Status = &s
	}

	if filter.DateFrom, err = ParseTimeQuery(c, "dateFrom"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = ParseTimeQuery(c, "dateTo"); err != nil {
		return filter, err
	}

	return filter, nil
}

// List returns receipts matching the filter.
// GET /api/v1/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get returns one receipt with lines.
// GET /api/v1/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create creates a draft receipt.
// POST /api/v1/receipts
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req dto.ReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity(appctx.GetTenantID(c.Request.Context()))
	doc.CreatedBy = appctx.GetUserID(c.Request.Context())

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Update updates a draft receipt. Lines are replaced wholesale.
// PUT /api/v1/receipts/:id
func (h *ReceiptHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)
	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete deletes a draft receipt.
// DELETE /api/v1/receipts/:id
func (h *ReceiptHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Post applies the receipt to the stock ledger.
// POST /api/v1/receipts/:id/post
func (h *ReceiptHandler) Post(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Post(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Cancel abandons a draft receipt.
// POST /api/v1/receipts/:id/cancel
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}
