package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/entity"
	"stockbook/internal/domain/documents/writeoff"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// WriteoffHandler serves writeoff documents.
type WriteoffHandler struct {
	BaseHandler
	service *writeoff.Service
}

// NewWriteoffHandler creates a writeoff handler.
func NewWriteoffHandler(service *writeoff.Service) *WriteoffHandler {
	return &WriteoffHandler{service: service}
}

func (h *WriteoffHandler) parseFilter(c *gin.Context) (writeoff.ListFilter, error) {
	filter := writeoff.ListFilter{ListFilter: ParseListFilter(c)}
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

// List returns writeoffs matching the filter.
// GET /api/v1/writeoffs
func (h *WriteoffHandler) List(c *gin.Context) {
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

// Get returns one writeoff with lines.
// GET /api/v1/writeoffs/:id
func (h *WriteoffHandler) Get(c *gin.Context) {
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

// Create creates a draft writeoff.
// POST /api/v1/writeoffs
func (h *WriteoffHandler) Create(c *gin.Context) {
	var req dto.WriteoffRequest
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

// Update updates a draft writeoff. Lines are replaced wholesale.
// PUT /api/v1/writeoffs/:id
func (h *WriteoffHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.WriteoffRequest
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

// Delete deletes a draft writeoff.
// DELETE /api/v1/writeoffs/:id
func (h *WriteoffHandler) Delete(c *gin.Context) {
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

// Post applies the writeoff to the stock ledger.
// POST /api/v1/writeoffs/:id/post
func (h *WriteoffHandler) Post(c *gin.Context) {
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

// Cancel abandons a draft writeoff.
// POST /api/v1/writeoffs/:id/cancel
func (h *WriteoffHandler) Cancel(c *gin.Context) {
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
