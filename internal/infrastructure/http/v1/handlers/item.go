package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	appctx "stockbook/internal/core/context"
	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ItemHandler serves the item catalog.
type ItemHandler struct {
	BaseHandler
	service *item.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(service *item.Service) *ItemHandler {
	return &ItemHandler{service: service}
}

// List returns items of the tenant. With a categoryId parameter the
// result is the items of that category, unpaginated.
// GET /api/v1/items
func (h *ItemHandler) List(c *gin.Context) {
	categoryID, err := ParseIDQuery(c, "categoryId")
	if err != nil {
		h.Error(c, err)
		return
	}

	if categoryID != nil {
		items, err := h.service.ListByCategory(c.Request.Context(), *categoryID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, gin.H{"items": items})
		return
	}

	result, err := h.service.List(c.Request.Context(), ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get returns one item.
// GET /api/v1/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// GetByBarcode looks up an item by barcode.
// GET /api/v1/items/barcode/:barcode
func (h *ItemHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		h.Error(c, apperror.NewValidation("barcode is required"))
		return
	}

	it, err := h.service.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Create creates an item.
// POST /api/v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := req.ToEntity(appctx.GetTenantID(c.Request.Context()))
	if err := h.service.Create(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it)
}

// Update updates an item.
// PUT /api/v1/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(it)
	if err := h.service.Update(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Delete soft-deletes an item.
// DELETE /api/v1/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// SetDeletionMark sets or clears the deletion mark.
// POST /api/v1/items/:id/deletion-mark
func (h *ItemHandler) SetDeletionMark(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), entityID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true})
}
