package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/domain/catalogs/warehouse"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// WarehouseHandler serves the warehouse catalog.
type WarehouseHandler struct {
	BaseHandler
	service *warehouse.Service
}

// NewWarehouseHandler creates a warehouse handler.
func NewWarehouseHandler(service *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{service: service}
}

// List returns warehouses of the tenant.
// GET /api/v1/warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get returns one warehouse.
// GET /api/v1/warehouses/:id
func (h *WarehouseHandler) Get(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, wh)
}

// Create creates a warehouse.
// POST /api/v1/warehouses
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.WarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh := req.ToEntity(appctx.GetTenantID(c.Request.Context()))
	if err := h.service.Create(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, wh)
}

// Update updates a warehouse.
// PUT /api/v1/warehouses/:id
func (h *WarehouseHandler) Update(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.WarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	wh, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(wh)
	if err := h.service.Update(c.Request.Context(), wh); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, wh)
}

// Delete soft-deletes a warehouse.
// DELETE /api/v1/warehouses/:id
func (h *WarehouseHandler) Delete(c *gin.Context) {
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
// POST /api/v1/warehouses/:id/deletion-mark
func (h *WarehouseHandler) SetDeletionMark(c *gin.Context) {
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
