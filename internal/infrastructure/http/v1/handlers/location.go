package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/domain/catalogs/location"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// LocationHandler serves the location catalog.
type LocationHandler struct {
	BaseHandler
	service *location.Service
}

// NewLocationHandler creates a location handler.
func NewLocationHandler(service *location.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

// List returns locations of the tenant.
// GET /api/v1/locations
func (h *LocationHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// ListByWarehouse returns locations of one warehouse.
// GET /api/v1/warehouses/:id/locations
func (h *LocationHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	locations, err := h.service.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": locations})
}

// Get returns one location.
// GET /api/v1/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	loc, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, loc)
}

// Create creates a location.
// POST /api/v1/locations
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.LocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc := req.ToEntity(appctx.GetTenantID(c.Request.Context()))
	if err := h.service.Create(c.Request.Context(), loc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, loc)
}

// Update updates a location. The owning warehouse cannot change.
// PUT /api/v1/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.LocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	loc, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(loc)
	if err := h.service.Update(c.Request.Context(), loc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, loc)
}

// Delete soft-deletes a location.
// DELETE /api/v1/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
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
// POST /api/v1/locations/:id/deletion-mark
func (h *LocationHandler) SetDeletionMark(c *gin.Context) {
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
