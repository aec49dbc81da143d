package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/domain/catalogs/category"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	BaseHandler
	service *category.Service
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List returns categories of the tenant.
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	filter := ParseListFilter(c)

	parentID, err := ParseIDQuery(c, "parentId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.ParentID = parentID

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// GetChildren returns direct children of a category, or roots when the
// parentId query parameter is absent.
// GET /api/v1/categories/children
func (h *CategoryHandler) GetChildren(c *gin.Context) {
	parentID, err := ParseIDQuery(c, "parentId")
	if err != nil {
		h.Error(c, err)
		return
	}

	children, err := h.service.GetChildren(c.Request.Context(), parentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": children})
}

// Get returns one category.
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cat)
}

// Create creates a category.
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat := req.ToEntity(appctx.GetTenantID(c.Request.Context()))
	if err := h.service.Create(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, cat)
}

// Update updates a category.
// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	entityID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cat, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(cat)
	if err := h.service.Update(c.Request.Context(), cat); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cat)
}

// Delete soft-deletes a category.
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
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
// POST /api/v1/categories/:id/deletion-mark
func (h *CategoryHandler) SetDeletionMark(c *gin.Context) {
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
