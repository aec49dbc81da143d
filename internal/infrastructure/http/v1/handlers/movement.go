package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "stockbook/internal/core/context"
	"stockbook/internal/core/entity"
	"stockbook/internal/domain/documents/movement"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves movement documents.
type MovementHandler struct {
	BaseHandler
	service *movement.Service
}

// NewMovementHandler creates a movement handler.
func NewMovementHandler(service *movement.Service) *MovementHandler {
	return &MovementHandler{service: service}
}

func (h *MovementHandler) parseFilter(c *gin.Context) (movement.ListFilter, error) {
	filter := movement.ListFilter{ListFilter: ParseListFilter(c)}
	if filter.OrderBy == "name" {
		filter.OrderBy = ""
	}

	if movementType := c.Query("type"); movementType != "" {
		t := movement.Type(movementType)
		filter.Type = &t
	}

	warehouseFromID, err := ParseIDQuery(c, "warehouseFromId")
	if err != nil {
		return filter, err
	}
	filter.WarehouseFromID = warehouseFromID

	warehouseToID, err := ParseIDQuery(c, "warehouseToId")
	if err != nil {
		return filter, err
	}
	filter.WarehouseToID = warehouseToID

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

// List returns movements matching the filter.
// GET /api/v1/movements
func (h *MovementHandler) List(c *gin.Context) {
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

// Get returns one movement with lines.
// GET /api/v1/movements/:id
func (h *MovementHandler) Get(c *gin.Context) {
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

// Create creates a draft movement.
// POST /api/v1/movements
func (h *MovementHandler) Create(c *gin.Context) {
	var req dto.MovementRequest
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

// Update updates a draft movement. Lines are replaced wholesale.
// PUT /api/v1/movements/:id
func (h *MovementHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.MovementRequest
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

// Delete deletes a draft movement.
// DELETE /api/v1/movements/:id
func (h *MovementHandler) Delete(c *gin.Context) {
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

// Post applies the movement to the stock ledger.
// POST /api/v1/movements/:id/post
func (h *MovementHandler) Post(c *gin.Context) {
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

// Cancel abandons a draft movement.
// POST /api/v1/movements/:id/cancel
func (h *MovementHandler) Cancel(c *gin.Context) {
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
