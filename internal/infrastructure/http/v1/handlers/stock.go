package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

// StockHandler serves stock ledger queries and reports.
type StockHandler struct {
	BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(service *ledger.Service) *StockHandler {
	return &StockHandler{service: service}
}

// GetCell returns the current state of one cell.
// GET /api/v1/stock/cell?warehouseId=&locationId=&itemId=
func (h *StockHandler) GetCell(c *gin.Context) {
	var keys [3]id.ID
	for i, name := range []string{"warehouseId", "locationId", "itemId"} {
		parsed, err := ParseIDQuery(c, name)
		if err != nil {
			h.Error(c, err)
			return
		}
		if parsed == nil {
			h.Error(c, apperror.NewValidation("missing required parameter").
				WithDetail("param", name))
			return
		}
		keys[i] = *parsed
	}

	cell, err := h.service.GetCell(c.Request.Context(), keys[0], keys[1], keys[2])
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cell)
}

// GetWarehouseStock returns the cells of a warehouse.
// GET /api/v1/stock/warehouses/:id
func (h *StockHandler) GetWarehouseStock(c *gin.Context) {
	warehouseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var filter ledger.CellFilter

	locationID, err := ParseIDQuery(c, "locationId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.LocationID = locationID

	if raw := c.Query("itemIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			itemID, err := id.Parse(strings.TrimSpace(part))
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid identifier").
					WithDetail("param", "itemIds"))
				return
			}
			filter.ItemIDs = append(filter.ItemIDs, itemID)
		}
	}

	cells, err := h.service.GetWarehouseStock(c.Request.Context(), warehouseID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": cells})
}

// GetItemStock returns per-cell stock of an item plus the total.
// GET /api/v1/stock/items/:id
func (h *StockHandler) GetItemStock(c *gin.Context) {
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cells, err := h.service.GetItemStock(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	total := types.Zero()
	for _, cell := range cells {
		total = total.Add(cell.Quantity)
	}

	h.OK(c, gin.H{
		"itemId": itemID,
		"total":  total,
		"cells":  cells,
	})
}

// GetHistory returns movement journal records, newest first.
// GET /api/v1/stock/history
func (h *StockHandler) GetHistory(c *gin.Context) {
	var (
		filter ledger.HistoryFilter
		err    error
	)

	if filter.WarehouseID, err = ParseIDQuery(c, "warehouseId"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.LocationID, err = ParseIDQuery(c, "locationId"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.ItemID, err = ParseIDQuery(c, "itemId"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.FromDate, err = ParseTimeQuery(c, "dateFrom"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.ToDate, err = ParseTimeQuery(c, "dateTo"); err != nil {
		h.Error(c, err)
		return
	}

	filter.Limit = ParseIntQuery(c, "limit", 100)
	filter.Offset = ParseIntQuery(c, "offset", 0)

	records, err := h.service.GetHistory(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": records})
}

// GetDocumentMovements returns the journal records a document produced.
// GET /api/v1/stock/documents/:id/movements
func (h *StockHandler) GetDocumentMovements(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	records, err := h.service.GetDocumentMovements(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": records})
}

// GetLowStock returns cells at or below their alert threshold.
// GET /api/v1/stock/low
func (h *StockHandler) GetLowStock(c *gin.Context) {
	warehouseID, err := ParseIDQuery(c, "warehouseId")
	if err != nil {
		h.Error(c, err)
		return
	}

	threshold := types.Zero()
	if t, err := ParseDecimalQuery(c, "threshold"); err != nil {
		h.Error(c, err)
		return
	} else if t != nil {
		threshold = *t
	}

	cells, err := h.service.GetLowStock(c.Request.Context(), warehouseID, threshold)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": cells})
}

// GetTurnover returns receipt/expense totals for a period.
// GET /api/v1/stock/turnover?dateFrom=&dateTo=
func (h *StockHandler) GetTurnover(c *gin.Context) {
	var (
		filter ledger.TurnoverFilter
		err    error
	)

	if filter.WarehouseID, err = ParseIDQuery(c, "warehouseId"); err != nil {
		h.Error(c, err)
		return
	}
	if filter.ItemID, err = ParseIDQuery(c, "itemId"); err != nil {
		h.Error(c, err)
		return
	}

	from, err := ParseTimeQuery(c, "dateFrom")
	if err != nil {
		h.Error(c, err)
		return
	}
	to, err := ParseTimeQuery(c, "dateTo")
	if err != nil {
		h.Error(c, err)
		return
	}
	if from == nil || to == nil {
		h.Error(c, apperror.NewValidation("dateFrom and dateTo are required"))
		return
	}
	filter.FromDate = *from
	filter.ToDate = *to

	turnover, err := h.service.GetTurnover(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, turnover)
}
