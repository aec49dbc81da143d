// Package handlers contains HTTP request handlers for the v1 API.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
)

// BaseHandler provides common helpers for all handlers.
// Errors are registered on the gin context; the error middleware writes
// the response body.
type BaseHandler struct{}

// Error registers an error for the error middleware.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindJSON binds the request body, registering a validation error on
// failure. Returns false if binding failed.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").
			WithDetail("error", err.Error()))
		return false
	}
	return true
}

// ParseIDParam parses a path parameter as an ID.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid identifier").
			WithDetail("param", name))
		return id.Nil(), false
	}
	return parsed, true
}

// OK writes a 200 response.
func (h *BaseHandler) OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created writes a 201 response.
func (h *BaseHandler) Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// NoContent writes a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// --- Query parameter helpers ---

// ParseIntQuery parses an integer query parameter with a default.
func ParseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// ParseIDQuery parses an optional ID query parameter.
// Returns an error only when the parameter is present but malformed.
func ParseIDQuery(c *gin.Context, name string) (*id.ID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid identifier").
			WithDetail("param", name)
	}
	return &parsed, nil
}

// ParseTimeQuery parses an optional RFC 3339 time query parameter.
func ParseTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Accept bare dates as well.
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperror.NewValidation("invalid time, use RFC 3339").
				WithDetail("param", name)
		}
	}
	return &t, nil
}

// ParseDecimalQuery parses an optional decimal query parameter.
func ParseDecimalQuery(c *gin.Context, name string) (*types.Quantity, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := types.FromString(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid number").
			WithDetail("param", name)
	}
	return &d, nil
}

// ParseListFilter extracts the common list parameters
// (search, pagination, ordering).
func ParseListFilter(c *gin.Context) domain.ListFilter {
	filter := domain.DefaultListFilter()

	filter.Search = c.Query("search")
	filter.Limit = ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = ParseIntQuery(c, "offset", 0)
	if orderBy := c.Query("orderBy"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if c.Query("includeDeleted") == "true" {
		filter.IncludeDeleted = true
	}

	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter
}
