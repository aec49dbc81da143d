// Package dto defines request and response bodies for the v1 API.
// Responses reuse domain entities directly; their JSON tags already
// hide internal fields. Requests get dedicated types so clients cannot
// set server-owned fields like id, tenantId, or status.
package dto

import "stockbook/internal/core/id"

// IDResponse returns the identifier of a created entity.
type IDResponse struct {
	ID id.ID `json:"id"`
}

// SuccessResponse is a generic acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SetDeletionMarkRequest sets or clears the soft-delete mark.
type SetDeletionMarkRequest struct {
	Marked bool `json:"marked"`
}
