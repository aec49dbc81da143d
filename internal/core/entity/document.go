package entity

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/id"
)

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	// StatusDraft: initial state; the document is mutable and deletable.
	StatusDraft DocumentStatus = "draft"

	// StatusPosted: the document's effects are applied to the ledger.
	// Terminal: posted documents are immutable and cannot be deleted.
	StatusPosted DocumentStatus = "posted"

	// StatusCancelled: the draft was abandoned without touching the ledger.
	// Terminal.
	StatusCancelled DocumentStatus = "cancelled"
)

// CanTransitionTo reports whether the one-way lifecycle permits the move.
// No state ever transitions back to draft.
func (s DocumentStatus) CanTransitionTo(to DocumentStatus) bool {
	return s == StatusDraft && (to == StatusPosted || to == StatusCancelled)
}

// Document is the base type for business transactions
// (Receipt, Writeoff, Movement).
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within
	// tenant + type + period)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status is the lifecycle state (draft -> posted | cancelled)
	Status DocumentStatus `db:"status" json:"status"`

	// Note is an optional user comment
	Note string `db:"note" json:"note,omitempty"`
}

// NewDocument creates a new draft Document with generated ID.
func NewDocument(tenantID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(tenantID),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
	}
}

// Validate implements the Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.TenantID) {
		return apperror.NewValidation("tenant is required").
			WithDetail("field", "tenantId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// CanModify checks if the document can be modified or deleted.
// Only drafts are mutable.
func (d *Document) CanModify() error {
	switch d.Status {
	case StatusDraft:
		return nil
	case StatusPosted:
		return apperror.NewAlreadyPosted(d.ID.String())
	default:
		return apperror.NewInvalidState(d.ID.String(), string(d.Status))
	}
}

// MarkPosted transitions the document to posted.
func (d *Document) MarkPosted() {
	d.Status = StatusPosted
	d.Touch()
}

// MarkCancelled transitions the document to cancelled.
func (d *Document) MarkCancelled() error {
	if !d.Status.CanTransitionTo(StatusCancelled) {
		return apperror.NewInvalidState(d.ID.String(), string(d.Status))
	}
	d.Status = StatusCancelled
	d.Touch()
	return nil
}

// --- Postable interface default implementations ---
// Document-specific types only need to implement GetDocumentType() and
// CellOperations().

// GetID returns the document ID.
func (d *Document) GetID() id.ID {
	return d.ID
}

// GetTenantID returns the owning tenant.
func (d *Document) GetTenantID() id.ID {
	return d.TenantID
}

// GetNumber returns the document number.
func (d *Document) GetNumber() string {
	return d.Number
}

// GetDate returns the business date.
func (d *Document) GetDate() time.Time {
	return d.Date
}

// GetStatus returns the current lifecycle state.
func (d *Document) GetStatus() DocumentStatus {
	return d.Status
}

// CanPost validates if the document can be posted.
// Override in specific document types if additional validation is needed.
func (d *Document) CanPost(ctx context.Context) error {
	return d.Validate(ctx)
}
