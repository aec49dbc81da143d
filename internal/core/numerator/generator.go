// Package numerator defines the contract for document number generation.
// The implementation lives in pkg/numerator.
package numerator

import (
	"context"
	"time"

	"stockbook/internal/core/id"
)

// Generator produces sequential document numbers, unique within
// tenant + document type + period.
type Generator interface {
	// Next returns the next number for the given document type,
	// formatted per the type's configuration (e.g. "RCP-2026-000042").
	Next(ctx context.Context, tenantID id.ID, docType string, date time.Time) (string, error)
}
