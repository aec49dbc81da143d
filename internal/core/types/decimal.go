// Package types provides the numeric types shared by the ledger and documents.
package types

import (
	"github.com/shopspring/decimal"
)

// Quantity is a stock quantity. Stored with QuantityScale decimal places.
// decimal.Decimal avoids the floating-point drift that plagued repeated
// balance updates.
type Quantity = decimal.Decimal

// Cost is a per-unit monetary cost. Stored with CostScale decimal places.
type Cost = decimal.Decimal

const (
	// QuantityScale is the stored precision for quantities (NUMERIC(15,3)).
	QuantityScale int32 = 3

	// CostScale is the stored precision for unit costs (NUMERIC(15,2)).
	CostScale int32 = 2
)

// RoundQuantity applies the single rounding policy for stored quantities.
// Every mutation site must round through here before persisting, so that
// precision cannot drift across many postings.
//
// decimal.Round rounds half away from zero; ledger values are never
// negative, so this is round-half-up.
func RoundQuantity(q Quantity) Quantity {
	return q.Round(QuantityScale)
}

// RoundCost applies the single rounding policy for stored unit costs.
func RoundCost(c Cost) Cost {
	return c.Round(CostScale)
}

// Zero returns the zero decimal value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// FromString parses a decimal from its string form.
// This is the preferred constructor for exact values.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal, panicking on error.
// Use only for constants and tests.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromFloat converts a float to decimal.
// Prefer FromString for values that must be exact.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
