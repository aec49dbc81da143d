package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stockbook/internal/core/id"
)

// MockGenerator is an in-memory Generator for tests.
type MockGenerator struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMockGenerator creates a new MockGenerator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{counters: make(map[string]int64)}
}

// Next returns sequential numbers per tenant + type + year.
func (m *MockGenerator) Next(ctx context.Context, tenantID id.ID, docType string, date time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := ConfigFor(docType)
	key := fmt.Sprintf("%s/%s/%d", tenantID, docType, date.Year())
	m.counters[key]++

	return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, date.Year(), cfg.Digits, m.counters[key]), nil
}
