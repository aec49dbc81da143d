// Package numerator provides document auto-numbering backed by
// the sys_sequences table. Sequences are scoped per tenant.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	corenum "stockbook/internal/core/numerator"
	"stockbook/internal/core/id"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps. Suitable for
	// accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps after application restart.
	StrategyCached
)

// Options configures number generation.
type Options struct {
	Strategy Strategy

	// RangeSize is the number of values to reserve at once in
	// Cached strategy. Default is 50.
	RangeSize int64
}

// Querier is the minimal database interface the service needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service generates document numbers. Implements the
// core numerator.Generator interface.
type Service struct {
	querier Querier
	opts    Options

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator service with the Strict strategy.
func New(querier Querier) *Service {
	return NewWithOptions(querier, Options{Strategy: StrategyStrict})
}

// NewWithOptions creates a numerator service with explicit options.
func NewWithOptions(querier Querier, opts Options) *Service {
	return &Service{
		querier: querier,
		opts:    opts,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next returns the next number for a document type, formatted as
// PREFIX-YEAR-NNNNNN (e.g. RCP-2026-000042). Sequences reset per
// the document type's configured period and never collide across
// tenants.
func (s *Service) Next(ctx context.Context, tenantID id.ID, docType string, date time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	cfg := corenum.ConfigFor(docType)
	key := buildKey(cfg, date)

	var (
		num int64
		err error
	)
	switch s.opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, tenantID, key)
	default:
		num, err = s.nextStrict(ctx, tenantID, key)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, date, num), nil
}

// nextStrict fetches the next value from the database with a single
// UPSERT. The row lock taken by the UPDATE serializes concurrent
// callers on the same sequence.
func (s *Service) nextStrict(ctx context.Context, tenantID id.ID, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (tenant_id, key, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (tenant_id, key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, tenantID, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next number for %q: %w", key, err)
	}
	return num, nil
}

// nextCached takes the next value from an in-memory range, reserving
// a new range from the database when the current one is exhausted.
func (s *Service) nextCached(ctx context.Context, tenantID id.ID, key string) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	cacheKey := fmt.Sprintf("%s:%s", tenantID, key)
	rng, ok := s.ranges[cacheKey]
	if !ok {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	if rng.current >= rng.max {
		size := s.opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// current_val holds the last value handed out, so bumping it
		// by size reserves (old_val+1 .. old_val+size) for this process.
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (tenant_id, key, current_val)
            VALUES ($1, $2, $3)
            ON CONFLICT (tenant_id, key) DO UPDATE SET current_val = sys_sequences.current_val + $3
            RETURNING current_val
		`, tenantID, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range for %q: %w", key, err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNext sets the sequence so the next generated value is exactly
// value (used by data migrations).
func (s *Service) SetNext(ctx context.Context, tenantID id.ID, docType string, date time.Time, value int64) error {
	cfg := corenum.ConfigFor(docType)
	key := buildKey(cfg, date)

	var result int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (tenant_id, key, current_val)
        VALUES ($1, $2, $3)
        ON CONFLICT (tenant_id, key) DO UPDATE SET current_val = $3
        RETURNING current_val
	`, tenantID, key, value-1).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, fmt.Sprintf("%s:%s", tenantID, key))
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the sequence key for a config and period.
func buildKey(cfg corenum.Config, period time.Time) string {
	switch cfg.Period {
	case corenum.PeriodMonth:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case corenum.PeriodYear:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func formatNumber(cfg corenum.Config, period time.Time, num int64) string {
	digits := cfg.Digits
	if digits == 0 {
		digits = 6
	}
	return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), digits, num)
}

// ParseNumber extracts the numeric part of a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	var num int64
	if _, err := fmt.Sscanf(formatted, "%*[^-]-%*d-%d", &num); err == nil {
		return num
	}
	return -1
}
