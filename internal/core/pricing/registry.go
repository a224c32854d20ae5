package pricing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultRate is applied to resources the registry does not know about.
var DefaultRate = decimal.NewFromInt(1)

// RateRegistry holds the base exchange rate of every known resource.
// Lookups observe the latest write; it is safe for concurrent use.
type RateRegistry struct {
	mu    sync.RWMutex
	rates map[string]decimal.Decimal
}

// NewRateRegistry creates a registry pre-populated with entries.
func NewRateRegistry(entries ...domain.RateEntry) *RateRegistry {
	r := &RateRegistry{rates: make(map[string]decimal.Decimal, len(entries))}
	for _, e := range entries {
		r.rates[e.Resource] = e.Rate
	}
	return r
}

// Rate returns the base rate for name, falling back to DefaultRate for unknown names.
func (r *RateRegistry) Rate(name string) decimal.Decimal {
	if rate, ok := r.Lookup(name); ok {
		return rate
	}
	return DefaultRate
}

// Lookup returns the base rate for name and whether it is registered.
func (r *RateRegistry) Lookup(name string) (decimal.Decimal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.rates[name]
	return rate, ok
}

// Set registers or replaces the base rate for name. The rate must be positive.
func (r *RateRegistry) Set(name string, rate decimal.Decimal) error {
	if err := ValidateRate(rate); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[name] = rate
	return nil
}

// Remove drops name from the registry and reports whether it was present.
func (r *RateRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rates[name]
	delete(r.rates, name)
	return ok
}

// Replace swaps the whole table, e.g. after loading resources from storage.
func (r *RateRegistry) Replace(entries []domain.RateEntry) {
	rates := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		rates[e.Resource] = e.Rate
	}
	r.mu.Lock()
	r.rates = rates
	r.mu.Unlock()
}

// Entries returns a name-ordered copy of the table.
func (r *RateRegistry) Entries() []domain.RateEntry {
	r.mu.RLock()
	entries := make([]domain.RateEntry, 0, len(r.rates))
	for name, rate := range r.rates {
		entries = append(entries, domain.RateEntry{Resource: name, Rate: rate})
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
	return entries
}

// ValidateRate rejects zero and negative base rates.
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("%w: base rate must be positive, got %s", apperrors.ErrValidation, rate.String())
	}
	return nil
}
