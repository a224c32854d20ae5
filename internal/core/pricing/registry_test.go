package pricing_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRegistry_SetLookupRemove(t *testing.T) {
	r := pricing.NewRateRegistry(domain.RateEntry{Resource: "Diamond", Rate: d("1")})

	require.NoError(t, r.Set("Gold Ingot", d("8")))
	rate, ok := r.Lookup("Gold Ingot")
	assert.True(t, ok)
	assertDecimalEqual(t, d("8"), rate)

	assert.True(t, r.Remove("Gold Ingot"))
	assert.False(t, r.Remove("Gold Ingot"))
	_, ok = r.Lookup("Gold Ingot")
	assert.False(t, ok)
	assertDecimalEqual(t, pricing.DefaultRate, r.Rate("Gold Ingot"))
}

func TestRateRegistry_RejectsNonPositiveRates(t *testing.T) {
	r := pricing.NewRateRegistry()

	for _, rate := range []string{"0", "-2"} {
		err := r.Set("Diamond", d(rate))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
	_, ok := r.Lookup("Diamond")
	assert.False(t, ok)
}

func TestRateRegistry_EntriesSortedAndReplace(t *testing.T) {
	r := pricing.NewRateRegistry(
		domain.RateEntry{Resource: "Redstone", Rate: d("128")},
		domain.RateEntry{Resource: "Diamond", Rate: d("1")},
	)

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Diamond", entries[0].Resource)
	assert.Equal(t, "Redstone", entries[1].Resource)

	r.Replace([]domain.RateEntry{{Resource: "Ender Pearl", Rate: d("2")}})
	entries = r.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Ender Pearl", entries[0].Resource)
}

func TestRateRegistry_ConcurrentAccess(t *testing.T) {
	r := pricing.NewRateRegistry()
	e := pricing.NewEngine(pricing.DefaultConfig(), r)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("res-%d", i%4)
			for j := 1; j <= 100; j++ {
				_ = r.Set(name, d(fmt.Sprintf("%d", j)))
				_ = e.UnitPrice(name, int64(j), d("5000"))
				r.Remove(name)
			}
		}(i)
	}
	wg.Wait()
}
