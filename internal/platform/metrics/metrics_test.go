package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBankMetrics(t *testing.T) {
	m := Bank()
	assert.Same(t, m, Bank())

	before := testutil.ToFloat64(m.settlements.WithLabelValues("deposit_resource", OutcomeSuccess))
	m.ObserveSettlement("deposit_resource", OutcomeSuccess)
	assert.Equal(t, before+1, testutil.ToFloat64(m.settlements.WithLabelValues("deposit_resource", OutcomeSuccess)))

	m.SetTreasuryBalance(decimal.RequireFromString("50000.5"))
	assert.Equal(t, 50000.5, testutil.ToFloat64(m.treasuryBalance))

	points := testutil.ToFloat64(m.pricePoints)
	m.AddPricePoints(6)
	m.AddPricePoints(0)
	assert.Equal(t, points+6, testutil.ToFloat64(m.pricePoints))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *BankMetrics
	assert.NotPanics(t, func() {
		m.ObserveSettlement("x", OutcomeError)
		m.ObserveBatchFailure("deposit")
		m.SetTreasuryBalance(decimal.Zero)
		m.AddPricePoints(3)
	})
}
