package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDepositMappingKeepsNullableClosedAt(t *testing.T) {
	open := domain.Deposit{DepositID: "d1", Status: domain.DepositActive, Amount: decimal.NewFromInt(5)}
	m := ToModelDeposit(open)
	assert.Nil(t, m.ClosedAt)
	assert.Equal(t, "ACTIVE", m.Status)

	closedAt := time.Now()
	open.ClosedAt = &closedAt
	open.Status = domain.DepositMatured
	back := ToDomainDeposit(ToModelDeposit(open))
	assert.Equal(t, domain.DepositMatured, back.Status)
	assert.Equal(t, &closedAt, back.ClosedAt)
}

func TestResourceMappingRenamesFloat(t *testing.T) {
	m := ToModelResource(domain.Resource{Name: "Diamond", Float: 127, BaseRate: decimal.NewFromInt(1)})
	assert.Equal(t, int64(127), m.FloatUnits)
	assert.Equal(t, int64(127), ToDomainResource(m).Float)
}
