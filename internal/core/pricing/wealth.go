package pricing

import (
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TotalWealth sums the treasury and all client balances, truncates toward zero and
// clamps the result below by floor so prices stay finite in an empty economy.
func TotalWealth(clients []domain.ClientAccount, treasury domain.Treasury, floor decimal.Decimal) decimal.Decimal {
	total := treasury.Balance
	for _, c := range clients {
		total = total.Add(c.Balance)
	}
	total = total.Truncate(0)
	if total.LessThan(floor) {
		return floor
	}
	return total
}

// TotalWealth applies the engine's configured wealth floor.
func (e *Engine) TotalWealth(clients []domain.ClientAccount, treasury domain.Treasury) decimal.Decimal {
	return TotalWealth(clients, treasury, e.cfg.MinTotalWealth)
}
