// Package pricing derives resource prices from economy wealth and treasury float,
// and computes settlement amounts for resource deposits and withdrawals.
package pricing

import (
	"fmt"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositCommissionFactor is the share of the spot value paid to a client who deposits
// resources; the bank keeps the remaining 5%.
var DepositCommissionFactor = decimal.RequireFromString("0.95")

// Config holds the economy constants the engine prices against.
type Config struct {
	BaseReferencePrice  decimal.Decimal // Value of one reference unit (rate 1 resource)
	MarketNormalization decimal.Decimal // Divisor applied to total wealth
	MinTotalWealth      decimal.Decimal // Wealth floor
	InverseQueryCap     int64           // Iteration ceiling for inverse queries
}

// DefaultConfig returns the stock economy constants.
func DefaultConfig() Config {
	return Config{
		BaseReferencePrice:  decimal.NewFromInt(10),
		MarketNormalization: decimal.NewFromInt(100),
		MinTotalWealth:      decimal.NewFromInt(1000),
		InverseQueryCap:     100000,
	}
}

// InverseQuote is the answer to "how many units" questions.
// CapacityExceeded is set when the search stopped at the iteration ceiling; Units and
// Amount then hold the best value found.
type InverseQuote struct {
	Units            int64           `json:"units"`
	Amount           decimal.Decimal `json:"amount"`
	CapacityExceeded bool            `json:"capacityExceeded"`
}

// Engine prices resources. Rate lookups go through the registry on every call.
type Engine struct {
	cfg   Config
	rates *RateRegistry
}

// NewEngine creates an Engine over the given registry.
func NewEngine(cfg Config, rates *RateRegistry) *Engine {
	if cfg.InverseQueryCap <= 0 {
		cfg.InverseQueryCap = DefaultConfig().InverseQueryCap
	}
	return &Engine{cfg: cfg, rates: rates}
}

// Config returns the engine's constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Rates returns the registry the engine reads.
func (e *Engine) Rates() *RateRegistry {
	return e.rates
}

// scale is the float-independent part of the price:
// (wealth / normalization) * (basePrice / rate).
func (e *Engine) scale(name string, wealth decimal.Decimal) decimal.Decimal {
	rate := e.rates.Rate(name)
	return wealth.Mul(e.cfg.BaseReferencePrice).Div(e.cfg.MarketNormalization.Mul(rate))
}

func priceAt(scale decimal.Decimal, float int64) decimal.Decimal {
	if float < 1 {
		float = 1
	}
	return scale.Div(decimal.NewFromInt(float))
}

// UnitPrice is the instantaneous price of one unit of name at the given float and wealth.
// It decreases as the float grows and increases with wealth.
func (e *Engine) UnitPrice(name string, float int64, wealth decimal.Decimal) decimal.Decimal {
	return priceAt(e.scale(name, wealth), float)
}

// DepositSettlement is what a client earns for adding units to the treasury float.
// All units are priced at the pre-transaction spot price, less commission.
func (e *Engine) DepositSettlement(name string, float, units int64, wealth decimal.Decimal) decimal.Decimal {
	return e.UnitPrice(name, float, wealth).
		Mul(decimal.NewFromInt(units)).
		Mul(DepositCommissionFactor)
}

// CheckWithdrawUnits rejects withdrawals larger than InverseQueryCap. WithdrawSettlement
// prices every unit separately.
func (e *Engine) CheckWithdrawUnits(units int64) error {
	if units > e.cfg.InverseQueryCap {
		return fmt.Errorf("%w: withdrawals are limited to %d units, requested %d", apperrors.ErrCapacityExceeded, e.cfg.InverseQueryCap, units)
	}
	return nil
}

// WithdrawSettlement is what a client pays for taking units out of the float.
// Each unit is priced against the float left after the previous one, so the caller
// must ensure units <= float and CheckWithdrawUnits.
func (e *Engine) WithdrawSettlement(name string, float, units int64, wealth decimal.Decimal) decimal.Decimal {
	s := e.scale(name, wealth)
	cost := decimal.Zero
	for i := int64(0); i < units; i++ {
		cost = cost.Add(priceAt(s, float-i))
	}
	return cost
}

// Prices computes the spot price of every resource.
func (e *Engine) Prices(resources []domain.Resource, wealth decimal.Decimal) []domain.ResourcePrice {
	out := make([]domain.ResourcePrice, 0, len(resources))
	for _, r := range resources {
		out = append(out, domain.ResourcePrice{
			Name:  r.Name,
			Price: e.UnitPrice(r.Name, r.Float, wealth),
			Float: r.Float,
		})
	}
	return out
}

// DepositUnitsForTarget finds the fewest units whose deposit settlement reaches target.
// Deposits are flat-rate, so the answer is solved directly and then nudged across
// rounding boundaries; the cap still bounds the result.
func (e *Engine) DepositUnitsForTarget(name string, float int64, target, wealth decimal.Decimal) InverseQuote {
	if !target.IsPositive() {
		return InverseQuote{Amount: decimal.Zero}
	}

	perUnit := e.UnitPrice(name, float, wealth).Mul(DepositCommissionFactor)
	if !perUnit.IsPositive() {
		return e.depositCapped(name, float, wealth)
	}

	estimate := target.Div(perUnit).Ceil()
	capUnits := decimal.NewFromInt(e.cfg.InverseQueryCap)
	if estimate.GreaterThan(capUnits) {
		return e.depositCapped(name, float, wealth)
	}

	units := estimate.IntPart()
	if units < 1 {
		units = 1
	}
	for units < e.cfg.InverseQueryCap && e.DepositSettlement(name, float, units, wealth).LessThan(target) {
		units++
	}
	for units > 1 && e.DepositSettlement(name, float, units-1, wealth).GreaterThanOrEqual(target) {
		units--
	}

	earned := e.DepositSettlement(name, float, units, wealth)
	if earned.LessThan(target) {
		return e.depositCapped(name, float, wealth)
	}
	return InverseQuote{Units: units, Amount: earned}
}

func (e *Engine) depositCapped(name string, float int64, wealth decimal.Decimal) InverseQuote {
	return InverseQuote{
		Units:            e.cfg.InverseQueryCap,
		Amount:           e.DepositSettlement(name, float, e.cfg.InverseQueryCap, wealth),
		CapacityExceeded: true,
	}
}

// WithdrawUnitsForBudget finds the most units (never more than the float) whose
// withdraw settlement fits in budget. Marginal prices are accumulated in a single pass.
func (e *Engine) WithdrawUnitsForBudget(name string, float int64, budget, wealth decimal.Decimal) InverseQuote {
	quote := InverseQuote{Amount: decimal.Zero}
	if budget.IsNegative() {
		return quote
	}

	s := e.scale(name, wealth)
	for quote.Units < float {
		if quote.Units >= e.cfg.InverseQueryCap {
			quote.CapacityExceeded = true
			break
		}
		next := quote.Amount.Add(priceAt(s, float-quote.Units))
		if next.GreaterThan(budget) {
			break
		}
		quote.Amount = next
		quote.Units++
	}
	return quote
}
