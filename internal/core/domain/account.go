package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientAccount is a player's cash account at the bank.
// Name is the unique identity; Balance never goes negative after a committed settlement.
type ClientAccount struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Timestamps
}

// CanCover reports whether the client balance is at least amount.
func (c ClientAccount) CanCover(amount decimal.Decimal) bool {
	return c.Balance.GreaterThanOrEqual(amount)
}

// Treasury is the bank's own singleton cash account.
type Treasury struct {
	Balance       decimal.Decimal `json:"balance"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// CanCover reports whether the treasury balance is at least amount.
func (t Treasury) CanCover(amount decimal.Decimal) bool {
	return t.Balance.GreaterThanOrEqual(amount)
}
