package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a row of the clients table.
type Client struct {
	Name    string          `db:"name"`
	Balance decimal.Decimal `db:"balance"`
	AuditFields
}

// Treasury is the single row of the treasury table.
type Treasury struct {
	Balance       decimal.Decimal `db:"balance"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}
