package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource is a row of the resources table.
type Resource struct {
	Name       string          `db:"name"`
	FloatUnits int64           `db:"float_units"`
	BaseRate   decimal.Decimal `db:"base_rate"`
	AuditFields
}

// PricePoint is a row of the price_history table.
type PricePoint struct {
	ID           int64           `db:"id"`
	ResourceName string          `db:"resource_name"`
	Price        decimal.Decimal `db:"price"`
	RecordedAt   time.Time       `db:"recorded_at"`
}
