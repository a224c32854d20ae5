package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource is a fungible good the treasury holds a float of.
type Resource struct {
	Name     string          `json:"name"`
	Float    int64           `json:"float"`    // Units currently held by the treasury
	BaseRate decimal.Decimal `json:"baseRate"` // Units of resource per reference unit
	Timestamps
}

// RateEntry maps a resource to its base exchange rate.
type RateEntry struct {
	Resource string          `json:"resource"`
	Rate     decimal.Decimal `json:"rate"`
}

// ResourcePrice is a resource's instantaneous unit price at a given float.
type ResourcePrice struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Float int64           `json:"float"`
}

// PricePoint is an immutable observation in a resource's price history.
type PricePoint struct {
	ID           int64           `json:"id"`
	ResourceName string          `json:"resourceName"`
	Price        decimal.Decimal `json:"price"`
	Timestamp    time.Time       `json:"timestamp"`
}
