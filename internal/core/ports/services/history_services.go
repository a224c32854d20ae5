package services

import (
	"context"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceHistorySvc records and serves resource price history.
type PriceHistorySvc interface {
	// RecordAll appends one point per resource priced at wealth.
	RecordAll(ctx context.Context, resources []domain.Resource, wealth decimal.Decimal) error

	// Snapshot reads the current economy and records it.
	Snapshot(ctx context.Context) error

	// Query returns the latest points for resource, most recent first. limit is clamped to [1, 100];
	// zero selects the default of 20.
	Query(ctx context.Context, resource string, limit int) ([]domain.PricePoint, error)

	// QueryPage is Query resumable with the nextToken of the previous page. nextToken is
	// empty once a page comes back short.
	QueryPage(ctx context.Context, resource, pageToken string, limit int) (points []domain.PricePoint, nextToken string, err error)

	Clear(ctx context.Context) (int64, error)
}
