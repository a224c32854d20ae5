package repositories

import (
	"context"

	"github.com/SscSPs/resource_bank/internal/core/domain"
)

// PriceHistoryRepository stores the append-only price history.
type PriceHistoryRepository interface {
	// AppendPricePoints stores points in one batch. IDs are assigned by the store.
	AppendPricePoints(ctx context.Context, points []domain.PricePoint) error

	// ListPriceHistory returns at most limit points for resourceName, most recent first.
	// A positive beforeID restricts the result to points older than that id.
	ListPriceHistory(ctx context.Context, resourceName string, beforeID int64, limit int) ([]domain.PricePoint, error)

	// ClearPriceHistory deletes every point and returns how many were removed.
	ClearPriceHistory(ctx context.Context) (int64, error)
}
