package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ResourceReader defines read operations for resources.
type ResourceReader interface {
	// ListResources returns every resource ordered by name.
	ListResources(ctx context.Context) ([]domain.Resource, error)
	FindResource(ctx context.Context, name string) (*domain.Resource, error)
}

// ResourceTx locks and mutates resources inside a unit of work.
type ResourceTx interface {
	ResourceForUpdate(ctx context.Context, name string) (*domain.Resource, error)
	ListResources(ctx context.Context) ([]domain.Resource, error)

	// SaveResource inserts a resource with its base rate; an existing name yields apperrors.ErrDuplicate.
	SaveResource(ctx context.Context, resource domain.Resource) error
	UpdateResourceFloat(ctx context.Context, name string, float int64, now time.Time) error
	UpdateResourceRate(ctx context.Context, name string, rate decimal.Decimal, now time.Time) error
	DeleteResource(ctx context.Context, name string) error
}

// ResourceRepositoryFacade combines the resource-related repository interfaces.
type ResourceRepositoryFacade interface {
	ResourceReader
}
