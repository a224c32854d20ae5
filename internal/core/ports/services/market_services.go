package services

import (
	"context"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MarketReaderSvc defines price and quote operations. None of them mutate state.
type MarketReaderSvc interface {
	// ListPrices returns the spot price of every resource at current wealth.
	ListPrices(ctx context.Context) ([]domain.ResourcePrice, error)

	// QuoteDeposit prices depositing units of resource.
	QuoteDeposit(ctx context.Context, resource string, units int64) (*domain.Quote, error)

	// QuoteWithdraw prices withdrawing units of resource. Units beyond the float are rejected.
	QuoteWithdraw(ctx context.Context, resource string, units int64) (*domain.Quote, error)

	// QuoteDepositUnits finds the fewest units whose deposit earns at least target.
	QuoteDepositUnits(ctx context.Context, resource string, target decimal.Decimal) (*domain.Quote, error)

	// QuoteWithdrawUnits finds the most units whose withdrawal costs at most budget.
	QuoteWithdrawUnits(ctx context.Context, resource string, budget decimal.Decimal) (*domain.Quote, error)
}

// MarketSettlementSvc executes resource settlements between a client and the treasury.
type MarketSettlementSvc interface {
	DepositResource(ctx context.Context, clientName, resource string, units int64) (*domain.Settlement, error)
	WithdrawResource(ctx context.Context, clientName, resource string, units int64) (*domain.Settlement, error)
}

// MarketAdminSvc manages resources and their base rates.
type MarketAdminSvc interface {
	SetResourceFloat(ctx context.Context, resource string, float int64) (*domain.Resource, error)
	AddResource(ctx context.Context, name string, float int64, rate decimal.Decimal) (*domain.Resource, error)
	DeleteResource(ctx context.Context, name string) error

	ListRates(ctx context.Context) []domain.RateEntry
	UpdateRate(ctx context.Context, resource string, rate decimal.Decimal) (*domain.RateEntry, error)

	// LoadRates replaces the in-process rate table with the persisted base rates.
	LoadRates(ctx context.Context) error
}

// MarketSvcFacade combines all market-related service interfaces.
type MarketSvcFacade interface {
	MarketReaderSvc
	MarketSettlementSvc
	MarketAdminSvc
}
