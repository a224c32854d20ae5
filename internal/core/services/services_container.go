package services

import (
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/SscSPs/resource_bank/internal/platform/config"
)

// NewEngine builds the pricing engine from configuration with an empty rate table;
// MarketSvcFacade.LoadRates fills it from storage.
func NewEngine(cfg *config.Config) *pricing.Engine {
	return pricing.NewEngine(pricing.Config{
		BaseReferencePrice:  cfg.BaseReferencePrice,
		MarketNormalization: cfg.MarketNormalization,
		MinTotalWealth:      cfg.MinTotalWealth,
		InverseQueryCap:     cfg.InverseQueryCap,
	}, pricing.NewRateRegistry())
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, engine *pricing.Engine, opts ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// History first; every other service records through it.
	container.History = NewPriceHistoryService(repos.HistoryRepo, repos.ClientRepo, repos.ResourceRepo, engine, opts...)
	container.Market = NewMarketService(repos.TxManager, repos.ClientRepo, repos.ResourceRepo, engine, container.History, opts...)
	container.Client = NewClientService(repos.TxManager, repos.ClientRepo, engine, container.History, cfg.DefaultClientBalance, opts...)
	container.Instrument = NewInstrumentService(repos.TxManager, repos.InstrumentRepo, repos.ClientRepo, engine, container.History, cfg.GameDay(), opts...)
	container.Auth = NewAuthService(cfg, opts...)

	return container
}
