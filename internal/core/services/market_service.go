package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/shopspring/decimal"
)

// marketService prices resources and settles resource movements against the treasury.
type marketService struct {
	BaseService
	txm       portsrepo.TransactionManager
	clients   portsrepo.ClientReader
	resources portsrepo.ResourceReader
	engine    *pricing.Engine
	history   portssvc.PriceHistorySvc
}

// NewMarketService creates a MarketSvcFacade.
func NewMarketService(
	txm portsrepo.TransactionManager,
	clients portsrepo.ClientReader,
	resources portsrepo.ResourceReader,
	engine *pricing.Engine,
	history portssvc.PriceHistorySvc,
	opts ...Option,
) portssvc.MarketSvcFacade {
	return &marketService{
		BaseService: newBaseService(opts),
		txm:         txm,
		clients:     clients,
		resources:   resources,
		engine:      engine,
		history:     history,
	}
}

var _ portssvc.MarketSvcFacade = (*marketService)(nil)

// wealth reads the current total economy wealth outside any unit of work.
func (s *marketService) wealth(ctx context.Context) (decimal.Decimal, error) {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list clients: %w", err)
	}
	treasury, err := s.clients.GetTreasury(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read treasury: %w", err)
	}
	return s.engine.TotalWealth(clients, *treasury), nil
}

func (s *marketService) ListPrices(ctx context.Context) ([]domain.ResourcePrice, error) {
	resources, err := s.resources.ListResources(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list resources")
		return nil, err
	}
	wealth, err := s.wealth(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Prices(resources, wealth), nil
}

// pricingInputs loads the resource and the wealth a quote is priced against.
func (s *marketService) pricingInputs(ctx context.Context, name string) (*domain.Resource, decimal.Decimal, error) {
	resource, err := s.resources.FindResource(ctx, name)
	if err != nil {
		return nil, decimal.Zero, err
	}
	wealth, err := s.wealth(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return resource, wealth, nil
}

func (s *marketService) newQuote(op domain.SettlementOperation, r *domain.Resource, wealth decimal.Decimal) *domain.Quote {
	return &domain.Quote{
		Resource:  r.Name,
		Operation: op,
		SpotPrice: s.engine.UnitPrice(r.Name, r.Float, wealth),
		Float:     r.Float,
		Wealth:    wealth,
	}
}

func (s *marketService) QuoteDeposit(ctx context.Context, name string, units int64) (*domain.Quote, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", apperrors.ErrValidation)
	}
	r, wealth, err := s.pricingInputs(ctx, name)
	if err != nil {
		return nil, err
	}
	q := s.newQuote(domain.OperationDeposit, r, wealth)
	q.Units = units
	q.Amount = s.engine.DepositSettlement(r.Name, r.Float, units, wealth)
	return q, nil
}

func (s *marketService) QuoteWithdraw(ctx context.Context, name string, units int64) (*domain.Quote, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", apperrors.ErrValidation)
	}
	if err := s.engine.CheckWithdrawUnits(units); err != nil {
		return nil, err
	}
	r, wealth, err := s.pricingInputs(ctx, name)
	if err != nil {
		return nil, err
	}
	if units > r.Float {
		return nil, fmt.Errorf("%w: %s float is %d, requested %d", apperrors.ErrInsufficientFunds, r.Name, r.Float, units)
	}
	q := s.newQuote(domain.OperationWithdraw, r, wealth)
	q.Units = units
	q.Amount = s.engine.WithdrawSettlement(r.Name, r.Float, units, wealth)
	return q, nil
}

func (s *marketService) QuoteDepositUnits(ctx context.Context, name string, target decimal.Decimal) (*domain.Quote, error) {
	r, wealth, err := s.pricingInputs(ctx, name)
	if err != nil {
		return nil, err
	}
	inv := s.engine.DepositUnitsForTarget(r.Name, r.Float, target, wealth)
	if inv.CapacityExceeded {
		s.LogInfo(ctx, "Deposit units query stopped at iteration cap", slog.String("resource", r.Name), slog.String("target", target.String()))
	}
	q := s.newQuote(domain.OperationDeposit, r, wealth)
	q.Units, q.Amount, q.CapacityExceeded = inv.Units, inv.Amount, inv.CapacityExceeded
	return q, nil
}

func (s *marketService) QuoteWithdrawUnits(ctx context.Context, name string, budget decimal.Decimal) (*domain.Quote, error) {
	if budget.IsNegative() {
		return nil, fmt.Errorf("%w: budget must not be negative", apperrors.ErrValidation)
	}
	r, wealth, err := s.pricingInputs(ctx, name)
	if err != nil {
		return nil, err
	}
	inv := s.engine.WithdrawUnitsForBudget(r.Name, r.Float, budget, wealth)
	if inv.CapacityExceeded {
		s.LogInfo(ctx, "Withdraw units query stopped at iteration cap", slog.String("resource", r.Name), slog.String("budget", budget.String()))
	}
	q := s.newQuote(domain.OperationWithdraw, r, wealth)
	q.Units, q.Amount, q.CapacityExceeded = inv.Units, inv.Amount, inv.CapacityExceeded
	return q, nil
}

// DepositResource buys units from the client: the client is paid the flat spot price
// less commission and the treasury float grows.
func (s *marketService) DepositResource(ctx context.Context, clientName, name string, units int64) (*domain.Settlement, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", apperrors.ErrValidation)
	}

	var result *domain.Settlement
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
		client, err := tx.ClientForUpdate(ctx, clientName)
		if err != nil {
			return err
		}
		resource, err := tx.ResourceForUpdate(ctx, name)
		if err != nil {
			return err
		}
		clients, err := tx.ListClients(ctx)
		if err != nil {
			return err
		}
		wealth := s.engine.TotalWealth(clients, *treasury)

		earned := s.engine.DepositSettlement(resource.Name, resource.Float, units, wealth)
		if !treasury.CanCover(earned) {
			return fmt.Errorf("%w: treasury holds %s, deposit pays %s", apperrors.ErrInsufficientFunds, treasury.Balance, earned)
		}

		now := s.Now()
		newTreasury := treasury.Balance.Sub(earned)
		newClient := client.Balance.Add(earned)
		newFloat := resource.Float + units
		if err := tx.UpdateTreasuryBalance(ctx, newTreasury, now); err != nil {
			return err
		}
		if err := tx.UpdateClientBalance(ctx, client.Name, newClient, now); err != nil {
			return err
		}
		if err := tx.UpdateResourceFloat(ctx, resource.Name, newFloat, now); err != nil {
			return err
		}

		result = &domain.Settlement{
			Operation:       domain.OperationDeposit,
			ClientName:      client.Name,
			Resource:        resource.Name,
			Units:           units,
			Amount:          earned,
			ClientBalance:   newClient,
			TreasuryBalance: newTreasury,
			Float:           newFloat,
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("deposit_resource", err)
	if err != nil {
		s.LogDebug(ctx, "Resource deposit rejected", slog.String("client", clientName), slog.String("resource", name), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Resource deposited", slog.String("client", clientName), slog.String("resource", name), slog.Int64("units", units), slog.String("earned", result.Amount.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return result, nil
}

// WithdrawResource sells units to the client, each unit priced against the float left
// after the previous one.
func (s *marketService) WithdrawResource(ctx context.Context, clientName, name string, units int64) (*domain.Settlement, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: units must be positive", apperrors.ErrValidation)
	}
	if err := s.engine.CheckWithdrawUnits(units); err != nil {
		return nil, err
	}

	var result *domain.Settlement
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
		client, err := tx.ClientForUpdate(ctx, clientName)
		if err != nil {
			return err
		}
		resource, err := tx.ResourceForUpdate(ctx, name)
		if err != nil {
			return err
		}
		if units > resource.Float {
			return fmt.Errorf("%w: %s float is %d, requested %d", apperrors.ErrInsufficientFunds, resource.Name, resource.Float, units)
		}
		clients, err := tx.ListClients(ctx)
		if err != nil {
			return err
		}
		wealth := s.engine.TotalWealth(clients, *treasury)

		cost := s.engine.WithdrawSettlement(resource.Name, resource.Float, units, wealth)
		if !client.CanCover(cost) {
			return fmt.Errorf("%w: client %s holds %s, withdrawal costs %s", apperrors.ErrInsufficientFunds, client.Name, client.Balance, cost)
		}

		now := s.Now()
		newTreasury := treasury.Balance.Add(cost)
		newClient := client.Balance.Sub(cost)
		newFloat := resource.Float - units
		if err := tx.UpdateTreasuryBalance(ctx, newTreasury, now); err != nil {
			return err
		}
		if err := tx.UpdateClientBalance(ctx, client.Name, newClient, now); err != nil {
			return err
		}
		if err := tx.UpdateResourceFloat(ctx, resource.Name, newFloat, now); err != nil {
			return err
		}

		result = &domain.Settlement{
			Operation:       domain.OperationWithdraw,
			ClientName:      client.Name,
			Resource:        resource.Name,
			Units:           units,
			Amount:          cost,
			ClientBalance:   newClient,
			TreasuryBalance: newTreasury,
			Float:           newFloat,
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("withdraw_resource", err)
	if err != nil {
		s.LogDebug(ctx, "Resource withdrawal rejected", slog.String("client", clientName), slog.String("resource", name), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Resource withdrawn", slog.String("client", clientName), slog.String("resource", name), slog.Int64("units", units), slog.String("cost", result.Amount.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return result, nil
}

func (s *marketService) SetResourceFloat(ctx context.Context, name string, float int64) (*domain.Resource, error) {
	if float < 0 {
		return nil, fmt.Errorf("%w: float must not be negative", apperrors.ErrValidation)
	}

	var updated *domain.Resource
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		resource, err := tx.ResourceForUpdate(ctx, name)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := tx.UpdateResourceFloat(ctx, resource.Name, float, now); err != nil {
			return err
		}
		resource.Float = float
		resource.LastUpdatedAt = now
		updated = resource
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("set_float", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Resource float set", slog.String("resource", name), slog.Int64("float", float))
	s.recordSnapshot(ctx, s.history, snap)
	return updated, nil
}

func (s *marketService) AddResource(ctx context.Context, name string, float int64, rate decimal.Decimal) (*domain.Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: resource name is required", apperrors.ErrValidation)
	}
	if float < 0 {
		return nil, fmt.Errorf("%w: float must not be negative", apperrors.ErrValidation)
	}
	if err := pricing.ValidateRate(rate); err != nil {
		return nil, err
	}

	now := s.Now()
	resource := domain.Resource{
		Name:       name,
		Float:      float,
		BaseRate:   rate,
		Timestamps: domain.Timestamps{CreatedAt: now, LastUpdatedAt: now},
	}
	var snap *economySnapshot
	var undo func()
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		if err := tx.SaveResource(ctx, resource); err != nil {
			return err
		}
		var err error
		if undo, err = s.applyRate(ctx, name, rate); err != nil {
			return err
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("add_resource", err)
	if err != nil {
		if undo != nil {
			undo()
		}
		return nil, err
	}

	s.LogInfo(ctx, "Resource added", slog.String("resource", name), slog.Int64("float", float), slog.String("rate", rate.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return &resource, nil
}

func (s *marketService) DeleteResource(ctx context.Context, name string) error {
	var undo func()
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		if _, err := tx.ResourceForUpdate(ctx, name); err != nil {
			return err
		}
		if err := tx.DeleteResource(ctx, name); err != nil {
			return err
		}
		undo = s.removeRate(ctx, name)
		return nil
	})
	s.observe("delete_resource", err)
	if err != nil {
		if undo != nil {
			undo()
		}
		return err
	}

	s.LogInfo(ctx, "Resource deleted", slog.String("resource", name))
	return nil
}

// applyRate writes the registry while the unit of work still holds its locks, so registry
// updates land in commit order. The returned func restores the previous entry if the
// unit of work does not commit.
func (s *marketService) applyRate(ctx context.Context, name string, rate decimal.Decimal) (func(), error) {
	prev, had := s.engine.Rates().Lookup(name)
	if err := s.engine.Rates().Set(name, rate); err != nil {
		return nil, err
	}
	return func() { s.restoreRate(ctx, name, prev, had) }, nil
}

func (s *marketService) removeRate(ctx context.Context, name string) func() {
	prev, had := s.engine.Rates().Lookup(name)
	s.engine.Rates().Remove(name)
	return func() { s.restoreRate(ctx, name, prev, had) }
}

func (s *marketService) restoreRate(ctx context.Context, name string, prev decimal.Decimal, had bool) {
	if !had {
		s.engine.Rates().Remove(name)
		return
	}
	if err := s.engine.Rates().Set(name, prev); err != nil {
		s.LogError(ctx, err, "Failed to restore base rate", slog.String("resource", name))
	}
}

func (s *marketService) ListRates(_ context.Context) []domain.RateEntry {
	return s.engine.Rates().Entries()
}

func (s *marketService) UpdateRate(ctx context.Context, name string, rate decimal.Decimal) (*domain.RateEntry, error) {
	if err := pricing.ValidateRate(rate); err != nil {
		return nil, err
	}

	var snap *economySnapshot
	var undo func()
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		if _, err := tx.ResourceForUpdate(ctx, name); err != nil {
			return err
		}
		if err := tx.UpdateResourceRate(ctx, name, rate, s.Now()); err != nil {
			return err
		}
		var err error
		if undo, err = s.applyRate(ctx, name, rate); err != nil {
			return err
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("update_rate", err)
	if err != nil {
		if undo != nil {
			undo()
		}
		return nil, err
	}

	s.LogInfo(ctx, "Base rate updated", slog.String("resource", name), slog.String("rate", rate.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return &domain.RateEntry{Resource: name, Rate: rate}, nil
}

func (s *marketService) LoadRates(ctx context.Context) error {
	resources, err := s.resources.ListResources(ctx)
	if err != nil {
		return fmt.Errorf("failed to load base rates: %w", err)
	}
	entries := make([]domain.RateEntry, 0, len(resources))
	for _, r := range resources {
		entries = append(entries, domain.RateEntry{Resource: r.Name, Rate: r.BaseRate})
	}
	s.engine.Rates().Replace(entries)
	s.LogInfo(ctx, "Base rates loaded", slog.Int("count", len(entries)))
	return nil
}
