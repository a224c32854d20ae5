package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/SscSPs/resource_bank/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// History query limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type priceHistoryService struct {
	BaseService
	repo      portsrepo.PriceHistoryRepository
	clients   portsrepo.ClientReader
	resources portsrepo.ResourceReader
	engine    *pricing.Engine
}

// NewPriceHistoryService creates the price history recorder.
func NewPriceHistoryService(repo portsrepo.PriceHistoryRepository, clients portsrepo.ClientReader, resources portsrepo.ResourceReader, engine *pricing.Engine, opts ...Option) portssvc.PriceHistorySvc {
	return &priceHistoryService{
		BaseService: newBaseService(opts),
		repo:        repo,
		clients:     clients,
		resources:   resources,
		engine:      engine,
	}
}

var _ portssvc.PriceHistorySvc = (*priceHistoryService)(nil)

func (s *priceHistoryService) RecordAll(ctx context.Context, resources []domain.Resource, wealth decimal.Decimal) error {
	if len(resources) == 0 {
		return nil
	}
	now := s.Now()
	prices := s.engine.Prices(resources, wealth)
	points := make([]domain.PricePoint, 0, len(prices))
	for _, p := range prices {
		points = append(points, domain.PricePoint{ResourceName: p.Name, Price: p.Price, Timestamp: now})
	}
	if err := s.repo.AppendPricePoints(ctx, points); err != nil {
		return fmt.Errorf("failed to append price points: %w", err)
	}
	s.Metrics.AddPricePoints(len(points))
	s.LogDebug(ctx, "Price history recorded", slog.Int("points", len(points)), slog.String("wealth", wealth.String()))
	return nil
}

func (s *priceHistoryService) Snapshot(ctx context.Context) error {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	treasury, err := s.clients.GetTreasury(ctx)
	if err != nil {
		return fmt.Errorf("failed to read treasury: %w", err)
	}
	resources, err := s.resources.ListResources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}
	s.Metrics.SetTreasuryBalance(treasury.Balance)
	return s.RecordAll(ctx, resources, s.engine.TotalWealth(clients, *treasury))
}

func (s *priceHistoryService) Query(ctx context.Context, resource string, limit int) ([]domain.PricePoint, error) {
	if _, err := s.resources.FindResource(ctx, resource); err != nil {
		return nil, err
	}
	return s.repo.ListPriceHistory(ctx, resource, 0, ClampHistoryLimit(limit))
}

func (s *priceHistoryService) QueryPage(ctx context.Context, resource, pageToken string, limit int) ([]domain.PricePoint, string, error) {
	var beforeID int64
	if pageToken != "" {
		id, err := pagination.DecodeHistoryCursor(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		beforeID = id
	}
	if _, err := s.resources.FindResource(ctx, resource); err != nil {
		return nil, "", err
	}

	limit = ClampHistoryLimit(limit)
	points, err := s.repo.ListPriceHistory(ctx, resource, beforeID, limit)
	if err != nil {
		return nil, "", err
	}
	next := ""
	if len(points) == limit {
		next = pagination.EncodeHistoryCursor(points[len(points)-1].ID)
	}
	return points, next, nil
}

func (s *priceHistoryService) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.ClearPriceHistory(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to clear price history")
		return 0, err
	}
	s.LogInfo(ctx, "Price history cleared", slog.Int64("deleted", n))
	return n, nil
}

// ClampHistoryLimit maps a requested limit into [1, MaxHistoryLimit]; zero means the default.
func ClampHistoryLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultHistoryLimit
	case limit < 1:
		return 1
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}

// recordSnapshot appends history for a committed unit of work. The write already
// committed, so failures are logged rather than returned.
func (b *BaseService) recordSnapshot(ctx context.Context, history portssvc.PriceHistorySvc, snap *economySnapshot) {
	if snap == nil {
		return
	}
	b.Metrics.SetTreasuryBalance(snap.treasury)
	if history == nil {
		return
	}
	if err := history.RecordAll(ctx, snap.resources, snap.wealth); err != nil {
		b.LogError(ctx, err, "Failed to record price history after commit")
	}
}
