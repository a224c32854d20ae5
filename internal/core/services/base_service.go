package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/SscSPs/resource_bank/internal/middleware"
	"github.com/SscSPs/resource_bank/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Now     func() time.Time
	Metrics *metrics.BankMetrics
}

// Option configures the BaseService embedded in every service.
type Option func(*BaseService)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(b *BaseService) {
		b.Now = now
	}
}

// WithMetrics makes the service record Prometheus metrics.
func WithMetrics(m *metrics.BankMetrics) Option {
	return func(b *BaseService) {
		b.Metrics = m
	}
}

func newBaseService(opts []Option) BaseService {
	b := BaseService{Now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// observe counts a settlement attempt by its outcome.
func (s *BaseService) observe(operation string, err error) {
	s.Metrics.ObserveSettlement(operation, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case isBusinessRejection(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func isBusinessRejection(err error) bool {
	return errors.Is(err, apperrors.ErrInsufficientFunds) ||
		errors.Is(err, apperrors.ErrInvalidState) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrCapacityExceeded)
}

// economySnapshot is the post-write state captured inside a unit of work and used to
// record price history once it commits.
type economySnapshot struct {
	resources []domain.Resource
	wealth    decimal.Decimal
	treasury  decimal.Decimal
}

func captureSnapshot(ctx context.Context, tx portsrepo.SettlementTx, engine *pricing.Engine) (*economySnapshot, error) {
	treasury, err := tx.TreasuryForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := tx.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	resources, err := tx.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	return &economySnapshot{
		resources: resources,
		wealth:    engine.TotalWealth(clients, *treasury),
		treasury:  treasury.Balance,
	}, nil
}

// settle runs fn in one unit of work with the treasury already locked.
func settle(ctx context.Context, txm portsrepo.TransactionManager, fn func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error) error {
	return txm.RunInTx(ctx, func(ctx context.Context, tx portsrepo.SettlementTx) error {
		treasury, err := tx.TreasuryForUpdate(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, tx, treasury)
	})
}
