// Package worker runs the bank's scheduled background jobs.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
)

// InstrumentProcessor settles instruments whose term has ended.
type InstrumentProcessor interface {
	ProcessMaturedDeposits(ctx context.Context) (*domain.DepositRunReport, error)
	ProcessOverdueCredits(ctx context.Context) (*domain.CreditRunReport, error)
}

// MaturityWorker pays out matured deposits and expires overdue credits on a fixed interval.
type MaturityWorker struct {
	processor InstrumentProcessor
	interval  time.Duration
	logger    *slog.Logger
}

// NewMaturityWorker creates a worker that scans every interval.
func NewMaturityWorker(processor InstrumentProcessor, interval time.Duration, logger *slog.Logger) *MaturityWorker {
	return &MaturityWorker{
		processor: processor,
		interval:  interval,
		logger:    logger.With(slog.String("worker", "maturity"), slog.Duration("interval", interval)),
	}
}

// Run scans once immediately and then on every tick until ctx is cancelled.
// Scan failures are logged and retried on the next tick.
func (w *MaturityWorker) Run(ctx context.Context) error {
	w.logger.Info("Maturity worker started")
	defer w.logger.Info("Maturity worker stopped")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single scan of deposits and credits.
func (w *MaturityWorker) RunOnce(ctx context.Context) {
	deposits, err := w.processor.ProcessMaturedDeposits(ctx)
	if err != nil {
		w.logger.Error("Matured deposit scan failed", slog.String("error", err.Error()))
	} else if len(deposits.Processed) > 0 || len(deposits.Failed) > 0 {
		w.logger.Info("Matured deposits processed",
			slog.Int("paid", len(deposits.Processed)),
			slog.Int("failed", len(deposits.Failed)),
			slog.String("total_paid", deposits.TotalPaid.String()))
	}

	credits, err := w.processor.ProcessOverdueCredits(ctx)
	if err != nil {
		w.logger.Error("Overdue credit scan failed", slog.String("error", err.Error()))
	} else if len(credits.Expired) > 0 || len(credits.Failed) > 0 {
		w.logger.Info("Overdue credits expired",
			slog.Int("expired", len(credits.Expired)),
			slog.Int("failed", len(credits.Failed)),
			slog.String("uncollected", credits.Uncollected.String()))
	}
}
