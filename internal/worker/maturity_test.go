package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	deposits   atomic.Int32
	credits    atomic.Int32
	depositErr error
}

func (p *countingProcessor) ProcessMaturedDeposits(_ context.Context) (*domain.DepositRunReport, error) {
	p.deposits.Add(1)
	if p.depositErr != nil {
		return nil, p.depositErr
	}
	return &domain.DepositRunReport{TotalPaid: decimal.Zero}, nil
}

func (p *countingProcessor) ProcessOverdueCredits(_ context.Context) (*domain.CreditRunReport, error) {
	p.credits.Add(1)
	return &domain.CreditRunReport{Uncollected: decimal.Zero}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunScansUntilCancelled(t *testing.T) {
	p := &countingProcessor{}
	w := NewMaturityWorker(p, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return p.credits.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	assert.GreaterOrEqual(t, p.deposits.Load(), int32(3))
}

func TestRunOnceContinuesAfterDepositFailure(t *testing.T) {
	p := &countingProcessor{depositErr: errors.New("db unavailable")}
	w := NewMaturityWorker(p, time.Minute, discardLogger())

	w.RunOnce(context.Background())

	assert.Equal(t, int32(1), p.deposits.Load())
	assert.Equal(t, int32(1), p.credits.Load())
}
