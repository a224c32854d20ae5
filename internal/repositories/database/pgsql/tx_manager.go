package pgsql

import (
	"context"
	"log/slog"

	"github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TxManager runs settlements inside a single PostgreSQL transaction.
type TxManager struct {
	BaseRepository
	initialTreasury decimal.Decimal
}

var _ repositories.TransactionManager = (*TxManager)(nil)

func newTxManager(pool *pgxpool.Pool, initialTreasury decimal.Decimal) *TxManager {
	return &TxManager{BaseRepository: BaseRepository{Pool: pool}, initialTreasury: initialTreasury}
}

// RunInTx commits every change made through the SettlementTx when fn returns nil and
// rolls the transaction back otherwise.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repositories.SettlementTx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := m.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
	}()

	if err := fn(ctx, &settlementTx{q: tx, initialTreasury: m.initialTreasury}); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}
