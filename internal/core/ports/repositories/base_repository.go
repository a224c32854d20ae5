package repositories

import (
	"context"
)

// TransactionManager runs a unit of work. Every balance, float or instrument change made
// through the SettlementTx passed to fn commits together when fn returns nil and is
// discarded otherwise.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error
}

// SettlementTx is the locked, transactional view of the economy used by settlements.
// The treasury must be locked first; implementations rely on that ordering to serialize
// every settlement against the shared balance.
type SettlementTx interface {
	TreasuryTx
	ClientTx
	ResourceTx
	InstrumentTx
}
