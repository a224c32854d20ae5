package pgsql

import (
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// NewRepositoryProvider wires every PostgreSQL repository over one pool.
// initialTreasury seeds the treasury row the first time it is read or locked.
func NewRepositoryProvider(dbPool *pgxpool.Pool, initialTreasury decimal.Decimal) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      newTxManager(dbPool, initialTreasury),
		ClientRepo:     newPgxClientRepository(dbPool, initialTreasury),
		ResourceRepo:   newPgxResourceRepository(dbPool),
		InstrumentRepo: newPgxInstrumentRepository(dbPool),
		HistoryRepo:    newPgxPriceHistoryRepository(dbPool),
	}
}
