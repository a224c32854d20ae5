package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClientReader defines read operations for client accounts and the treasury.
type ClientReader interface {
	// ListClients returns every client account ordered by name.
	ListClients(ctx context.Context) ([]domain.ClientAccount, error)

	// FindClient returns the account called name, or apperrors.ErrNotFound.
	FindClient(ctx context.Context, name string) (*domain.ClientAccount, error)

	// GetTreasury returns the treasury, creating it with the initial balance if needed.
	GetTreasury(ctx context.Context) (*domain.Treasury, error)
}

// TreasuryTx locks and mutates the treasury inside a unit of work.
type TreasuryTx interface {
	// TreasuryForUpdate locks the treasury row, creating it lazily.
	TreasuryForUpdate(ctx context.Context) (*domain.Treasury, error)
	UpdateTreasuryBalance(ctx context.Context, balance decimal.Decimal, now time.Time) error
}

// ClientTx locks and mutates client accounts inside a unit of work.
type ClientTx interface {
	ClientForUpdate(ctx context.Context, name string) (*domain.ClientAccount, error)

	// ListClients reads every client balance as seen by the unit of work.
	ListClients(ctx context.Context) ([]domain.ClientAccount, error)

	// SaveClient inserts a new account; an existing name yields apperrors.ErrDuplicate.
	SaveClient(ctx context.Context, client domain.ClientAccount) error
	UpdateClientBalance(ctx context.Context, name string, balance decimal.Decimal, now time.Time) error
	DeleteClient(ctx context.Context, name string) error

	// CountActiveInstruments counts the client's ACTIVE deposits and credits.
	CountActiveInstruments(ctx context.Context, name string) (int, error)
}

// ClientRepositoryFacade combines the client-related repository interfaces.
type ClientRepositoryFacade interface {
	ClientReader
}
