package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
)

// InstrumentReader defines read operations for deposits and credits.
type InstrumentReader interface {
	FindDeposit(ctx context.Context, depositID string) (*domain.Deposit, error)
	FindCredit(ctx context.Context, creditID string) (*domain.Credit, error)

	// ListDepositsByClient returns a client's deposits, newest first.
	ListDepositsByClient(ctx context.Context, clientName string) ([]domain.Deposit, error)
	// ListCreditsByClient returns a client's credits, newest first.
	ListCreditsByClient(ctx context.Context, clientName string) ([]domain.Credit, error)

	// ListDueDeposits returns ACTIVE deposits with payoutAt <= now, oldest payout first.
	ListDueDeposits(ctx context.Context, now time.Time) ([]domain.Deposit, error)
	// ListDueCredits returns ACTIVE credits with dueAt <= now, oldest due first.
	ListDueCredits(ctx context.Context, now time.Time) ([]domain.Credit, error)
}

// InstrumentTx locks and mutates instruments inside a unit of work.
type InstrumentTx interface {
	DepositForUpdate(ctx context.Context, depositID string) (*domain.Deposit, error)
	SaveDeposit(ctx context.Context, deposit domain.Deposit) error
	// UpdateDeposit persists status, closedAt and paidOut.
	UpdateDeposit(ctx context.Context, deposit domain.Deposit) error

	CreditForUpdate(ctx context.Context, creditID string) (*domain.Credit, error)
	SaveCredit(ctx context.Context, credit domain.Credit) error
	// UpdateCredit persists status, closedAt and repaid.
	UpdateCredit(ctx context.Context, credit domain.Credit) error
}

// InstrumentRepositoryFacade combines the instrument-related repository interfaces.
type InstrumentRepositoryFacade interface {
	InstrumentReader
}
