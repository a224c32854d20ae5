package services

import (
	"context"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClientReaderSvc defines read operations for clients and the treasury.
type ClientReaderSvc interface {
	ListClients(ctx context.Context) ([]domain.ClientAccount, error)
	GetClient(ctx context.Context, name string) (*domain.ClientAccount, error)
	GetTreasury(ctx context.Context) (*domain.Treasury, error)
}

// ClientWriterSvc defines client lifecycle and balance override operations.
type ClientWriterSvc interface {
	// RegisterClient opens an account with the default balance. An existing account is
	// returned unchanged with created=false.
	RegisterClient(ctx context.Context, name string) (client *domain.ClientAccount, created bool, err error)

	// AddClient opens an account with an explicit balance; duplicates fail with apperrors.ErrDuplicate.
	AddClient(ctx context.Context, name string, balance decimal.Decimal) (*domain.ClientAccount, error)

	// DeleteClient removes an account with no active deposits or credits.
	DeleteClient(ctx context.Context, name string) error

	SetClientBalance(ctx context.Context, name string, balance decimal.Decimal) (*domain.ClientAccount, error)
	SetTreasuryBalance(ctx context.Context, balance decimal.Decimal) (*domain.Treasury, error)
}

// ClientSvcFacade combines all client-related service interfaces.
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
