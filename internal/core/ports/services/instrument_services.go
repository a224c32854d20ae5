package services

import (
	"context"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositSvc manages the deposit lifecycle.
type DepositSvc interface {
	CreateDeposit(ctx context.Context, clientName string, amount decimal.Decimal, days int, annualRatePct decimal.Decimal) (*domain.Deposit, error)
	// ProcessMaturedDeposits pays out every due deposit; per-deposit failures are reported, not returned.
	ProcessMaturedDeposits(ctx context.Context) (*domain.DepositRunReport, error)
	EarlyCloseDeposit(ctx context.Context, depositID string) (*domain.Deposit, error)
	ListDeposits(ctx context.Context, clientName string) ([]domain.Deposit, error)
	GetDeposit(ctx context.Context, depositID string) (*domain.Deposit, error)
}

// CreditSvc manages the credit lifecycle.
type CreditSvc interface {
	CreateCredit(ctx context.Context, clientName string, amount decimal.Decimal, days int, annualRatePct decimal.Decimal) (*domain.Credit, error)
	// ProcessOverdueCredits expires every due credit without collecting it.
	ProcessOverdueCredits(ctx context.Context) (*domain.CreditRunReport, error)
	EarlyRepayCredit(ctx context.Context, creditID string) (*domain.Credit, error)
	ListCredits(ctx context.Context, clientName string) ([]domain.Credit, error)
	GetCredit(ctx context.Context, creditID string) (*domain.Credit, error)
}

// InstrumentSvcFacade combines deposit and credit operations.
type InstrumentSvcFacade interface {
	DepositSvc
	CreditSvc
}
