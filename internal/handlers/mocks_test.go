package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock MarketService ---
type MockMarketService struct {
	mock.Mock
}

func (m *MockMarketService) quote(args mock.Arguments) (*domain.Quote, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockMarketService) settlement(args mock.Arguments) (*domain.Settlement, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockMarketService) resource(args mock.Arguments) (*domain.Resource, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockMarketService) ListPrices(ctx context.Context) ([]domain.ResourcePrice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResourcePrice), args.Error(1)
}
func (m *MockMarketService) QuoteDeposit(ctx context.Context, resource string, units int64) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, resource, units))
}
func (m *MockMarketService) QuoteWithdraw(ctx context.Context, resource string, units int64) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, resource, units))
}
func (m *MockMarketService) QuoteDepositUnits(ctx context.Context, resource string, target decimal.Decimal) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, resource, target))
}
func (m *MockMarketService) QuoteWithdrawUnits(ctx context.Context, resource string, budget decimal.Decimal) (*domain.Quote, error) {
	return m.quote(m.Called(ctx, resource, budget))
}
func (m *MockMarketService) DepositResource(ctx context.Context, clientName, resource string, units int64) (*domain.Settlement, error) {
	return m.settlement(m.Called(ctx, clientName, resource, units))
}
func (m *MockMarketService) WithdrawResource(ctx context.Context, clientName, resource string, units int64) (*domain.Settlement, error) {
	return m.settlement(m.Called(ctx, clientName, resource, units))
}
func (m *MockMarketService) SetResourceFloat(ctx context.Context, resource string, float int64) (*domain.Resource, error) {
	return m.resource(m.Called(ctx, resource, float))
}
func (m *MockMarketService) AddResource(ctx context.Context, name string, float int64, rate decimal.Decimal) (*domain.Resource, error) {
	return m.resource(m.Called(ctx, name, float, rate))
}
func (m *MockMarketService) DeleteResource(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockMarketService) ListRates(ctx context.Context) []domain.RateEntry {
	return m.Called(ctx).Get(0).([]domain.RateEntry)
}
func (m *MockMarketService) UpdateRate(ctx context.Context, resource string, rate decimal.Decimal) (*domain.RateEntry, error) {
	args := m.Called(ctx, resource, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateEntry), args.Error(1)
}
func (m *MockMarketService) LoadRates(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Ensure mock implements the interface
var _ portssvc.MarketSvcFacade = (*MockMarketService)(nil)

// --- Mock ClientService ---
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) client(args mock.Arguments) (*domain.ClientAccount, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientAccount), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]domain.ClientAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClientAccount), args.Error(1)
}
func (m *MockClientService) GetClient(ctx context.Context, name string) (*domain.ClientAccount, error) {
	return m.client(m.Called(ctx, name))
}
func (m *MockClientService) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}
func (m *MockClientService) RegisterClient(ctx context.Context, name string) (*domain.ClientAccount, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.ClientAccount), args.Bool(1), args.Error(2)
}
func (m *MockClientService) AddClient(ctx context.Context, name string, balance decimal.Decimal) (*domain.ClientAccount, error) {
	return m.client(m.Called(ctx, name, balance))
}
func (m *MockClientService) DeleteClient(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}
func (m *MockClientService) SetClientBalance(ctx context.Context, name string, balance decimal.Decimal) (*domain.ClientAccount, error) {
	return m.client(m.Called(ctx, name, balance))
}
func (m *MockClientService) SetTreasuryBalance(ctx context.Context, balance decimal.Decimal) (*domain.Treasury, error) {
	args := m.Called(ctx, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Treasury), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

// --- Mock InstrumentService ---
type MockInstrumentService struct {
	mock.Mock
}

func (m *MockInstrumentService) deposit(args mock.Arguments) (*domain.Deposit, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deposit), args.Error(1)
}

func (m *MockInstrumentService) credit(args mock.Arguments) (*domain.Credit, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credit), args.Error(1)
}

func (m *MockInstrumentService) CreateDeposit(ctx context.Context, clientName string, amount decimal.Decimal, days int, rate decimal.Decimal) (*domain.Deposit, error) {
	return m.deposit(m.Called(ctx, clientName, amount, days, rate))
}
func (m *MockInstrumentService) ProcessMaturedDeposits(ctx context.Context) (*domain.DepositRunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositRunReport), args.Error(1)
}
func (m *MockInstrumentService) EarlyCloseDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return m.deposit(m.Called(ctx, depositID))
}
func (m *MockInstrumentService) ListDeposits(ctx context.Context, clientName string) ([]domain.Deposit, error) {
	args := m.Called(ctx, clientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deposit), args.Error(1)
}
func (m *MockInstrumentService) GetDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return m.deposit(m.Called(ctx, depositID))
}
func (m *MockInstrumentService) GetCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	return m.credit(m.Called(ctx, creditID))
}
func (m *MockInstrumentService) CreateCredit(ctx context.Context, clientName string, amount decimal.Decimal, days int, rate decimal.Decimal) (*domain.Credit, error) {
	return m.credit(m.Called(ctx, clientName, amount, days, rate))
}
func (m *MockInstrumentService) ProcessOverdueCredits(ctx context.Context) (*domain.CreditRunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditRunReport), args.Error(1)
}
func (m *MockInstrumentService) EarlyRepayCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	return m.credit(m.Called(ctx, creditID))
}
func (m *MockInstrumentService) ListCredits(ctx context.Context, clientName string) ([]domain.Credit, error) {
	args := m.Called(ctx, clientName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credit), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.InstrumentSvcFacade = (*MockInstrumentService)(nil)

// --- Mock PriceHistoryService ---
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) RecordAll(ctx context.Context, resources []domain.Resource, wealth decimal.Decimal) error {
	return m.Called(ctx, resources, wealth).Error(0)
}
func (m *MockHistoryService) Snapshot(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockHistoryService) Query(ctx context.Context, resource string, limit int) ([]domain.PricePoint, error) {
	args := m.Called(ctx, resource, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}
func (m *MockHistoryService) QueryPage(ctx context.Context, resource, pageToken string, limit int) ([]domain.PricePoint, string, error) {
	args := m.Called(ctx, resource, pageToken, limit)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.PricePoint), args.String(1), args.Error(2)
}
func (m *MockHistoryService) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PriceHistorySvc = (*MockHistoryService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, login, password string) (string, time.Time, error) {
	args := m.Called(ctx, login, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.AuthSvc = (*MockAuthService)(nil)
