package services_test

import (
	"context"
	"time"

	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/SscSPs/resource_bank/internal/core/services"
	"github.com/SscSPs/resource_bank/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const gameDay = 17 * time.Minute

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// bankSuite wires every service over a fresh in-memory store with a controllable clock.
type bankSuite struct {
	suite.Suite
	ctx    context.Context
	now    time.Time
	store  *memory.Store
	engine *pricing.Engine

	history    portssvc.PriceHistorySvc
	market     portssvc.MarketSvcFacade
	clients    portssvc.ClientSvcFacade
	instrument portssvc.InstrumentSvcFacade
}

func (s *bankSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = memory.NewStore(d("50000"))
	s.engine = pricing.NewEngine(pricing.DefaultConfig(), pricing.NewRateRegistry())

	repos := s.store.Provider()
	clock := services.WithClock(func() time.Time { return s.now })
	s.history = services.NewPriceHistoryService(repos.HistoryRepo, repos.ClientRepo, repos.ResourceRepo, s.engine, clock)
	s.market = services.NewMarketService(repos.TxManager, repos.ClientRepo, repos.ResourceRepo, s.engine, s.history, clock)
	s.clients = services.NewClientService(repos.TxManager, repos.ClientRepo, s.engine, s.history, d("50"), clock)
	s.instrument = services.NewInstrumentService(repos.TxManager, repos.InstrumentRepo, repos.ClientRepo, s.engine, s.history, gameDay, clock)
}

func (s *bankSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

// seedReferenceEconomy builds wealth 10000 (treasury 9900 + client 100) with
// Diamond at rate 1 and float 100, so Diamond's spot price is exactly 10.
func (s *bankSuite) seedReferenceEconomy() {
	_, err := s.market.AddResource(s.ctx, "Diamond", 100, d("1"))
	s.Require().NoError(err)
	_, err = s.clients.AddClient(s.ctx, "sunny", d("100"))
	s.Require().NoError(err)
	_, err = s.clients.SetTreasuryBalance(s.ctx, d("9900"))
	s.Require().NoError(err)
}

func (s *bankSuite) balanceOf(name string) decimal.Decimal {
	c, err := s.clients.GetClient(s.ctx, name)
	s.Require().NoError(err)
	return c.Balance
}

func (s *bankSuite) treasury() decimal.Decimal {
	t, err := s.clients.GetTreasury(s.ctx)
	s.Require().NoError(err)
	return t.Balance
}

func (s *bankSuite) floatOf(name string) int64 {
	r, err := s.store.FindResource(s.ctx, name)
	s.Require().NoError(err)
	return r.Float
}

func (s *bankSuite) equalDecimal(want, got decimal.Decimal) {
	s.T().Helper()
	s.True(want.Equal(got), "want %s, got %s", want.String(), got.String())
}
