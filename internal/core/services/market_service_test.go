package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type MarketServiceTestSuite struct {
	bankSuite
}

func TestMarketServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MarketServiceTestSuite))
}

func (s *MarketServiceTestSuite) TestListPrices_ReferenceScenario() {
	s.seedReferenceEconomy()

	prices, err := s.market.ListPrices(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(prices, 1)
	s.equalDecimal(d("10"), prices[0].Price)
}

func (s *MarketServiceTestSuite) TestListPrices_EmptyEconomyUsesWealthFloor() {
	_, err := s.clients.SetTreasuryBalance(s.ctx, d("0"))
	s.Require().NoError(err)
	_, err = s.market.AddResource(s.ctx, "Diamond", 10, d("1"))
	s.Require().NoError(err)

	prices, err := s.market.ListPrices(s.ctx)

	s.Require().NoError(err)
	// 1000 / 100 * 10 / 10
	s.equalDecimal(d("10"), prices[0].Price)
}

func (s *MarketServiceTestSuite) TestDepositResource_PaysFlatSpotLessCommission() {
	s.seedReferenceEconomy()

	res, err := s.market.DepositResource(s.ctx, "sunny", "Diamond", 5)

	s.Require().NoError(err)
	s.equalDecimal(d("47.5"), res.Amount)
	s.equalDecimal(d("147.5"), s.balanceOf("sunny"))
	s.equalDecimal(d("9852.5"), s.treasury())
	s.Equal(int64(105), s.floatOf("Diamond"))
	s.Equal(int64(105), res.Float)
}

func (s *MarketServiceTestSuite) TestDepositResource_RecordsPostCommitPrices() {
	s.seedReferenceEconomy()
	before, err := s.history.Query(s.ctx, "Diamond", 100)
	s.Require().NoError(err)

	_, err = s.market.DepositResource(s.ctx, "sunny", "Diamond", 5)
	s.Require().NoError(err)

	points, err := s.history.Query(s.ctx, "Diamond", 100)
	s.Require().NoError(err)
	s.Len(points, len(before)+1)
	// wealth is unchanged at 10000, float is now 105
	s.equalDecimal(s.engine.UnitPrice("Diamond", 105, d("10000")), points[0].Price)
}

func (s *MarketServiceTestSuite) TestDepositResource_TreasuryCannotPay() {
	s.seedReferenceEconomy()
	_, err := s.clients.SetTreasuryBalance(s.ctx, d("10"))
	s.Require().NoError(err)

	_, err = s.market.DepositResource(s.ctx, "sunny", "Diamond", 5)

	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.equalDecimal(d("100"), s.balanceOf("sunny"))
	s.Equal(int64(100), s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestWithdrawResource_SingleUnitCostsSpot() {
	s.seedReferenceEconomy()

	res, err := s.market.WithdrawResource(s.ctx, "sunny", "Diamond", 1)

	s.Require().NoError(err)
	s.equalDecimal(d("10"), res.Amount)
	s.equalDecimal(d("90"), s.balanceOf("sunny"))
	s.equalDecimal(d("9910"), s.treasury())
	s.Equal(int64(99), s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestWithdrawResource_BeyondFloatRejectedWithoutChanges() {
	s.seedReferenceEconomy()

	_, err := s.market.WithdrawResource(s.ctx, "sunny", "Diamond", 101)

	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.equalDecimal(d("100"), s.balanceOf("sunny"))
	s.equalDecimal(d("9900"), s.treasury())
	s.Equal(int64(100), s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestWithdrawResource_ClientCannotAfford() {
	s.seedReferenceEconomy()

	_, err := s.market.WithdrawResource(s.ctx, "sunny", "Diamond", 50)

	s.ErrorIs(err, apperrors.ErrInsufficientFunds)
	s.equalDecimal(d("100"), s.balanceOf("sunny"))
	s.Equal(int64(100), s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestSettlements_ValidateAndResolve() {
	s.seedReferenceEconomy()

	_, err := s.market.DepositResource(s.ctx, "sunny", "Diamond", 0)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.market.DepositResource(s.ctx, "nobody", "Diamond", 1)
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.market.WithdrawResource(s.ctx, "sunny", "Obsidian", 1)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *MarketServiceTestSuite) TestQuotes() {
	s.seedReferenceEconomy()

	q, err := s.market.QuoteDeposit(s.ctx, "Diamond", 5)
	s.Require().NoError(err)
	s.equalDecimal(d("47.5"), q.Amount)
	s.equalDecimal(d("10"), q.SpotPrice)

	q, err = s.market.QuoteWithdraw(s.ctx, "Diamond", 2)
	s.Require().NoError(err)
	s.True(q.Amount.GreaterThan(d("20")))

	_, err = s.market.QuoteWithdraw(s.ctx, "Diamond", 101)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	q, err = s.market.QuoteDepositUnits(s.ctx, "Diamond", d("47.5"))
	s.Require().NoError(err)
	s.Equal(int64(5), q.Units)
	s.False(q.CapacityExceeded)

	q, err = s.market.QuoteWithdrawUnits(s.ctx, "Diamond", d("20"))
	s.Require().NoError(err)
	s.Equal(int64(1), q.Units)

	// quotes never mutate state
	s.equalDecimal(d("100"), s.balanceOf("sunny"))
	s.Equal(int64(100), s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestSetResourceFloat() {
	s.seedReferenceEconomy()

	r, err := s.market.SetResourceFloat(s.ctx, "Diamond", 50)
	s.Require().NoError(err)
	s.Equal(int64(50), r.Float)

	prices, err := s.market.ListPrices(s.ctx)
	s.Require().NoError(err)
	s.equalDecimal(d("20"), prices[0].Price)

	_, err = s.market.SetResourceFloat(s.ctx, "Diamond", -1)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *MarketServiceTestSuite) TestAddAndDeleteResourceKeepsRatesInStep() {
	_, err := s.market.AddResource(s.ctx, "Redstone", 842, d("128"))
	s.Require().NoError(err)

	_, err = s.market.AddResource(s.ctx, "Redstone", 1, d("1"))
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.market.AddResource(s.ctx, "Glowstone", 1, d("0"))
	s.ErrorIs(err, apperrors.ErrValidation)

	rates := s.market.ListRates(s.ctx)
	s.Require().Len(rates, 1)
	s.Equal("Redstone", rates[0].Resource)
	s.equalDecimal(d("128"), rates[0].Rate)

	s.Require().NoError(s.market.DeleteResource(s.ctx, "Redstone"))
	s.Empty(s.market.ListRates(s.ctx))
	s.ErrorIs(s.market.DeleteResource(s.ctx, "Redstone"), apperrors.ErrNotFound)
}

func (s *MarketServiceTestSuite) TestUpdateRate() {
	s.seedReferenceEconomy()

	entry, err := s.market.UpdateRate(s.ctx, "Diamond", d("2"))
	s.Require().NoError(err)
	s.equalDecimal(d("2"), entry.Rate)

	prices, err := s.market.ListPrices(s.ctx)
	s.Require().NoError(err)
	s.equalDecimal(d("5"), prices[0].Price)

	r, err := s.store.FindResource(s.ctx, "Diamond")
	s.Require().NoError(err)
	s.equalDecimal(d("2"), r.BaseRate)

	_, err = s.market.UpdateRate(s.ctx, "Obsidian", d("2"))
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.market.UpdateRate(s.ctx, "Diamond", d("-1"))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *MarketServiceTestSuite) TestLoadRatesFromStorage() {
	s.seedReferenceEconomy()
	s.engine.Rates().Replace(nil)

	s.Require().NoError(s.market.LoadRates(s.ctx))

	rate, ok := s.engine.Rates().Lookup("Diamond")
	s.True(ok)
	s.equalDecimal(d("1"), rate)
}

func (s *MarketServiceTestSuite) TestWithdrawResource_UnitsBeyondCapRejected() {
	s.seedReferenceEconomy()
	_, err := s.market.SetResourceFloat(s.ctx, "Diamond", 2_000_000)
	s.Require().NoError(err)

	_, err = s.market.WithdrawResource(s.ctx, "sunny", "Diamond", 2_000_000)
	s.ErrorIs(err, apperrors.ErrCapacityExceeded)
	_, err = s.market.QuoteWithdraw(s.ctx, "Diamond", 2_000_000)
	s.ErrorIs(err, apperrors.ErrCapacityExceeded)

	s.equalDecimal(d("100"), s.balanceOf("sunny"))
	s.Equal(int64(2_000_000), s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestWithdrawResource_ConcurrentSettlementsConserveMoney() {
	s.seedReferenceEconomy()
	_, err := s.clients.AddClient(s.ctx, "rainy", d("100"))
	s.Require().NoError(err)
	_, err = s.clients.SetTreasuryBalance(s.ctx, d("9800"))
	s.Require().NoError(err)

	const workers = 40
	var wg sync.WaitGroup
	var mu sync.Mutex
	settled := int64(0)
	for i := 0; i < workers; i++ {
		client := "sunny"
		if i%2 == 1 {
			client = "rainy"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.market.WithdrawResource(s.ctx, client, "Diamond", 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				settled++
				return
			}
			s.ErrorIs(err, apperrors.ErrInsufficientFunds)
		}()
	}
	wg.Wait()

	sunny, rainy := s.balanceOf("sunny"), s.balanceOf("rainy")
	s.False(sunny.IsNegative())
	s.False(rainy.IsNegative())
	s.equalDecimal(d("10000"), sunny.Add(rainy).Add(s.treasury()))
	s.Positive(settled)
	s.Less(settled, int64(workers))
	s.Equal(100-settled, s.floatOf("Diamond"))
}

func (s *MarketServiceTestSuite) TestUpdateRate_ConcurrentUpdatesLeaveRegistryMatchingStorage() {
	s.seedReferenceEconomy()

	var wg sync.WaitGroup
	for i := 1; i <= 30; i++ {
		rate := decimal.NewFromInt(int64(i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.market.UpdateRate(s.ctx, "Diamond", rate)
			s.NoError(err)
		}()
	}
	wg.Wait()

	stored, err := s.store.FindResource(s.ctx, "Diamond")
	s.Require().NoError(err)
	s.equalDecimal(stored.BaseRate, s.engine.Rates().Rate("Diamond"))
}

// abortingTxManager runs the unit of work and then fails it, as a failed commit would.
type abortingTxManager struct {
	inner portsrepo.TransactionManager
}

var errCommitFailed = errors.New("commit failed")

func (m abortingTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.SettlementTx) error) error {
	return m.inner.RunInTx(ctx, func(ctx context.Context, tx portsrepo.SettlementTx) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return errCommitFailed
	})
}

func (s *MarketServiceTestSuite) TestRateChangesRolledBackWhenCommitFails() {
	s.seedReferenceEconomy()
	repos := s.store.Provider()
	market := services.NewMarketService(abortingTxManager{inner: repos.TxManager}, repos.ClientRepo, repos.ResourceRepo, s.engine, s.history)

	_, err := market.UpdateRate(s.ctx, "Diamond", d("7"))
	s.ErrorIs(err, errCommitFailed)
	s.equalDecimal(d("1"), s.engine.Rates().Rate("Diamond"))

	_, err = market.AddResource(s.ctx, "Redstone", 842, d("128"))
	s.ErrorIs(err, errCommitFailed)
	_, ok := s.engine.Rates().Lookup("Redstone")
	s.False(ok)

	s.ErrorIs(market.DeleteResource(s.ctx, "Diamond"), errCommitFailed)
	rate, ok := s.engine.Rates().Lookup("Diamond")
	s.True(ok)
	s.equalDecimal(d("1"), rate)
}
