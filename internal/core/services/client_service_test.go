package services_test

import (
	"testing"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/stretchr/testify/suite"
)

type ClientServiceTestSuite struct {
	bankSuite
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (s *ClientServiceTestSuite) TestRegisterClient() {
	c, created, err := s.clients.RegisterClient(s.ctx, "  sunny ")
	s.Require().NoError(err)
	s.True(created)
	s.Equal("sunny", c.Name)
	s.equalDecimal(d("50"), c.Balance)

	_, err = s.clients.SetClientBalance(s.ctx, "sunny", d("75"))
	s.Require().NoError(err)

	c, created, err = s.clients.RegisterClient(s.ctx, "sunny")
	s.Require().NoError(err)
	s.False(created)
	s.equalDecimal(d("75"), c.Balance)

	_, _, err = s.clients.RegisterClient(s.ctx, "   ")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ClientServiceTestSuite) TestAddClient() {
	_, err := s.clients.AddClient(s.ctx, "dima", d("10"))
	s.Require().NoError(err)

	_, err = s.clients.AddClient(s.ctx, "dima", d("10"))
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.clients.AddClient(s.ctx, "ivan", d("-1"))
	s.ErrorIs(err, apperrors.ErrValidation)

	clients, err := s.clients.ListClients(s.ctx)
	s.Require().NoError(err)
	s.Len(clients, 1)
}

func (s *ClientServiceTestSuite) TestDeleteClient_BlockedByActiveInstruments() {
	s.seedReferenceEconomy()
	dep, err := s.instrument.CreateDeposit(s.ctx, "sunny", d("10"), 3, d("2"))
	s.Require().NoError(err)
	balance := s.balanceOf("sunny")

	err = s.clients.DeleteClient(s.ctx, "sunny")

	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.equalDecimal(balance, s.balanceOf("sunny"))

	_, err = s.instrument.EarlyCloseDeposit(s.ctx, dep.DepositID)
	s.Require().NoError(err)
	s.Require().NoError(s.clients.DeleteClient(s.ctx, "sunny"))

	_, err = s.clients.GetClient(s.ctx, "sunny")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ClientServiceTestSuite) TestBalanceOverrides() {
	s.seedReferenceEconomy()

	_, err := s.clients.SetClientBalance(s.ctx, "sunny", d("-5"))
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.clients.SetClientBalance(s.ctx, "ghost", d("5"))
	s.ErrorIs(err, apperrors.ErrNotFound)

	t, err := s.clients.SetTreasuryBalance(s.ctx, d("123.45"))
	s.Require().NoError(err)
	s.equalDecimal(d("123.45"), t.Balance)
	s.equalDecimal(d("123.45"), s.treasury())

	_, err = s.clients.SetTreasuryBalance(s.ctx, d("-1"))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ClientServiceTestSuite) TestTreasuryCreatedLazilyWithInitialBalance() {
	s.equalDecimal(d("50000"), s.treasury())
}
