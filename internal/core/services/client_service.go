package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/shopspring/decimal"
)

type clientService struct {
	BaseService
	txm            portsrepo.TransactionManager
	clients        portsrepo.ClientReader
	engine         *pricing.Engine
	history        portssvc.PriceHistorySvc
	defaultBalance decimal.Decimal
}

// NewClientService creates a ClientSvcFacade. Registered clients start with defaultBalance.
func NewClientService(
	txm portsrepo.TransactionManager,
	clients portsrepo.ClientReader,
	engine *pricing.Engine,
	history portssvc.PriceHistorySvc,
	defaultBalance decimal.Decimal,
	opts ...Option,
) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService:    newBaseService(opts),
		txm:            txm,
		clients:        clients,
		engine:         engine,
		history:        history,
		defaultBalance: defaultBalance,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) ListClients(ctx context.Context) ([]domain.ClientAccount, error) {
	return s.clients.ListClients(ctx)
}

func (s *clientService) GetClient(ctx context.Context, name string) (*domain.ClientAccount, error) {
	return s.clients.FindClient(ctx, name)
}

func (s *clientService) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	return s.clients.GetTreasury(ctx)
}

func validateClientName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: client name is required", apperrors.ErrValidation)
	}
	return name, nil
}

func validateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance must not be negative", apperrors.ErrValidation)
	}
	return nil
}

func (s *clientService) RegisterClient(ctx context.Context, name string) (*domain.ClientAccount, bool, error) {
	name, err := validateClientName(name)
	if err != nil {
		return nil, false, err
	}

	var client *domain.ClientAccount
	var snap *economySnapshot
	err = settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		existing, err := tx.ClientForUpdate(ctx, name)
		if err == nil {
			client = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		now := s.Now()
		client = &domain.ClientAccount{
			Name:       name,
			Balance:    s.defaultBalance,
			Timestamps: domain.Timestamps{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := tx.SaveClient(ctx, *client); err != nil {
			return err
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to register client", slog.String("client", name))
		return nil, false, err
	}

	created := snap != nil
	if created {
		s.LogInfo(ctx, "Client registered", slog.String("client", name), slog.String("balance", client.Balance.String()))
		s.recordSnapshot(ctx, s.history, snap)
	}
	return client, created, nil
}

func (s *clientService) AddClient(ctx context.Context, name string, balance decimal.Decimal) (*domain.ClientAccount, error) {
	name, err := validateClientName(name)
	if err != nil {
		return nil, err
	}
	if err := validateBalance(balance); err != nil {
		return nil, err
	}

	now := s.Now()
	client := domain.ClientAccount{
		Name:       name,
		Balance:    balance,
		Timestamps: domain.Timestamps{CreatedAt: now, LastUpdatedAt: now},
	}
	var snap *economySnapshot
	err = settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		if err := tx.SaveClient(ctx, client); err != nil {
			return err
		}
		var err error
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("add_client", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Client added", slog.String("client", name), slog.String("balance", balance.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return &client, nil
}

// DeleteClient refuses clients that still own an active deposit or credit.
func (s *clientService) DeleteClient(ctx context.Context, name string) error {
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		if _, err := tx.ClientForUpdate(ctx, name); err != nil {
			return err
		}
		active, err := tx.CountActiveInstruments(ctx, name)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: client %s has %d active instruments", apperrors.ErrInvalidState, name, active)
		}
		if err := tx.DeleteClient(ctx, name); err != nil {
			return err
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("delete_client", err)
	if err != nil {
		return err
	}

	s.LogInfo(ctx, "Client deleted", slog.String("client", name))
	s.recordSnapshot(ctx, s.history, snap)
	return nil
}

func (s *clientService) SetClientBalance(ctx context.Context, name string, balance decimal.Decimal) (*domain.ClientAccount, error) {
	if err := validateBalance(balance); err != nil {
		return nil, err
	}

	var client *domain.ClientAccount
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, _ *domain.Treasury) error {
		c, err := tx.ClientForUpdate(ctx, name)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := tx.UpdateClientBalance(ctx, name, balance, now); err != nil {
			return err
		}
		c.Balance = balance
		c.LastUpdatedAt = now
		client = c
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("set_client_balance", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Client balance overridden", slog.String("client", name), slog.String("balance", balance.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return client, nil
}

func (s *clientService) SetTreasuryBalance(ctx context.Context, balance decimal.Decimal) (*domain.Treasury, error) {
	if err := validateBalance(balance); err != nil {
		return nil, err
	}

	var treasury *domain.Treasury
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, t *domain.Treasury) error {
		now := s.Now()
		if err := tx.UpdateTreasuryBalance(ctx, balance, now); err != nil {
			return err
		}
		t.Balance = balance
		t.LastUpdatedAt = now
		treasury = t
		var err error
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("set_treasury_balance", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Treasury balance overridden", slog.String("balance", balance.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return treasury, nil
}
