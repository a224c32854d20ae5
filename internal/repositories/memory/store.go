// Package memory is an in-process implementation of every repository port.
// A single writer lock serializes units of work; each one mutates a staged copy of the
// state that replaces the live state only when the unit of work succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type state struct {
	treasury  *domain.Treasury
	clients   map[string]domain.ClientAccount
	resources map[string]domain.Resource
	deposits  map[string]domain.Deposit
	credits   map[string]domain.Credit
}

func newState() *state {
	return &state{
		clients:   make(map[string]domain.ClientAccount),
		resources: make(map[string]domain.Resource),
		deposits:  make(map[string]domain.Deposit),
		credits:   make(map[string]domain.Credit),
	}
}

func (s *state) clone() *state {
	c := &state{
		clients:   make(map[string]domain.ClientAccount, len(s.clients)),
		resources: make(map[string]domain.Resource, len(s.resources)),
		deposits:  make(map[string]domain.Deposit, len(s.deposits)),
		credits:   make(map[string]domain.Credit, len(s.credits)),
	}
	if s.treasury != nil {
		t := *s.treasury
		c.treasury = &t
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.resources {
		c.resources[k] = v
	}
	for k, v := range s.deposits {
		c.deposits[k] = v
	}
	for k, v := range s.credits {
		c.credits[k] = v
	}
	return c
}

// Store holds the whole economy in memory.
type Store struct {
	mu              sync.RWMutex
	live            *state
	initialTreasury decimal.Decimal
	now             func() time.Time

	historyMu   sync.RWMutex
	history     []domain.PricePoint
	nextPointID int64
}

// NewStore creates an empty store. The treasury is created on first use with initialTreasury.
func NewStore(initialTreasury decimal.Decimal) *Store {
	return &Store{
		live:            newState(),
		initialTreasury: initialTreasury,
		now:             time.Now,
	}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      s,
		ClientRepo:     s,
		ResourceRepo:   s,
		InstrumentRepo: s,
		HistoryRepo:    s,
	}
}

// RunInTx runs fn against a staged copy of the state and publishes it if fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.SettlementTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &tx{st: s.live.clone(), store: s}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("unit of work abandoned: %w", err)
	}
	s.live = staged.st
	return nil
}

func (s *Store) ensureTreasury(st *state) *domain.Treasury {
	if st.treasury == nil {
		st.treasury = &domain.Treasury{Balance: s.initialTreasury, LastUpdatedAt: s.now()}
	}
	return st.treasury
}

// --- readers ---

func (s *Store) ListClients(_ context.Context) ([]domain.ClientAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedClients(s.live.clients), nil
}

func (s *Store) FindClient(_ context.Context, name string) (*domain.ClientAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.live.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
	}
	return &c, nil
}

// GetTreasury takes the writer lock because the first read creates the treasury.
func (s *Store) GetTreasury(_ context.Context) (*domain.Treasury, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *s.ensureTreasury(s.live)
	return &t, nil
}

func (s *Store) ListResources(_ context.Context) ([]domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedResources(s.live.resources), nil
}

func (s *Store) FindResource(_ context.Context, name string) (*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.live.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	return &r, nil
}

func (s *Store) FindDeposit(_ context.Context, depositID string) (*domain.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.live.deposits[depositID]
	if !ok {
		return nil, fmt.Errorf("%w: deposit %s", apperrors.ErrNotFound, depositID)
	}
	return &d, nil
}

func (s *Store) FindCredit(_ context.Context, creditID string) (*domain.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.live.credits[creditID]
	if !ok {
		return nil, fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, creditID)
	}
	return &c, nil
}

func (s *Store) ListDepositsByClient(_ context.Context, clientName string) ([]domain.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Deposit, 0)
	for _, d := range s.live.deposits {
		if d.ClientName == clientName {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListCreditsByClient(_ context.Context, clientName string) ([]domain.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Credit, 0)
	for _, c := range s.live.credits {
		if c.ClientName == clientName {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListDueDeposits(_ context.Context, now time.Time) ([]domain.Deposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Deposit, 0)
	for _, d := range s.live.deposits {
		if d.IsActive() && !d.PayoutAt.After(now) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayoutAt.Before(out[j].PayoutAt) })
	return out, nil
}

func (s *Store) ListDueCredits(_ context.Context, now time.Time) ([]domain.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Credit, 0)
	for _, c := range s.live.credits {
		if c.IsActive() && !c.DueAt.After(now) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

func sortedClients(m map[string]domain.ClientAccount) []domain.ClientAccount {
	out := make([]domain.ClientAccount, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedResources(m map[string]domain.Resource) []domain.Resource {
	out := make([]domain.Resource, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var (
	_ portsrepo.TransactionManager         = (*Store)(nil)
	_ portsrepo.ClientRepositoryFacade     = (*Store)(nil)
	_ portsrepo.ResourceRepositoryFacade   = (*Store)(nil)
	_ portsrepo.InstrumentRepositoryFacade = (*Store)(nil)
	_ portsrepo.PriceHistoryRepository     = (*Store)(nil)
)
