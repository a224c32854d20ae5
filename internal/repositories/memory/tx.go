package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// tx is the staged state of one unit of work. The store's writer lock is held for its
// whole lifetime, so the "for update" reads need no further locking.
type tx struct {
	st    *state
	store *Store
}

var _ portsrepo.SettlementTx = (*tx)(nil)

func (t *tx) TreasuryForUpdate(_ context.Context) (*domain.Treasury, error) {
	tr := *t.store.ensureTreasury(t.st)
	return &tr, nil
}

func (t *tx) UpdateTreasuryBalance(_ context.Context, balance decimal.Decimal, now time.Time) error {
	tr := t.store.ensureTreasury(t.st)
	tr.Balance = balance
	tr.LastUpdatedAt = now
	return nil
}

func (t *tx) ClientForUpdate(_ context.Context, name string) (*domain.ClientAccount, error) {
	c, ok := t.st.clients[name]
	if !ok {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
	}
	return &c, nil
}

func (t *tx) ListClients(_ context.Context) ([]domain.ClientAccount, error) {
	return sortedClients(t.st.clients), nil
}

func (t *tx) SaveClient(_ context.Context, client domain.ClientAccount) error {
	if _, exists := t.st.clients[client.Name]; exists {
		return fmt.Errorf("%w: client %s", apperrors.ErrDuplicate, client.Name)
	}
	t.st.clients[client.Name] = client
	return nil
}

func (t *tx) UpdateClientBalance(_ context.Context, name string, balance decimal.Decimal, now time.Time) error {
	c, ok := t.st.clients[name]
	if !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
	}
	c.Balance = balance
	c.LastUpdatedAt = now
	t.st.clients[name] = c
	return nil
}

func (t *tx) DeleteClient(_ context.Context, name string) error {
	if _, ok := t.st.clients[name]; !ok {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
	}
	delete(t.st.clients, name)
	return nil
}

func (t *tx) CountActiveInstruments(_ context.Context, name string) (int, error) {
	n := 0
	for _, d := range t.st.deposits {
		if d.ClientName == name && d.IsActive() {
			n++
		}
	}
	for _, c := range t.st.credits {
		if c.ClientName == name && c.IsActive() {
			n++
		}
	}
	return n, nil
}

func (t *tx) ResourceForUpdate(_ context.Context, name string) (*domain.Resource, error) {
	r, ok := t.st.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	return &r, nil
}

func (t *tx) ListResources(_ context.Context) ([]domain.Resource, error) {
	return sortedResources(t.st.resources), nil
}

func (t *tx) SaveResource(_ context.Context, resource domain.Resource) error {
	if _, exists := t.st.resources[resource.Name]; exists {
		return fmt.Errorf("%w: resource %s", apperrors.ErrDuplicate, resource.Name)
	}
	t.st.resources[resource.Name] = resource
	return nil
}

func (t *tx) UpdateResourceFloat(_ context.Context, name string, float int64, now time.Time) error {
	r, ok := t.st.resources[name]
	if !ok {
		return fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	r.Float = float
	r.LastUpdatedAt = now
	t.st.resources[name] = r
	return nil
}

func (t *tx) UpdateResourceRate(_ context.Context, name string, rate decimal.Decimal, now time.Time) error {
	r, ok := t.st.resources[name]
	if !ok {
		return fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	r.BaseRate = rate
	r.LastUpdatedAt = now
	t.st.resources[name] = r
	return nil
}

func (t *tx) DeleteResource(_ context.Context, name string) error {
	if _, ok := t.st.resources[name]; !ok {
		return fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	delete(t.st.resources, name)
	return nil
}

func (t *tx) DepositForUpdate(_ context.Context, depositID string) (*domain.Deposit, error) {
	d, ok := t.st.deposits[depositID]
	if !ok {
		return nil, fmt.Errorf("%w: deposit %s", apperrors.ErrNotFound, depositID)
	}
	return &d, nil
}

func (t *tx) SaveDeposit(_ context.Context, deposit domain.Deposit) error {
	if _, exists := t.st.deposits[deposit.DepositID]; exists {
		return fmt.Errorf("%w: deposit %s", apperrors.ErrDuplicate, deposit.DepositID)
	}
	t.st.deposits[deposit.DepositID] = deposit
	return nil
}

func (t *tx) UpdateDeposit(_ context.Context, deposit domain.Deposit) error {
	if _, ok := t.st.deposits[deposit.DepositID]; !ok {
		return fmt.Errorf("%w: deposit %s", apperrors.ErrNotFound, deposit.DepositID)
	}
	t.st.deposits[deposit.DepositID] = deposit
	return nil
}

func (t *tx) CreditForUpdate(_ context.Context, creditID string) (*domain.Credit, error) {
	c, ok := t.st.credits[creditID]
	if !ok {
		return nil, fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, creditID)
	}
	return &c, nil
}

func (t *tx) SaveCredit(_ context.Context, credit domain.Credit) error {
	if _, exists := t.st.credits[credit.CreditID]; exists {
		return fmt.Errorf("%w: credit %s", apperrors.ErrDuplicate, credit.CreditID)
	}
	t.st.credits[credit.CreditID] = credit
	return nil
}

func (t *tx) UpdateCredit(_ context.Context, credit domain.Credit) error {
	if _, ok := t.st.credits[credit.CreditID]; !ok {
		return fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, credit.CreditID)
	}
	t.st.credits[credit.CreditID] = credit
	return nil
}
