package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// settlementTx runs every statement on one pgx.Tx. Row locks are taken with FOR UPDATE;
// the treasury row is locked first by every settlement, which serializes them.
type settlementTx struct {
	q               querier
	initialTreasury decimal.Decimal
}

var _ portsrepo.SettlementTx = (*settlementTx)(nil)

func (t *settlementTx) TreasuryForUpdate(ctx context.Context) (*domain.Treasury, error) {
	if err := ensureTreasury(ctx, t.q, t.initialTreasury); err != nil {
		return nil, err
	}
	return findTreasury(ctx, t.q, true)
}

func (t *settlementTx) UpdateTreasuryBalance(ctx context.Context, balance decimal.Decimal, now time.Time) error {
	_, err := t.q.Exec(ctx, `UPDATE treasury SET balance = $1, last_updated_at = $2 WHERE id = 1`, balance, now)
	if err != nil {
		return fmt.Errorf("failed to update treasury balance: %w", err)
	}
	return nil
}

func (t *settlementTx) ClientForUpdate(ctx context.Context, name string) (*domain.ClientAccount, error) {
	return findClient(ctx, t.q, name, true)
}

func (t *settlementTx) ListClients(ctx context.Context) ([]domain.ClientAccount, error) {
	return listClients(ctx, t.q)
}

func (t *settlementTx) SaveClient(ctx context.Context, client domain.ClientAccount) error {
	m := mapping.ToModelClient(client)
	_, err := t.q.Exec(ctx, `
		INSERT INTO clients (name, balance, created_at, last_updated_at) VALUES ($1, $2, $3, $4)`,
		m.Name, m.Balance, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: client %s", apperrors.ErrDuplicate, client.Name)
		}
		return fmt.Errorf("failed to save client %s: %w", client.Name, err)
	}
	return nil
}

func (t *settlementTx) UpdateClientBalance(ctx context.Context, name string, balance decimal.Decimal, now time.Time) error {
	tag, err := t.q.Exec(ctx, `UPDATE clients SET balance = $1, last_updated_at = $2 WHERE name = $3`, balance, now, name)
	if err != nil {
		return fmt.Errorf("failed to update balance of client %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
	}
	return nil
}

func (t *settlementTx) DeleteClient(ctx context.Context, name string) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM clients WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
	}
	return nil
}

func (t *settlementTx) CountActiveInstruments(ctx context.Context, name string) (int, error) {
	var n int
	err := t.q.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM deposits WHERE client_name = $1 AND status = $2)
		     + (SELECT count(*) FROM credits WHERE client_name = $1 AND status = $3)`,
		name, string(domain.DepositActive), string(domain.CreditActive)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count instruments of client %s: %w", name, err)
	}
	return n, nil
}

func (t *settlementTx) ResourceForUpdate(ctx context.Context, name string) (*domain.Resource, error) {
	return findResource(ctx, t.q, name, true)
}

func (t *settlementTx) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return listResources(ctx, t.q)
}

func (t *settlementTx) SaveResource(ctx context.Context, resource domain.Resource) error {
	m := mapping.ToModelResource(resource)
	_, err := t.q.Exec(ctx, `
		INSERT INTO resources (name, float_units, base_rate, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.Name, m.FloatUnits, m.BaseRate, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: resource %s", apperrors.ErrDuplicate, resource.Name)
		}
		return fmt.Errorf("failed to save resource %s: %w", resource.Name, err)
	}
	return nil
}

func (t *settlementTx) UpdateResourceFloat(ctx context.Context, name string, float int64, now time.Time) error {
	return t.updateResource(ctx, name, `UPDATE resources SET float_units = $1, last_updated_at = $2 WHERE name = $3`, float, now)
}

func (t *settlementTx) UpdateResourceRate(ctx context.Context, name string, rate decimal.Decimal, now time.Time) error {
	return t.updateResource(ctx, name, `UPDATE resources SET base_rate = $1, last_updated_at = $2 WHERE name = $3`, rate, now)
}

func (t *settlementTx) updateResource(ctx context.Context, name, query string, value any, now time.Time) error {
	tag, err := t.q.Exec(ctx, query, value, now, name)
	if err != nil {
		return fmt.Errorf("failed to update resource %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	return nil
}

// DeleteResource removes the resource. Its price history stays as an audit trail.
func (t *settlementTx) DeleteResource(ctx context.Context, name string) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM resources WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete resource %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
	}
	return nil
}

func (t *settlementTx) DepositForUpdate(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return findDeposit(ctx, t.q, depositID, true)
}

func (t *settlementTx) SaveDeposit(ctx context.Context, deposit domain.Deposit) error {
	m := mapping.ToModelDeposit(deposit)
	_, err := t.q.Exec(ctx, `
		INSERT INTO deposits (`+depositColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.DepositID, m.ClientName, m.Amount, m.InterestRate, m.Days, m.CreatedAt, m.PayoutAt,
		m.InterestEarned, m.Status, m.ClosedAt, m.PaidOut)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: deposit %s", apperrors.ErrDuplicate, deposit.DepositID)
		}
		return fmt.Errorf("failed to save deposit %s: %w", deposit.DepositID, err)
	}
	return nil
}

func (t *settlementTx) UpdateDeposit(ctx context.Context, deposit domain.Deposit) error {
	m := mapping.ToModelDeposit(deposit)
	tag, err := t.q.Exec(ctx, `UPDATE deposits SET status = $1, closed_at = $2, paid_out = $3 WHERE deposit_id = $4`,
		m.Status, m.ClosedAt, m.PaidOut, m.DepositID)
	if err != nil {
		return fmt.Errorf("failed to update deposit %s: %w", deposit.DepositID, err)
	}
	if tag.RowsAffected() != 1 {
		slog.WarnContext(ctx, "Unexpected row count updating deposit", "deposit_id", deposit.DepositID, "rows", tag.RowsAffected())
		return fmt.Errorf("%w: deposit %s", apperrors.ErrNotFound, deposit.DepositID)
	}
	return nil
}

func (t *settlementTx) CreditForUpdate(ctx context.Context, creditID string) (*domain.Credit, error) {
	return findCredit(ctx, t.q, creditID, true)
}

func (t *settlementTx) SaveCredit(ctx context.Context, credit domain.Credit) error {
	m := mapping.ToModelCredit(credit)
	_, err := t.q.Exec(ctx, `
		INSERT INTO credits (`+creditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.CreditID, m.ClientName, m.Amount, m.InterestRate, m.Days, m.CreatedAt, m.DueAt,
		m.InterestOwed, m.Status, m.ClosedAt, m.Repaid)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: credit %s", apperrors.ErrDuplicate, credit.CreditID)
		}
		return fmt.Errorf("failed to save credit %s: %w", credit.CreditID, err)
	}
	return nil
}

func (t *settlementTx) UpdateCredit(ctx context.Context, credit domain.Credit) error {
	m := mapping.ToModelCredit(credit)
	tag, err := t.q.Exec(ctx, `UPDATE credits SET status = $1, closed_at = $2, repaid = $3 WHERE credit_id = $4`,
		m.Status, m.ClosedAt, m.Repaid, m.CreditID)
	if err != nil {
		return fmt.Errorf("failed to update credit %s: %w", credit.CreditID, err)
	}
	if tag.RowsAffected() != 1 {
		slog.WarnContext(ctx, "Unexpected row count updating credit", "credit_id", credit.CreditID, "rows", tag.RowsAffected())
		return fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, credit.CreditID)
	}
	return nil
}
