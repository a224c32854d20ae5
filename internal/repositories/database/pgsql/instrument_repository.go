package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/models"
	"github.com/SscSPs/resource_bank/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	depositColumns = `deposit_id, client_name, amount, interest_rate, days, created_at, payout_at,
		interest_earned, status, closed_at, paid_out`
	creditColumns = `credit_id, client_name, amount, interest_rate, days, created_at, due_at,
		interest_owed, status, closed_at, repaid`
)

// PgxInstrumentRepository reads deposits and credits outside of a settlement.
type PgxInstrumentRepository struct {
	pool *pgxpool.Pool
}

func newPgxInstrumentRepository(pool *pgxpool.Pool) *PgxInstrumentRepository {
	return &PgxInstrumentRepository{pool: pool}
}

var _ portsrepo.InstrumentRepositoryFacade = (*PgxInstrumentRepository)(nil)

func (r *PgxInstrumentRepository) FindDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return findDeposit(ctx, r.pool, depositID, false)
}

func (r *PgxInstrumentRepository) FindCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	return findCredit(ctx, r.pool, creditID, false)
}

func (r *PgxInstrumentRepository) ListDepositsByClient(ctx context.Context, clientName string) ([]domain.Deposit, error) {
	return queryDeposits(ctx, r.pool,
		`SELECT `+depositColumns+` FROM deposits WHERE client_name = $1 ORDER BY created_at DESC, deposit_id`, clientName)
}

func (r *PgxInstrumentRepository) ListCreditsByClient(ctx context.Context, clientName string) ([]domain.Credit, error) {
	return queryCredits(ctx, r.pool,
		`SELECT `+creditColumns+` FROM credits WHERE client_name = $1 ORDER BY created_at DESC, credit_id`, clientName)
}

func (r *PgxInstrumentRepository) ListDueDeposits(ctx context.Context, now time.Time) ([]domain.Deposit, error) {
	return queryDeposits(ctx, r.pool,
		`SELECT `+depositColumns+` FROM deposits WHERE status = $1 AND payout_at <= $2 ORDER BY payout_at, deposit_id`,
		string(domain.DepositActive), now)
}

func (r *PgxInstrumentRepository) ListDueCredits(ctx context.Context, now time.Time) ([]domain.Credit, error) {
	return queryCredits(ctx, r.pool,
		`SELECT `+creditColumns+` FROM credits WHERE status = $1 AND due_at <= $2 ORDER BY due_at, credit_id`,
		string(domain.CreditActive), now)
}

func scanDeposit(row pgx.Row) (domain.Deposit, error) {
	var m models.Deposit
	err := row.Scan(&m.DepositID, &m.ClientName, &m.Amount, &m.InterestRate, &m.Days, &m.CreatedAt,
		&m.PayoutAt, &m.InterestEarned, &m.Status, &m.ClosedAt, &m.PaidOut)
	return mapping.ToDomainDeposit(m), err
}

func scanCredit(row pgx.Row) (domain.Credit, error) {
	var m models.Credit
	err := row.Scan(&m.CreditID, &m.ClientName, &m.Amount, &m.InterestRate, &m.Days, &m.CreatedAt,
		&m.DueAt, &m.InterestOwed, &m.Status, &m.ClosedAt, &m.Repaid)
	return mapping.ToDomainCredit(m), err
}

func queryDeposits(ctx context.Context, q querier, query string, args ...any) ([]domain.Deposit, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer rows.Close()

	deposits := []domain.Deposit{}
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit row: %w", err)
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposit rows: %w", err)
	}
	return deposits, nil
}

func queryCredits(ctx context.Context, q querier, query string, args ...any) ([]domain.Credit, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	defer rows.Close()

	credits := []domain.Credit{}
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit row: %w", err)
		}
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit rows: %w", err)
	}
	return credits, nil
}

func findDeposit(ctx context.Context, q querier, depositID string, forUpdate bool) (*domain.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE deposit_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	d, err := scanDeposit(q.QueryRow(ctx, query, depositID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: deposit %s", apperrors.ErrNotFound, depositID)
		}
		return nil, fmt.Errorf("failed to find deposit %s: %w", depositID, err)
	}
	return &d, nil
}

func findCredit(ctx context.Context, q querier, creditID string, forUpdate bool) (*domain.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE credit_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCredit(q.QueryRow(ctx, query, creditID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: credit %s", apperrors.ErrNotFound, creditID)
		}
		return nil, fmt.Errorf("failed to find credit %s: %w", creditID, err)
	}
	return &c, nil
}
