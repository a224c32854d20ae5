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
	"github.com/shopspring/decimal"
)

const clientColumns = `name, balance, created_at, last_updated_at`

// PgxClientRepository reads client accounts and the treasury outside of a settlement.
type PgxClientRepository struct {
	pool            *pgxpool.Pool
	initialTreasury decimal.Decimal
}

func newPgxClientRepository(pool *pgxpool.Pool, initialTreasury decimal.Decimal) *PgxClientRepository {
	return &PgxClientRepository{pool: pool, initialTreasury: initialTreasury}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

func (r *PgxClientRepository) ListClients(ctx context.Context) ([]domain.ClientAccount, error) {
	return listClients(ctx, r.pool)
}

func (r *PgxClientRepository) FindClient(ctx context.Context, name string) (*domain.ClientAccount, error) {
	return findClient(ctx, r.pool, name, false)
}

func (r *PgxClientRepository) GetTreasury(ctx context.Context) (*domain.Treasury, error) {
	if err := ensureTreasury(ctx, r.pool, r.initialTreasury); err != nil {
		return nil, err
	}
	return findTreasury(ctx, r.pool, false)
}

func scanClient(row pgx.Row) (domain.ClientAccount, error) {
	var m models.Client
	err := row.Scan(&m.Name, &m.Balance, &m.CreatedAt, &m.LastUpdatedAt)
	return mapping.ToDomainClient(m), err
}

func listClients(ctx context.Context, q querier) ([]domain.ClientAccount, error) {
	rows, err := q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.ClientAccount{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return clients, nil
}

func findClient(ctx context.Context, q querier, name string, forUpdate bool) (*domain.ClientAccount, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanClient(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find client %s: %w", name, err)
	}
	return &c, nil
}

// ensureTreasury creates the singleton treasury row if it does not exist yet.
func ensureTreasury(ctx context.Context, q querier, initial decimal.Decimal) error {
	_, err := q.Exec(ctx, `
		INSERT INTO treasury (id, balance, last_updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO NOTHING`, initial, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create treasury: %w", err)
	}
	return nil
}

func findTreasury(ctx context.Context, q querier, forUpdate bool) (*domain.Treasury, error) {
	query := `SELECT balance, last_updated_at FROM treasury WHERE id = 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var m models.Treasury
	if err := q.QueryRow(ctx, query).Scan(&m.Balance, &m.LastUpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to read treasury: %w", err)
	}
	t := mapping.ToDomainTreasury(m)
	return &t, nil
}
