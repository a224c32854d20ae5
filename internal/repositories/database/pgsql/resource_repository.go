package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/models"
	"github.com/SscSPs/resource_bank/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resourceColumns = `name, float_units, base_rate, created_at, last_updated_at`

// PgxResourceRepository reads resources outside of a settlement.
type PgxResourceRepository struct {
	pool *pgxpool.Pool
}

func newPgxResourceRepository(pool *pgxpool.Pool) *PgxResourceRepository {
	return &PgxResourceRepository{pool: pool}
}

var _ portsrepo.ResourceRepositoryFacade = (*PgxResourceRepository)(nil)

func (r *PgxResourceRepository) ListResources(ctx context.Context) ([]domain.Resource, error) {
	return listResources(ctx, r.pool)
}

func (r *PgxResourceRepository) FindResource(ctx context.Context, name string) (*domain.Resource, error) {
	return findResource(ctx, r.pool, name, false)
}

func scanResource(row pgx.Row) (domain.Resource, error) {
	var m models.Resource
	err := row.Scan(&m.Name, &m.FloatUnits, &m.BaseRate, &m.CreatedAt, &m.LastUpdatedAt)
	return mapping.ToDomainResource(m), err
}

func listResources(ctx context.Context, q querier) ([]domain.Resource, error) {
	rows, err := q.Query(ctx, `SELECT `+resourceColumns+` FROM resources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := []domain.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource row: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}
	return resources, nil
}

func findResource(ctx context.Context, q querier, name string, forUpdate bool) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE name = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	res, err := scanResource(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: resource %s", apperrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find resource %s: %w", name, err)
	}
	return &res, nil
}
