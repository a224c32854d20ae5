package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/models"
	"github.com/SscSPs/resource_bank/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPriceHistoryRepository stores price observations in the append-only price_history table.
type PgxPriceHistoryRepository struct {
	pool *pgxpool.Pool
}

func newPgxPriceHistoryRepository(pool *pgxpool.Pool) *PgxPriceHistoryRepository {
	return &PgxPriceHistoryRepository{pool: pool}
}

var _ portsrepo.PriceHistoryRepository = (*PgxPriceHistoryRepository)(nil)

// AppendPricePoints inserts every point in a single batch round trip.
func (r *PgxPriceHistoryRepository) AppendPricePoints(ctx context.Context, points []domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range points {
		batch.Queue(`INSERT INTO price_history (resource_name, price, recorded_at) VALUES ($1, $2, $3)`,
			p.ResourceName, p.Price, p.Timestamp)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range points {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert price point: %w", err)
		}
	}
	return nil
}

// ListPriceHistory orders by id so points recorded in the same instant keep insertion order.
func (r *PgxPriceHistoryRepository) ListPriceHistory(ctx context.Context, resourceName string, beforeID int64, limit int) ([]domain.PricePoint, error) {
	if limit <= 0 {
		return []domain.PricePoint{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, resource_name, price, recorded_at FROM price_history
		WHERE resource_name = $1 AND ($2::BIGINT = 0 OR id < $2)
		ORDER BY id DESC LIMIT $3`, resourceName, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for %s: %w", resourceName, err)
	}
	defer rows.Close()

	points := make([]domain.PricePoint, 0, limit)
	for rows.Next() {
		var m models.PricePoint
		if err := rows.Scan(&m.ID, &m.ResourceName, &m.Price, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, mapping.ToDomainPricePoint(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history rows: %w", err)
	}
	return points, nil
}

func (r *PgxPriceHistoryRepository) ClearPriceHistory(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM price_history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear price history: %w", err)
	}
	return tag.RowsAffected(), nil
}
