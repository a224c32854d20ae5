package memory

import (
	"context"

	"github.com/SscSPs/resource_bank/internal/core/domain"
)

func (s *Store) AppendPricePoints(_ context.Context, points []domain.PricePoint) error {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	for _, p := range points {
		s.nextPointID++
		p.ID = s.nextPointID
		s.history = append(s.history, p)
	}
	return nil
}

// ListPriceHistory walks the append log backwards, so ties on timestamp keep insertion order.
func (s *Store) ListPriceHistory(_ context.Context, resourceName string, beforeID int64, limit int) ([]domain.PricePoint, error) {
	if limit <= 0 {
		return []domain.PricePoint{}, nil
	}
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()
	out := make([]domain.PricePoint, 0, limit)
	for i := len(s.history) - 1; i >= 0 && len(out) < limit; i-- {
		if beforeID > 0 && s.history[i].ID >= beforeID {
			continue
		}
		if s.history[i].ResourceName == resourceName {
			out = append(out, s.history[i])
		}
	}
	return out, nil
}

func (s *Store) ClearPriceHistory(_ context.Context) (int64, error) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	n := int64(len(s.history))
	s.history = nil
	return n, nil
}
