// Package seed loads the starting resource set into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// Resource is one seeded resource.
type Resource struct {
	Name     string `yaml:"name"`
	Float    int64  `yaml:"float"`
	BaseRate string `yaml:"baseRate"`
}

// File is the seed document.
type File struct {
	Resources []Resource `yaml:"resources"`
}

// Load reads the seed at path, or the embedded default when path is empty.
func Load(path string) (*File, error) {
	data := defaultSeed
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	seen := make(map[string]bool, len(f.Resources))
	for i, r := range f.Resources {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, fmt.Errorf("seed resource %d: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("seed resource %s: listed twice", name)
		}
		seen[name] = true
		if r.Float < 0 {
			return nil, fmt.Errorf("seed resource %s: float must not be negative", name)
		}
		rate, err := decimal.NewFromString(r.BaseRate)
		if err != nil {
			return nil, fmt.Errorf("seed resource %s: invalid base rate %q: %w", name, r.BaseRate, err)
		}
		if err := pricing.ValidateRate(rate); err != nil {
			return nil, fmt.Errorf("seed resource %s: %w", name, err)
		}
		f.Resources[i].Name = name
	}
	return &f, nil
}

// RateLoader refreshes the in-process rate table from storage.
type RateLoader interface {
	LoadRates(ctx context.Context) error
}

// Snapshotter records the current prices of every resource.
type Snapshotter interface {
	Snapshot(ctx context.Context) error
}

// Seeder applies a seed file to an empty resource table.
type Seeder struct {
	TxManager portsrepo.TransactionManager
	Resources portsrepo.ResourceReader
	Rates     RateLoader
	History   Snapshotter
	Now       func() time.Time
	Logger    *slog.Logger
}

// Apply inserts every seeded resource in one unit of work when no resource exists yet,
// then reloads the rate table and records the first price snapshot. It reports whether
// anything was seeded.
func (s *Seeder) Apply(ctx context.Context, f *File) (bool, error) {
	existing, err := s.Resources.ListResources(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check existing resources: %w", err)
	}
	if len(existing) > 0 || len(f.Resources) == 0 {
		s.Logger.Info("Seed skipped", slog.Int("existing_resources", len(existing)))
		return false, nil
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	err = s.TxManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.SettlementTx) error {
		if _, err := tx.TreasuryForUpdate(ctx); err != nil {
			return err
		}
		for _, r := range f.Resources {
			rate, _ := decimal.NewFromString(r.BaseRate)
			if err := tx.SaveResource(ctx, domain.Resource{
				Name:       r.Name,
				Float:      r.Float,
				BaseRate:   rate,
				Timestamps: domain.Timestamps{CreatedAt: now, LastUpdatedAt: now},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed resources: %w", err)
	}

	if err := s.Rates.LoadRates(ctx); err != nil {
		return true, err
	}
	if err := s.History.Snapshot(ctx); err != nil {
		return true, fmt.Errorf("failed to record initial price snapshot: %w", err)
	}
	s.Logger.Info("Seeded resources", slog.Int("count", len(f.Resources)))
	return true, nil
}
