// Package app assembles the tracker service and its backends from the
// runtime configuration. Every binary under cmd/ starts here.
package app

import (
	"context"
	"fmt"

	"github.com/dvloznov/spendwise/internal/analytics"
	"github.com/dvloznov/spendwise/internal/config"
	"github.com/dvloznov/spendwise/internal/gcsuploader"
	bq "github.com/dvloznov/spendwise/internal/infra/bigquery"
	"github.com/dvloznov/spendwise/internal/infra/supabase"
	"github.com/dvloznov/spendwise/internal/pipeline"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/dvloznov/spendwise/internal/store/inmemory"
	"github.com/dvloznov/spendwise/internal/tracker"
	"github.com/rs/zerolog"
)

// App holds the service and the clients that must be closed on shutdown.
type App struct {
	Service *tracker.Service

	// Storage is nil when GCS_BUCKET is not configured.
	Storage *gcsuploader.GCSStorageService

	closers []func() error
}

// Options tweak what New wires beyond the configuration.
type Options struct {
	// SkipStorage leaves Storage nil even when a bucket is configured.
	SkipStorage bool
}

// New wires the ledger repository, the insight store, Cloud Storage and the
// category suggester selected by cfg.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	a := &App{}

	var repo store.Repository
	var insights store.InsightStore
	var mem *inmemory.Store

	switch cfg.StorageBackend {
	case config.BackendBigQuery:
		r, err := bq.NewRepository(ctx, cfg.GCPProject, cfg.BQDataset, cfg.UserID)
		if err != nil {
			return nil, fmt.Errorf("New: %w", err)
		}
		a.closers = append(a.closers, r.Close)
		repo = r
		log.Info().Str("project", cfg.GCPProject).Str("dataset", cfg.BQDataset).Msg("Using BigQuery ledger")
	default:
		mem = inmemory.NewStore()
		repo = mem
		log.Info().Msg("Using in-memory ledger")
	}

	switch {
	case cfg.SupabaseEnabled():
		s, err := supabase.NewStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("New: %w", err)
		}
		insights = s
		log.Info().Msg("Using Supabase insight store")
	case mem != nil:
		insights = mem
	default:
		insights = inmemory.NewStore()
		log.Warn().Msg("SUPABASE_URL not set, recurring expenses, alerts and merchant mappings are kept in memory")
	}

	svcOpts := tracker.Options{
		UserID:           cfg.UserID,
		MonthlyIncome:    cfg.MonthlyIncome,
		BudgetCycleStart: cfg.BudgetCycleStart,
		ProEnabled:       cfg.ProEnabled,
		Categorizer:      pipeline.NewCategorizer(pipeline.DefaultRules(), log),
	}
	if cfg.IncomeClusterTolerance > 0 {
		h := analytics.DefaultHeuristics()
		h.IncomeTolerance = cfg.IncomeClusterTolerance
		svcOpts.Heuristics = &h
	}

	if cfg.GCSBucket != "" && !opts.SkipStorage {
		storage, err := gcsuploader.NewGCSStorageService(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("New: %w", err)
		}
		a.closers = append(a.closers, storage.Close)
		a.Storage = storage
		svcOpts.Storage = storage
	}

	if cfg.GenAIEnabled {
		suggester, err := pipeline.NewGeminiCategorySuggester(ctx, cfg.GenAIModel)
		if err != nil {
			// Suggestions are advisory; imports work without them.
			log.Warn().Err(err).Msg("Category suggester unavailable")
		} else {
			svcOpts.Suggester = suggester
		}
	}

	a.Service = tracker.NewService(repo, insights, svcOpts)
	return a, nil
}

// Close releases every client opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
