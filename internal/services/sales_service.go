package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"

	"vendascli/internal/config"
	"vendascli/internal/dataprocessing"
	"vendascli/internal/infrastructure"
	"vendascli/pkg/contracts/domain"
)

// QueryResult bundles a filtered view with its aggregates.
type QueryResult struct {
	Records   []domain.SalesRecord   `json:"records"`
	Aggregate domain.AggregateResult `json:"aggregate"`
}

// SalesService owns the dataset cache and answers filter/aggregate queries.
// The cache is keyed by source identity (path plus modification time): a
// snapshot stays valid until the file changes or Invalidate is called, and
// concurrent reload attempts collapse into a single load.
type SalesService struct {
	sourcePath string
	autoReload bool
	loader     *dataprocessing.Loader
	logger     *slog.Logger
	group      singleflight.Group

	mu      sync.RWMutex
	dataset *domain.Dataset
	stale   bool
}

// NewSalesService creates a sales service from the application config.
func NewSalesService(cfg *config.Config, logger *slog.Logger) *SalesService {
	if logger == nil {
		logger = slog.Default()
	}

	format := dataprocessing.FormatBR
	if cfg.Source.NumberFormat == "us" {
		format = dataprocessing.FormatUS
	}

	return &SalesService{
		sourcePath: cfg.Source.File,
		autoReload: cfg.Source.AutoReload,
		loader:     dataprocessing.NewLoader(logger, dataprocessing.LoaderConfig{NumberFormat: format}),
		logger:     logger.With(slog.String("component", "sales_service")),
	}
}

// Dataset returns the current snapshot, loading or reloading as needed.
func (s *SalesService) Dataset(ctx context.Context) (*domain.Dataset, error) {
	if ds := s.cachedDataset(); ds != nil {
		return ds, nil
	}

	v, err, shared := s.group.Do("load", func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "load shared with concurrent caller")
	}
	return v.(*domain.Dataset), nil
}

// cachedDataset returns the snapshot when it is still valid for the current
// source identity, or nil when a (re)load is due.
func (s *SalesService) cachedDataset() *domain.Dataset {
	s.mu.RLock()
	ds, stale := s.dataset, s.stale
	s.mu.RUnlock()

	if ds == nil || stale {
		return nil
	}
	if !s.autoReload {
		return ds
	}

	info, err := os.Stat(s.sourcePath)
	if err != nil || !info.ModTime().Equal(ds.SourceModTime) {
		return nil
	}
	return ds
}

func (s *SalesService) load(ctx context.Context) (*domain.Dataset, error) {
	s.logger.InfoContext(ctx, "loading sales dataset", slog.String("path", s.sourcePath))

	ds, err := s.loader.LoadFile(s.sourcePath)
	if err != nil {
		infrastructure.DatasetLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load sales dataset: %w", err)
	}

	infrastructure.DatasetLoads.WithLabelValues("success").Inc()
	infrastructure.DroppedRows.Add(float64(ds.DroppedRows))

	s.mu.Lock()
	s.dataset = ds
	s.stale = false
	s.mu.Unlock()

	return ds, nil
}

// Invalidate marks the cached snapshot stale; the next query reloads.
func (s *SalesService) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	s.logger.Info("dataset cache invalidated")
}

// Query applies the criteria to the current snapshot and aggregates the
// filtered view. Queries are pure over the snapshot and safe to run in
// parallel.
func (s *SalesService) Query(ctx context.Context, criteria domain.FilterCriteria) (*QueryResult, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		infrastructure.Queries.WithLabelValues("load_error").Inc()
		return nil, err
	}

	records, err := dataprocessing.Filter(ds.Records, criteria)
	if err != nil {
		infrastructure.Queries.WithLabelValues("rejected").Inc()
		return nil, err
	}

	result := &QueryResult{
		Records:   records,
		Aggregate: dataprocessing.Summarize(records),
	}

	infrastructure.Queries.WithLabelValues("success").Inc()
	s.logger.DebugContext(ctx, "query answered",
		slog.Int("matched", len(records)),
		slog.Int("distinct_orders", result.Aggregate.DistinctOrderCount))

	return result, nil
}
