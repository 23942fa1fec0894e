// Package backend selects the audit data source for the dashboard. The CSV
// backend memoizes a local file in memory; the SQLite backend serves records
// previously ingested with the ingest command. Both expose the same narrow
// read interface so the HTTP layer and the aggregator never care which one
// is behind them.
package backend

import (
	"context"
	"fmt"

	"wasteboard/internal/config"
	"wasteboard/internal/core"
	"wasteboard/internal/dataset"
	"wasteboard/internal/storage"
)

// AuditReader is the read surface the dashboard needs from a data source.
type AuditReader interface {
	// Options returns the distinct filter values for the UI controls.
	Options(ctx context.Context) (core.FilterOptions, error)

	// Select returns the records matching the filter. Empty selection sets
	// select nothing.
	Select(ctx context.Context, f core.Filter) ([]core.WasteRecord, error)
}

// Build constructs the reader configured by cfg.DataBackend. The returned
// close function releases backend resources and is safe to call once.
func Build(cfg *config.Config) (AuditReader, func() error, error) {
	switch cfg.DataBackend {
	case "csv":
		return NewCSVReader(cfg.CSVPath), func() error { return nil }, nil
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

// CSVReader adapts the memoized dataset source to the AuditReader interface.
type CSVReader struct {
	source *dataset.Source
}

func NewCSVReader(path string) *CSVReader {
	return &CSVReader{source: dataset.NewSource(path)}
}

func (r *CSVReader) Options(_ context.Context) (core.FilterOptions, error) {
	ds, err := r.source.Dataset()
	if err != nil {
		return core.FilterOptions{}, err
	}
	return dataset.Options(ds), nil
}

func (r *CSVReader) Select(_ context.Context, f core.Filter) ([]core.WasteRecord, error) {
	ds, err := r.source.Dataset()
	if err != nil {
		return nil, err
	}
	return dataset.Apply(ds, f), nil
}
