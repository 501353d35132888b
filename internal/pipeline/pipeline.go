// Package pipeline wires the fetch, clean, persist, and plot stages into the
// fixed linear run the binary executes.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/libdata/bookpipeline/internal/books"
	"github.com/libdata/bookpipeline/internal/config"
	"github.com/libdata/bookpipeline/internal/database"
	"github.com/libdata/bookpipeline/internal/fetcher"
	"github.com/libdata/bookpipeline/internal/visualizer"
)

// Fetcher produces the raw records the pipeline starts from.
type Fetcher interface {
	Extract(ctx context.Context) ([]books.RawRecord, error)
}

// Plotter renders the year distribution of a cleaned table.
type Plotter interface {
	PlotYearCounts(t *books.Table) (string, error)
}

// Pipeline holds the long-lived services for one run. Construction fails
// fast when a service cannot be initialized; after that every stage failure
// is logged and the run continues with whatever data is left.
type Pipeline struct {
	cfg     config.Config
	fetcher Fetcher
	cleaner *books.Cleaner
	sink    database.Provider
	plotter Plotter
	logger  *zap.Logger
}

// New builds all pipeline services from the configuration. A missing
// database connection URL surfaces here, before any fetching starts.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Pipeline, error) {
	searchURL, err := cfg.SearchURL()
	if err != nil {
		return nil, err
	}
	sink, err := database.New(ctx, database.Config{ConnURL: cfg.DB.ConnURL, Table: cfg.DB.Table}, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetcher.New(searchURL, cfg.API.UserAgent, cfg.HTTPTimeout(), logger),
		cleaner: books.NewCleaner(logger),
		sink:    sink,
		plotter: visualizer.New(cfg.Output.PlotDir, cfg.Output.PlotFile, logger),
		logger:  logger,
	}, nil
}

// NewWithServices wires explicit services, primarily for tests.
func NewWithServices(cfg config.Config, f Fetcher, cleaner *books.Cleaner, sink database.Provider, plotter Plotter, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: f,
		cleaner: cleaner,
		sink:    sink,
		plotter: plotter,
		logger:  logger,
	}
}

// Run executes one pass: fetch, clean, export CSV and JSON, replace the
// database table, print an inspection query head, plot. Fetch failures
// degrade to an empty record set.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.logger.With(zap.String("run_id", uuid.NewString()))

	raw, err := p.fetcher.Extract(ctx)
	if err != nil {
		logger.Error("Error fetching books, continuing with no records", zap.Error(err))
		raw = nil
	}
	logger.Info("Fetched books", zap.Int("records", len(raw)))

	table := p.cleaner.Clean(raw)

	if err := p.cleaner.ExportCSV(p.cfg.Output.CSVPath); err != nil {
		logger.Error("Error saving CSV", zap.Error(err))
	}
	if err := p.cleaner.ExportJSON(p.cfg.Output.JSONPath); err != nil {
		logger.Error("Error saving JSON", zap.Error(err))
	}

	if err := p.sink.Replace(ctx, table); err != nil {
		logger.Error("Error writing to the database", zap.Error(err))
	}
	if err := p.sink.Query(ctx, fmt.Sprintf("SELECT * FROM %q", p.cfg.DB.Table)); err != nil {
		logger.Error("Error querying the database", zap.Error(err))
	}

	if table.Len() == 0 {
		logger.Warn("No rows to plot, skipping visualization")
		return nil
	}
	if _, err := p.plotter.PlotYearCounts(table); err != nil {
		logger.Error("Error rendering plot", zap.Error(err))
	}
	return nil
}

// Close releases the database connection.
func (p *Pipeline) Close() {
	p.sink.Close()
}
