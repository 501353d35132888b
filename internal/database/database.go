// Package database persists the cleaned table to Postgres and runs
// inspection queries against it. The Provider interface decouples the
// pipeline from the concrete backend so tests can run without a database.
package database

import (
	"context"

	"github.com/libdata/bookpipeline/internal/books"
)

// Provider is the sink interface consumed by the pipeline.
type Provider interface {
	// Replace swaps the destination table's contents for the given rows.
	Replace(ctx context.Context, table *books.Table) error

	// Query executes an arbitrary trusted statement and prints the first
	// few resulting rows for inspection.
	Query(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close()
}

// NoOpProvider discards writes and queries. Useful in tests and dry runs.
type NoOpProvider struct{}

// Replace for NoOpProvider does nothing.
func (NoOpProvider) Replace(context.Context, *books.Table) error { return nil }

// Query for NoOpProvider does nothing.
func (NoOpProvider) Query(context.Context, string) error { return nil }

// Close for NoOpProvider does nothing.
func (NoOpProvider) Close() {}
