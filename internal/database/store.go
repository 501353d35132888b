package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/libdata/bookpipeline/internal/books"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// queryHeadRows caps how much of a result set gets printed.
const queryHeadRows = 5

// Config controls the Postgres sink.
type Config struct {
	ConnURL string
	Table   string
}

// pgxPool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it, which keeps the store testable without a live database.
type pgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Store writes the cleaned table into Postgres.
type Store struct {
	pool   pgxPool
	table  string
	out    io.Writer
	logger *zap.Logger
}

// New opens a Postgres connection pool eagerly and pings it. An empty
// connection URL is a configuration error and must stop the run; nothing
// downstream can supply it.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.ConnURL) == "" {
		return nil, fmt.Errorf("no database connection URL configured, set DB_CONN_URL")
	}
	table := cfg.Table
	if table == "" {
		table = "LibBooks"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool, table: table, out: os.Stdout, logger: logger}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for tests).
func NewWithPool(pool pgxPool, table string, logger *zap.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "LibBooks"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table, out: os.Stdout, logger: logger}, nil
}

// Replace swaps the destination table's contents for the given rows inside
// one transaction: drop, recreate with column types inferred from the rows,
// bulk copy. Running it twice with the same input leaves the same table.
func (s *Store) Replace(ctx context.Context, t *books.Table) error {
	if t == nil {
		return fmt.Errorf("no table to write")
	}
	kinds := inferKinds(t.Rows())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	ident := pgx.Identifier{s.table}.Sanitize()
	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("drop %s: %w", s.table, err)
	}
	if _, err := tx.Exec(ctx, createStatement(s.table, kinds)); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}

	rows := make([][]any, 0, t.Len())
	for _, row := range t.Rows() {
		rows = append(rows, copyValues(row, kinds))
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{s.table}, books.ColumnNames(), pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy into %s: %w", s.table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	committed = true

	s.logger.Info("Data inserted into the database",
		zap.String("table", s.table), zap.Int("rows", t.Len()))
	return nil
}

// Query executes an arbitrary trusted statement and prints the header plus
// the first few rows, the inspection equivalent of a dataframe head. The
// statement text is not validated or sanitized.
func (s *Store) Query(ctx context.Context, sql string) error {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	header := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		header = append(header, fd.Name)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	printed := 0
	for printed < queryHeadRows && rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		cells := make([]string, 0, len(vals))
		for _, v := range vals {
			cells = append(cells, fmt.Sprint(v))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
		printed++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return w.Flush()
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}
