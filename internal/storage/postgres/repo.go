// Package postgres implements a Postgres-backed storage.Repository using
// pgx v5. Bulk writes go through the COPY protocol, which is the fastest
// ingestion path Postgres offers.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stepsreport/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
	})
}

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool, e.g. "postgresql://..."
	Table string // target table, optionally schema-qualified ("public.report")
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository opens a pgx pool for the given DSN.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, nil
}

// EnsureTable creates the report table if it does not exist.
func (r *Repository) EnsureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id BIGINT, name TEXT, steps_to_desk BIGINT)",
		tableIdent(r.cfg.Table).Sanitize(),
	)
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// CopyFrom streams the rows into the configured table via COPY and returns
// the number of rows the server reported as copied.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n, err := r.pool.CopyFrom(ctx, tableIdent(r.cfg.Table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// Close releases the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// tableIdent splits an optionally schema-qualified name into a pgx
// identifier, which handles quoting.
func tableIdent(table string) pgx.Identifier {
	parts := strings.Split(table, ".")
	return pgx.Identifier(parts)
}
