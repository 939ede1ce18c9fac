// Package storage contains storage-agnostic contracts and utilities for the
// load stage: the Repository interface every sink implements, a kind-keyed
// factory that concrete backends register with, and a generic batched loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal sink contract used by the pipeline. Backends
// (CSV file, SQLite, Postgres, MSSQL) implement their most efficient bulk
// write primitive behind CopyFrom.
type Repository interface {
	// CopyFrom writes the given rows (aligned to the columns order) and
	// returns the number of rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// EnsureTable creates the destination table/file structure if the
	// backend needs one. File sinks treat this as a no-op.
	EnsureTable(ctx context.Context) error

	// Close releases resources. File sinks finalize their output here.
	Close() error
}

// Config carries everything a backend factory may need. Only the fields
// relevant to the selected kind are consulted.
type Config struct {
	Kind string

	// File sink settings.
	Path      string
	Delimiter string
	Charset   string

	// Database sink settings.
	DSN   string
	Table string
}

// Factory constructs a Repository for one storage kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. Backends
// call it from init; importing stepsreport/internal/storage/all pulls in
// every built-in kind.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind. Unknown kinds return an error listing
// the registered ones.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return fn(ctx, cfg)
}

// Kinds returns the registered storage kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
