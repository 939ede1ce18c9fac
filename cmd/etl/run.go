// This file wires the ETL job end-to-end. It keeps the CLI layer thin: it
// depends only on the storage-agnostic interfaces and never imports database
// drivers or backend-specific packages directly (backends register themselves
// via the storage/all blank import in main.go).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"stepsreport/internal/config"
	"stepsreport/internal/datasource"
	"stepsreport/internal/datasource/file"
	"stepsreport/internal/metrics"
	"stepsreport/internal/parser"
	"stepsreport/internal/parser/parquetfmt"
	"stepsreport/internal/storage"
	"stepsreport/internal/transformer"
	"stepsreport/pkg/records"
)

// counters holds cross-goroutine statistics for a run.
type counters struct {
	extracted   atomic.Int64 // rows decoded from the source
	transformed atomic.Int64 // rows leaving the transform chain
	loaded      atomic.Int64 // rows flushed into the sink
	batches     atomic.Int64 // load batches flushed
}

// runtimeConfig contains the resolved batching and buffering configuration
// for a run. Values are derived from the pipeline spec with optional
// environment variable overrides (12-factor style).
type runtimeConfig struct {
	batchSize  int
	bufferSize int
}

func newRuntimeConfig(spec config.Pipeline) runtimeConfig {
	rt := runtimeConfig{
		batchSize:  envInt("STEPS_ETL_BATCH_SIZE", spec.Runtime.BatchSize),
		bufferSize: envInt("STEPS_ETL_CHANNEL_BUFFER", spec.Runtime.ChannelBuffer),
	}
	if rt.batchSize <= 0 {
		rt.batchSize = 500
	}
	if rt.bufferSize <= 0 {
		rt.bufferSize = 64
	}
	return rt
}

// envInt returns the integer value of the named environment variable, or def
// when unset or unparsable.
func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// storageConfig maps the pipeline spec onto the backend-agnostic storage
// config. STEPS_ETL_DSN overrides the configured DSN so credentials can stay
// out of pipeline files.
func storageConfig(spec config.Pipeline) storage.Config {
	cfg := storage.Config{
		Kind:      spec.Storage.Kind,
		Path:      spec.Storage.CSV.Path,
		Delimiter: spec.Storage.CSV.Delimiter,
		Charset:   spec.Storage.CSV.Charset,
		DSN:       spec.Storage.DB.DSN,
		Table:     spec.Storage.DB.Table,
	}
	if dsn := os.Getenv("STEPS_ETL_DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	return cfg
}

// Function variables used to introduce test seams.
// In production these point to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource
	newParserFn  = newParser
)

// openSource builds the data source named by the pipeline.
func openSource(spec config.Pipeline) (datasource.Source, error) {
	switch spec.Source.Kind {
	case "file":
		return file.NewLocal(spec.Source.File.Path), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", spec.Source.Kind)
	}
}

// newParser builds the parser named by the pipeline.
func newParser(spec config.Pipeline) (parser.Parser, error) {
	switch spec.Parser.Kind {
	case "parquet":
		return parquetfmt.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported parser kind %q", spec.Parser.Kind)
	}
}

// runJob executes extract → transform → load for the given pipeline spec.
//
// The transform is applied to the full batch (it is pure and order
// preserving), then a producer goroutine feeds the loader through a bounded
// channel so the sink sees steady batches with back-pressure. A fatal loader
// error cancels the producer via the errgroup context.
//
// Stats reported per run: extracted, transformed, loaded, batches.
func runJob(ctx context.Context, spec config.Pipeline) error {
	job := spec.Job
	if job == "" {
		job = "steps_report"
	}
	log.Printf("%s: etl job is up and running", job)

	rt := newRuntimeConfig(spec)
	log.Printf("%s: runtime: batch=%d buffer=%d storage=%s", job, rt.batchSize, rt.bufferSize, spec.Storage.Kind)

	var stats counters

	// Extract.
	start := time.Now()
	recs, err := extract(ctx, spec)
	metrics.RecordStep(job, "extract", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: extract: %w", job, err)
	}
	stats.extracted.Store(int64(len(recs)))

	// Transform.
	start = time.Now()
	report := transformer.StepsReport(spec.Transform.StepsPerFloor).Apply(recs)
	metrics.RecordStep(job, "transform", nil, time.Since(start))
	stats.transformed.Store(int64(len(report)))

	// The sink is opened only once there is something to load, so a failed
	// extract leaves any previous output untouched.
	repo, err := newRepositoryFn(ctx, storageConfig(spec))
	if err != nil {
		return fmt.Errorf("%s: open storage: %w", job, err)
	}

	if spec.Storage.DB.AutoCreateTable {
		if err := repo.EnsureTable(ctx); err != nil {
			repo.Close()
			return fmt.Errorf("%s: %w", job, err)
		}
	}

	// Load: producer feeds a bounded channel, the loader drains it in
	// batches. Arrival order equals input order, so the output preserves row
	// order end to end.
	start = time.Now()
	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan records.Record, rt.bufferSize)

	g.Go(func() error {
		defer close(rows)
		for _, rec := range report {
			select {
			case rows <- rec:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	copyFn := func(ctx context.Context, columns []string, batch [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, columns, batch)
		if err == nil {
			stats.batches.Add(1)
			metrics.RecordBatches(job, 1)
		}
		return n, err
	}

	g.Go(func() error {
		total, err := storage.LoadBatches(gctx, records.ReportColumns(), rows, rt.batchSize, copyFn)
		stats.loaded.Store(total)
		return err
	})

	err = g.Wait()
	// Close finalizes file sinks (rename onto the destination), so a close
	// failure fails the load step.
	if cerr := repo.Close(); err == nil {
		err = cerr
	}
	metrics.RecordStep(job, "load", err, time.Since(start))

	metrics.RecordRow(job, "extracted", stats.extracted.Load())
	metrics.RecordRow(job, "transformed", stats.transformed.Load())
	metrics.RecordRow(job, "loaded", stats.loaded.Load())

	if err != nil {
		return fmt.Errorf("%s: load: %w", job, err)
	}

	log.Printf(
		"%s: etl job is finished: extracted=%d transformed=%d loaded=%d batches=%d",
		job,
		stats.extracted.Load(),
		stats.transformed.Load(),
		stats.loaded.Load(),
		stats.batches.Load(),
	)
	return nil
}

// extract opens the source and parses it into records.
func extract(ctx context.Context, spec config.Pipeline) ([]records.Record, error) {
	src, err := openSourceFn(spec)
	if err != nil {
		return nil, err
	}
	p, err := newParserFn(spec)
	if err != nil {
		return nil, err
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return p.Parse(rc)
}
