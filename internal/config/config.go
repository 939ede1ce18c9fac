// Package config defines the canonical, JSON-serializable configuration model
// for the steps-report ETL job. It is intentionally small, explicit, and
// dependency-free so that pipeline documents can be loaded from disk and
// passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in pipeline
//     files under configs/pipelines/*.json.
//  3. Minimalism: No third-party config libraries; decoding is performed by
//     the standard library.
//
// Example (trimmed):
//
//	{
//	  "job":      "steps_report",
//	  "source":   { "kind": "file", "file": { "path": "testdata/employees.parquet" } },
//	  "parser":   { "kind": "parquet" },
//	  "transform":{ "steps_per_floor": 21 },
//	  "storage":  { "kind": "csv", "csv": { "path": "loaded_data/report.csv" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline describes the full ETL job in JSON. It is the top-level object
// decoded from a pipeline file (e.g., configs/pipelines/*.json).
type Pipeline struct {
	// Job names the run. It is used for log prefixes and metrics labeling.
	Job string `json:"job"`

	// Source describes where input data comes from (e.g., local file).
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into records (e.g., Parquet).
	Parser Parser `json:"parser"`

	// Transform carries the report computation settings. The steps report has
	// exactly one documented knob, so this is a plain struct rather than a
	// kind/options bag.
	Transform TransformConfig `json:"transform"`

	// Storage describes where transformed records are written.
	Storage Storage `json:"storage"`

	// Runtime controls batching and channel buffer sizes.
	Runtime RuntimeConfig `json:"runtime"`
}

// TransformConfig holds the report transform parameters.
type TransformConfig struct {
	// StepsPerFloor is the scalar multiplied with each employee's floor to
	// produce steps_to_desk. It is integer-typed end to end; the linter
	// rejects values below 1 so no string ever reaches the arithmetic.
	StepsPerFloor int `json:"steps_per_floor"`
}

// RuntimeConfig controls batching and channel buffer sizes. Zero values mean
// "use defaults"; the run command resolves them with optional environment
// overrides (12-factor style).
type RuntimeConfig struct {
	BatchSize     int `json:"batch_size"`
	ChannelBuffer int `json:"channel_buffer"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into logical rows/columns.
type Parser struct {
	// Kind selects the parser implementation. Current value: "parquet".
	Kind string `json:"kind"`
}

// Storage selects the sink used to persist transformed records.
type Storage struct {
	// Kind selects the storage implementation: "csv", "sqlite", "postgres",
	// or "mssql".
	Kind string `json:"kind"`

	// CSV carries options for the "csv" storage kind.
	CSV CSVConfig `json:"csv"`

	// DB carries options for the database storage kinds.
	DB DBConfig `json:"db"`
}

// CSVConfig configures the single-file CSV sink.
type CSVConfig struct {
	// Path is the destination file. The sink writes to a temporary sibling
	// and renames over Path on close, so reruns overwrite atomically and the
	// output is always a single file.
	Path string `json:"path"`

	// Delimiter is the field separator; defaults to "," when empty.
	Delimiter string `json:"delimiter"`

	// Charset selects the output encoding: "utf-8" (default), "utf-8-bom",
	// "windows-1250", or "iso-8859-1".
	Charset string `json:"charset"`
}

// DBConfig configures the database sinks.
type DBConfig struct {
	// DSN is the connection string understood by the selected backend
	// (pgx URL for postgres, database/sql DSN for sqlite and mssql).
	// The STEPS_ETL_DSN environment variable overrides it when set.
	DSN string `json:"dsn"`

	// Table is the destination table name (schema-qualified where the
	// backend supports it).
	Table string `json:"table"`

	// AutoCreateTable creates the report table before loading when true.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Load reads and decodes a pipeline document from disk.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return p, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p, nil
}

// MarshalConfig renders a pipeline back to indented JSON. The seed command
// uses it to write a ready-to-run pipeline document next to its fixtures.
func MarshalConfig(p Pipeline) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
