// Package csvfile implements a delimited-text storage.Repository that
// produces exactly one output file with a header row.
//
// Durability/overwrite semantics mirror a coalesced batch write: rows go to a
// temporary sibling file, and Close atomically renames it over the configured
// destination. A rerun with identical input therefore replaces the previous
// output with byte-identical content, and readers never observe a partially
// written file. While writing, an xxh3 hash of the emitted bytes is
// maintained and logged on close so byte-identical reruns are easy to verify
// from the logs alone.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"stepsreport/internal/storage"
	"stepsreport/pkg/records"
)

func init() {
	storage.Register("csv", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, Config{
			Path:      cfg.Path,
			Delimiter: cfg.Delimiter,
			Charset:   cfg.Charset,
			Columns:   records.ReportColumns(),
		})
	})
}

// Config holds CSV sink configuration.
type Config struct {
	Path      string   // destination file; parent directories are created
	Delimiter string   // field separator, "," when empty
	Charset   string   // "utf-8" (default), "utf-8-bom", "windows-1250", "iso-8859-1"
	Columns   []string // header row, written even when the input is empty
}

// Repository is a single-file CSV implementation of storage.Repository.
// It is not safe for concurrent use; the loader calls it from one goroutine.
type Repository struct {
	cfg  Config
	tmp  *os.File
	enc  io.WriteCloser // nil unless a charset re-encoder is stacked
	w    *csv.Writer
	hash *xxh3.Hasher

	rows     int64
	writeErr error
	sum      uint64
}

// utf8BOM is prepended to the output when charset "utf-8-bom" is selected.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (c Config) delimiter() (rune, error) {
	if c.Delimiter == "" {
		return ',', nil
	}
	rs := []rune(c.Delimiter)
	if len(rs) != 1 {
		return 0, fmt.Errorf("csv: delimiter must be a single character, got %q", c.Delimiter)
	}
	return rs[0], nil
}

func (c Config) encoding() (encoding.Encoding, error) {
	switch strings.ToLower(c.Charset) {
	case "", "utf-8", "utf-8-bom":
		return nil, nil
	case "windows-1250":
		return charmap.Windows1250, nil
	case "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("csv: unsupported charset %q", c.Charset)
	}
}

// NewRepository creates the temporary output file next to cfg.Path, prepares
// the writer stack (temp file → hash tap → optional charset encoder → csv
// writer), and emits the header row. The destination itself is untouched
// until Close.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("csv: path must not be empty")
	}
	if len(cfg.Columns) == 0 {
		return nil, fmt.Errorf("csv: columns must not be empty")
	}
	comma, err := cfg.delimiter()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.encoding()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csv: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(cfg.Path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("csv: create temp: %w", err)
	}

	fail := func(err error) (*Repository, error) {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}

	r := &Repository{cfg: cfg, tmp: tmp, hash: xxh3.New()}

	// Every byte that reaches the file also feeds the hash.
	var sink io.Writer = io.MultiWriter(tmp, r.hash)

	if strings.EqualFold(cfg.Charset, "utf-8-bom") {
		if _, err := sink.Write(utf8BOM); err != nil {
			return fail(fmt.Errorf("csv: write BOM: %w", err))
		}
	}
	if enc != nil {
		tw := transform.NewWriter(sink, enc.NewEncoder())
		r.enc = tw
		sink = tw
	}

	r.w = csv.NewWriter(sink)
	r.w.Comma = comma

	if err := r.w.Write(cfg.Columns); err != nil {
		return fail(fmt.Errorf("csv: write header: %w", err))
	}
	return r, nil
}

// EnsureTable is a no-op for the file sink; the header row is written when
// the repository is opened.
func (r *Repository) EnsureTable(ctx context.Context) error { return nil }

// CopyFrom appends the given rows in order. The columns slice must match the
// configured header. Returns the number of data rows written.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if r.writeErr != nil {
		return 0, r.writeErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(columns) != len(r.cfg.Columns) {
		r.writeErr = fmt.Errorf("csv: got %d columns, configured %d", len(columns), len(r.cfg.Columns))
		return 0, r.writeErr
	}

	var n int64
	cells := make([]string, len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			r.writeErr = fmt.Errorf("csv: row length %d != columns length %d", len(row), len(columns))
			return n, r.writeErr
		}
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		if err := r.w.Write(cells); err != nil {
			r.writeErr = fmt.Errorf("csv: write row: %w", err)
			return n, r.writeErr
		}
		n++
	}
	r.rows += n

	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.writeErr = fmt.Errorf("csv: flush: %w", err)
		return n, r.writeErr
	}
	return n, nil
}

// Close finalizes the output. On a clean run it flushes the writer stack and
// renames the temp file onto the destination; after a write error it removes
// the temp file and leaves any previous output in place.
func (r *Repository) Close() error {
	if r.tmp == nil {
		return nil
	}
	tmp := r.tmp
	r.tmp = nil

	if r.writeErr == nil {
		r.w.Flush()
		if err := r.w.Error(); err != nil {
			r.writeErr = fmt.Errorf("csv: flush: %w", err)
		}
	}
	if r.writeErr == nil && r.enc != nil {
		if err := r.enc.Close(); err != nil {
			r.writeErr = fmt.Errorf("csv: encoder close: %w", err)
		}
	}

	if r.writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return r.writeErr
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("csv: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.cfg.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("csv: rename: %w", err)
	}

	r.sum = r.hash.Sum64()
	log.Printf("csv: wrote rows=%d hash=%016x path=%s", r.rows, r.sum, r.cfg.Path)
	return nil
}

// ContentHash returns the xxh3 hash of the emitted bytes. Valid after Close.
func (r *Repository) ContentHash() uint64 { return r.sum }

// formatValue renders one cell. Integer types print exactly (no rounding or
// exponent form); nil prints as an empty cell.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	default:
		return fmt.Sprint(t)
	}
}
