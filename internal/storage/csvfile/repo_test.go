package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

var reportColumns = []string{"id", "name", "steps_to_desk"}

var reportRows = [][]any{
	{int64(1), "Dan Germain", int64(21)},
	{int64(3), "Alex Ioannides", int64(42)},
	{int64(8), "Kim Suter", int64(84)},
}

// writeReport runs one full open/copy/close cycle and returns the output
// bytes plus the content hash.
func writeReport(t *testing.T, cfg Config, rows [][]any) ([]byte, uint64) {
	t.Helper()

	repo, err := NewRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	if len(rows) > 0 {
		n, err := repo.CopyFrom(context.Background(), reportColumns, rows)
		if err != nil {
			t.Fatalf("CopyFrom: %v", err)
		}
		if n != int64(len(rows)) {
			t.Fatalf("CopyFrom wrote %d rows; want %d", n, len(rows))
		}
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(cfg.Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return raw, repo.ContentHash()
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")
	raw, _ := writeReport(t, Config{Path: path, Columns: reportColumns}, reportRows)

	want := "id,name,steps_to_desk\n" +
		"1,Dan Germain,21\n" +
		"3,Alex Ioannides,42\n" +
		"8,Kim Suter,84\n"
	if string(raw) != want {
		t.Fatalf("output = %q; want %q", raw, want)
	}
}

// TestRerunOverwrites verifies a second run with the same input replaces the
// destination with byte-identical content and an equal content hash.
func TestRerunOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	cfg := Config{Path: path, Columns: reportColumns}

	first, hash1 := writeReport(t, cfg, reportRows)
	second, hash2 := writeReport(t, cfg, reportRows)

	if !bytes.Equal(first, second) {
		t.Fatalf("rerun output differs:\nfirst  = %q\nsecond = %q", first, second)
	}
	if hash1 != hash2 {
		t.Fatalf("content hashes differ: %016x vs %016x", hash1, hash2)
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries; want only the output file", len(entries))
	}
}

func TestEmptyInputWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	raw, _ := writeReport(t, Config{Path: path, Columns: reportColumns}, nil)

	if string(raw) != "id,name,steps_to_desk\n" {
		t.Fatalf("output = %q; want header only", raw)
	}
}

func TestCustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	cfg := Config{Path: path, Delimiter: ";", Columns: reportColumns}
	raw, _ := writeReport(t, cfg, reportRows[:1])

	want := "id;name;steps_to_desk\n1;Dan Germain;21\n"
	if string(raw) != want {
		t.Fatalf("output = %q; want %q", raw, want)
	}
}

func TestUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	cfg := Config{Path: path, Charset: "utf-8-bom", Columns: reportColumns}
	raw, _ := writeReport(t, cfg, nil)

	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("output missing UTF-8 BOM: % x", raw[:3])
	}
	if string(raw[3:]) != "id,name,steps_to_desk\n" {
		t.Fatalf("output after BOM = %q", raw[3:])
	}
}

// TestCharsetReencoding checks non-ASCII names come out in the configured
// single-byte charset rather than UTF-8.
func TestCharsetReencoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	cfg := Config{Path: path, Charset: "iso-8859-1", Columns: reportColumns}
	rows := [][]any{{int64(1), "René Müller", int64(21)}}
	raw, _ := writeReport(t, cfg, rows)

	// "é" is a single 0xE9 byte in ISO-8859-1.
	if !bytes.Contains(raw, []byte{'R', 'e', 'n', 0xE9}) {
		t.Fatalf("output not ISO-8859-1 encoded: % x", raw)
	}
	if bytes.Contains(raw, []byte("é")) {
		t.Fatalf("output still contains UTF-8 sequences: %q", raw)
	}
}

func TestColumnMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	repo, err := NewRepository(context.Background(), Config{Path: path, Columns: reportColumns})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	if _, err := repo.CopyFrom(context.Background(), []string{"id"}, [][]any{{int64(1)}}); err == nil {
		t.Fatal("expected error for column count mismatch")
	}
	// After a write error, Close must not publish the output.
	if err := repo.Close(); err == nil {
		t.Fatal("expected Close to report the write error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("destination exists after failed run: %v", err)
	}
}

func TestRowLengthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	repo, err := NewRepository(context.Background(), Config{Path: path, Columns: reportColumns})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer repo.Close()

	if _, err := repo.CopyFrom(context.Background(), reportColumns, [][]any{{int64(1), "short"}}); err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty path", Config{Columns: reportColumns}},
		{"no columns", Config{Path: filepath.Join(dir, "a.csv")}},
		{"multi-rune delimiter", Config{Path: filepath.Join(dir, "b.csv"), Delimiter: "||", Columns: reportColumns}},
		{"unknown charset", Config{Path: filepath.Join(dir, "c.csv"), Charset: "koi8-r", Columns: reportColumns}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRepository(context.Background(), tc.cfg); err == nil {
				t.Fatal("expected a configuration error")
			}
		})
	}
}
