package config

import (
	"strings"
	"testing"
)

// validPipeline returns a pipeline that lints clean; tests mutate one field
// at a time.
func validPipeline() Pipeline {
	return Pipeline{
		Job:       "steps_report",
		Source:    Source{Kind: "file", File: SourceFile{Path: "employees.parquet"}},
		Parser:    Parser{Kind: "parquet"},
		Transform: TransformConfig{StepsPerFloor: 21},
		Storage:   Storage{Kind: "csv", CSV: CSVConfig{Path: "out/report.csv"}},
	}
}

func TestValidatePipelineClean(t *testing.T) {
	issues := ValidatePipeline(validPipeline())
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidatePipelineErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
		path   string
	}{
		{"empty source kind", func(p *Pipeline) { p.Source.Kind = "" }, "source.kind"},
		{"file without path", func(p *Pipeline) { p.Source.File.Path = "" }, "source.file.path"},
		{"empty parser kind", func(p *Pipeline) { p.Parser.Kind = "" }, "parser.kind"},
		{"zero steps per floor", func(p *Pipeline) { p.Transform.StepsPerFloor = 0 }, "transform.steps_per_floor"},
		{"negative steps per floor", func(p *Pipeline) { p.Transform.StepsPerFloor = -3 }, "transform.steps_per_floor"},
		{"empty storage kind", func(p *Pipeline) { p.Storage.Kind = "" }, "storage.kind"},
		{"csv without path", func(p *Pipeline) { p.Storage.CSV.Path = "" }, "storage.csv.path"},
		{"multi-rune delimiter", func(p *Pipeline) { p.Storage.CSV.Delimiter = ";;" }, "storage.csv.delimiter"},
		{"bad charset", func(p *Pipeline) { p.Storage.CSV.Charset = "ebcdic" }, "storage.csv.charset"},
		{"db without table", func(p *Pipeline) {
			p.Storage.Kind = "sqlite"
			p.Storage.DB.DSN = "file:report.db"
		}, "storage.db.table"},
		{"negative batch size", func(p *Pipeline) { p.Runtime.BatchSize = -1 }, "runtime.batch_size"},
		{"negative channel buffer", func(p *Pipeline) { p.Runtime.ChannelBuffer = -1 }, "runtime.channel_buffer"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPipeline()
			tc.mutate(&p)

			issues := ValidatePipeline(p)
			if !HasErrors(issues) {
				t.Fatalf("expected an error issue, got %v", issues)
			}
			found := false
			for _, iss := range issues {
				if iss.Severity == SeverityError && iss.Path == tc.path {
					found = true
				}
			}
			if !found {
				t.Fatalf("no error at path %q in %v", tc.path, issues)
			}
		})
	}
}

func TestValidatePipelineWarnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
		path   string
	}{
		{"empty job", func(p *Pipeline) { p.Job = "" }, "job"},
		{"unknown source kind", func(p *Pipeline) { p.Source.Kind = "s3" }, "source.kind"},
		{"unknown parser kind", func(p *Pipeline) { p.Parser.Kind = "avro" }, "parser.kind"},
		{"unknown storage kind", func(p *Pipeline) { p.Storage.Kind = "kafka" }, "storage.kind"},
		{"db without dsn", func(p *Pipeline) {
			p.Storage.Kind = "postgres"
			p.Storage.DB.Table = "public.report"
		}, "storage.db.dsn"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPipeline()
			tc.mutate(&p)

			issues := ValidatePipeline(p)
			if HasErrors(issues) {
				t.Fatalf("expected warnings only, got %v", issues)
			}
			found := false
			for _, iss := range issues {
				if iss.Severity == SeverityWarning && iss.Path == tc.path {
					found = true
				}
			}
			if !found {
				t.Fatalf("no warning at path %q in %v", tc.path, issues)
			}
		})
	}
}

// TestIssueError verifies Issue renders as a single readable error value.
func TestIssueError(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "storage.kind", Message: "must not be empty"}
	s := iss.Error()
	for _, part := range []string{"error", "storage.kind", "must not be empty"} {
		if !strings.Contains(s, part) {
			t.Fatalf("Error() = %q; missing %q", s, part)
		}
	}
}
