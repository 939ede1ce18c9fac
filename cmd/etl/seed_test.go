package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stepsreport/internal/config"
)

// TestSeedFixtures runs seed into a temp dir and checks the three artifacts:
// the employees dataset, the expected report, and a pipeline document that
// loads, lints clean, and actually runs against the seeded input.
func TestSeedFixtures(t *testing.T) {
	dir := t.TempDir()
	if err := seed(dir, 21); err != nil {
		t.Fatalf("seed: %v", err)
	}

	spec, err := config.Load(filepath.Join(dir, "steps_report.json"))
	if err != nil {
		t.Fatalf("load seeded pipeline: %v", err)
	}
	if issues := config.ValidatePipeline(spec); len(issues) != 0 {
		t.Fatalf("seeded pipeline does not lint clean: %v", issues)
	}
	if spec.Source.File.Path != filepath.Join(dir, "employees.parquet") {
		t.Fatalf("source path = %q; want the seeded dataset", spec.Source.File.Path)
	}
	if spec.Transform.StepsPerFloor != 21 {
		t.Fatalf("steps_per_floor = %d; want 21", spec.Transform.StepsPerFloor)
	}

	if err := runJob(context.Background(), spec); err != nil {
		t.Fatalf("runJob over seeded pipeline: %v", err)
	}
	raw, err := os.ReadFile(spec.Storage.CSV.Path)
	if err != nil {
		t.Fatalf("read seeded report: %v", err)
	}
	want := "id,name,steps_to_desk\n" +
		"1,Dan Germain,21\n" +
		"2,Dan Sommerville,21\n" +
		"3,Alex Ioannides,42\n" +
		"4,Ken Lai,42\n" +
		"5,Stu White,63\n" +
		"6,Mark Sweeting,63\n" +
		"7,Phil Bird,84\n" +
		"8,Kim Suter,84\n"
	if string(raw) != want {
		t.Fatalf("report = %q; want %q", raw, want)
	}
}
