package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stepsreport/internal/config"
	"stepsreport/internal/parser/parquetfmt"
	"stepsreport/internal/transformer"
	"stepsreport/pkg/records"
)

// seedEmployees is the canonical employees dataset used for fixtures and
// local runs.
var seedEmployees = []records.Employee{
	{ID: 1, FirstName: "Dan", SecondName: "Germain", Floor: 1},
	{ID: 2, FirstName: "Dan", SecondName: "Sommerville", Floor: 1},
	{ID: 3, FirstName: "Alex", SecondName: "Ioannides", Floor: 2},
	{ID: 4, FirstName: "Ken", SecondName: "Lai", Floor: 2},
	{ID: 5, FirstName: "Stu", SecondName: "White", Floor: 3},
	{ID: 6, FirstName: "Mark", SecondName: "Sweeting", Floor: 3},
	{ID: 7, FirstName: "Phil", SecondName: "Bird", Floor: 4},
	{ID: 8, FirstName: "Kim", SecondName: "Suter", Floor: 4},
}

func newSeedCmd() *cobra.Command {
	var (
		dir           string
		stepsPerFloor int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the employees Parquet fixture and its expected report",
		Long: `Seed creates both pre- and post-transform datasets as Parquet files:
employees.parquet holds the raw input rows and employees_report.parquet the
rows the transform is expected to produce for the given steps-per-floor.
It also writes steps_report.json, a pipeline document wired to the seeded
input, so "etl run -c <dir>/steps_report.json" works straight away.`,
		RunE: func(c *cobra.Command, args []string) error {
			return seed(dir, stepsPerFloor)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "testdata", "output directory")
	cmd.Flags().IntVar(&stepsPerFloor, "steps-per-floor", 21, "steps per floor used for the expected report")
	return cmd
}

func seed(dir string, stepsPerFloor int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("seed: mkdir %s: %w", dir, err)
	}

	employeesPath := filepath.Join(dir, "employees.parquet")
	if err := writeParquet(employeesPath, func(f *os.File) error {
		return parquetfmt.WriteEmployees(f, seedEmployees)
	}); err != nil {
		return err
	}
	log.Printf("seed: wrote %d employees to %s", len(seedEmployees), employeesPath)

	in := make([]records.Record, len(seedEmployees))
	for i, e := range seedEmployees {
		in[i] = e.Record()
	}
	out := transformer.StepsReport(stepsPerFloor).Apply(in)

	report := make([]records.ReportRow, len(out))
	for i, rec := range out {
		report[i] = records.ReportRow{
			ID:          rec["id"].(int64),
			Name:        rec["name"].(string),
			StepsToDesk: rec["steps_to_desk"].(int64),
		}
	}

	reportPath := filepath.Join(dir, "employees_report.parquet")
	if err := writeParquet(reportPath, func(f *os.File) error {
		return parquetfmt.WriteReport(f, report)
	}); err != nil {
		return err
	}
	log.Printf("seed: wrote %d report rows to %s (steps_per_floor=%d)", len(report), reportPath, stepsPerFloor)

	configPath := filepath.Join(dir, "steps_report.json")
	doc, err := config.MarshalConfig(seedPipeline(dir, stepsPerFloor))
	if err != nil {
		return fmt.Errorf("seed: marshal pipeline: %w", err)
	}
	if err := os.WriteFile(configPath, doc, 0o644); err != nil {
		return fmt.Errorf("seed: write %s: %w", configPath, err)
	}
	log.Printf("seed: wrote pipeline document to %s", configPath)

	return nil
}

// seedPipeline is the runnable pipeline document written next to the
// fixtures: it extracts the seeded employees and loads a CSV report into the
// same directory.
func seedPipeline(dir string, stepsPerFloor int) config.Pipeline {
	return config.Pipeline{
		Job:       "steps_report",
		Source:    config.Source{Kind: "file", File: config.SourceFile{Path: filepath.Join(dir, "employees.parquet")}},
		Parser:    config.Parser{Kind: "parquet"},
		Transform: config.TransformConfig{StepsPerFloor: stepsPerFloor},
		Storage:   config.Storage{Kind: "csv", CSV: config.CSVConfig{Path: filepath.Join(dir, "steps_report.csv")}},
	}
}

// writeParquet creates path and hands the file to the encode callback.
func writeParquet(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("seed: create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("seed: close %s: %w", path, err)
	}
	return nil
}
