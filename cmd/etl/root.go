package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"stepsreport/internal/config"
	"stepsreport/internal/metrics"
	"stepsreport/internal/metrics/prompush"
)

// runOptions carries the flags of the run command.
type runOptions struct {
	ConfigPath     string
	Job            string
	MetricsBackend string
	PushgatewayURL string
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "etl",
		Short:        "Batch ETL job producing the steps-to-desk report",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(newRunCmd(), newValidateCmd(), newSeedCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the extract → transform → load pipeline",
		RunE: func(c *cobra.Command, args []string) error {
			spec, err := loadAndLint(opts.ConfigPath)
			if err != nil {
				return err
			}
			if opts.Job != "" {
				spec.Job = opts.Job
			}

			setupMetrics(spec.Job, opts.MetricsBackend, opts.PushgatewayURL)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()

			return runJob(c.Context(), spec)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "configs/pipelines/steps_report.json", "pipeline config JSON path")
	cmd.Flags().StringVar(&opts.Job, "job", "", "override the job name from the config")
	cmd.Flags().StringVar(&opts.MetricsBackend, "metrics-backend", "", "metrics backend: pushgateway or none (defaults to $METRICS_BACKEND, then none)")
	cmd.Flags().StringVar(&opts.PushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Lint a pipeline config and exit",
		RunE: func(c *cobra.Command, args []string) error {
			if _, err := loadAndLint(cfgPath); err != nil {
				return err
			}
			log.Printf("configuration is valid: %s", cfgPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "configs/pipelines/steps_report.json", "pipeline config JSON path")
	return cmd
}

// loadAndLint decodes the pipeline document and surfaces lint findings.
// Warnings go to stderr; errors make the command fail.
func loadAndLint(path string) (config.Pipeline, error) {
	spec, err := config.Load(path)
	if err != nil {
		return spec, err
	}

	issues := config.ValidatePipeline(spec)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return spec, fmt.Errorf("configuration is invalid: %s", path)
	}
	return spec, nil
}

// resolveMetricsBackend picks the backend name. An explicit flag value wins,
// then the METRICS_BACKEND environment variable, then "none". The flag's zero
// value stays empty so an omitted flag never shadows the env.
func resolveMetricsBackend(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("METRICS_BACKEND"); v != "" {
		return v
	}
	return "none"
}

// setupMetrics installs the selected metrics backend.
func setupMetrics(job, backendName, gatewayURL string) {
	backendName = resolveMetricsBackend(backendName)
	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		if job == "" {
			job = "steps_report"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: url=%v backend=%v job=%v", gatewayURL, backendName, job)
		metrics.SetBackend(b)

	case "none":
		// metrics disabled; nop backend remains

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}
