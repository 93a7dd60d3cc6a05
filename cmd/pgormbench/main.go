// Package main provides the CLI entry point for pgormbench, a benchmark
// comparing raw-driver and ORM access to Postgres.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"

	"pgormbench/internal/bench"
	"pgormbench/internal/config"
	"pgormbench/internal/report"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("benchmark failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "pgormbench",
		Short: "Benchmark raw-driver vs ORM access to Postgres",
		Long: `Pgormbench times the same workload through pgx (raw SQL via sqlx) and
through GORM against one Postgres instance: concurrent selects, concurrent
updates, a batch insert and concurrent inserts, then prints how much slower
the slower path was in each category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		cfgFile    string
		envFile    string
		seedRows   int
		ops        int
		workers    int
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all benchmark categories and print the comparison table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, envFile)
			if err != nil {
				return fmt.Errorf("configuration, %w", err)
			}

			if cmd.Flags().Changed("rows") {
				cfg.Bench.SeedRows = seedRows
			}
			if cmd.Flags().Changed("ops") {
				cfg.Bench.Ops = ops
			}
			if cmd.Flags().Changed("workers") {
				cfg.Bench.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration, %w", err)
			}

			return runBenchmark(cmd.Context(), logger, cfg, outputJSON)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "",
		"Path to config file (default: ./config.yaml if present)")
	flags.StringVar(&envFile, "env-file", "",
		"Path to .env file (default: ./.env if present)")
	flags.IntVar(&seedRows, "rows", 1000,
		"Rows seeded before select/update trials")
	flags.IntVar(&ops, "ops", 100,
		"Operations per trial")
	flags.IntVar(&workers, "workers", 10,
		"Concurrent workers per trial")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of a table")

	return cmd
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	outputJSON bool,
) error {
	dsn := cfg.DSN()
	workers := cfg.Bench.Workers

	driver := bench.Factory{
		Label: "Pgx",
		New: func(context.Context) (bench.Path, error) {
			return bench.NewSQLPath("pgx", dsn, workers)
		},
	}
	orm := bench.Factory{
		Label: "GORM",
		New: func(context.Context) (bench.Path, error) {
			return bench.NewORMPath(postgres.Open(dsn), workers)
		},
	}

	h := bench.New(driver, orm, bench.Options{
		SeedRows: cfg.Bench.SeedRows,
		Ops:      cfg.Bench.Ops,
		Workers:  workers,
	}, logger)

	run, err := h.Run(ctx)
	if err != nil {
		return err
	}

	if outputJSON {
		err = report.JSON(os.Stdout, run)
	} else {
		err = report.Generate(os.Stdout, run)
	}
	if err != nil {
		return fmt.Errorf("render report, %w", err)
	}

	if run.Failed() {
		return fmt.Errorf("one or more categories failed")
	}

	logger.Info("benchmark complete")

	return nil
}
