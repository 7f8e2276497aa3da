package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-grader/internal/export"
	"github.com/jonathan/portfolio-grader/internal/metrics"
	"github.com/jonathan/portfolio-grader/internal/observability"
)

var batchOutput string

var batchCmd = &cobra.Command{
	Use:   "batch <roster.csv>",
	Short: "Grade a CSV roster of portfolios",
	Long:  `Read a CSV of portfolio URLs, grade them concurrently, and write a report. The output format follows the file extension: .csv or .xlsx.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "report.csv", "Report file to write (.csv or .xlsx)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roster, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open roster: %w", err)
	}
	entries, err := export.ParseRoster(roster)
	_ = roster.Close()
	if err != nil {
		return err
	}

	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	coordinator := newCoordinator(ctx, cfg, store, m)

	fmt.Printf("Grading %d portfolios with %d workers...\n", len(entries), cfg.MaxConcurrent)
	batch := coordinator.GradeBatch(ctx, entries)

	out, err := os.Create(batchOutput)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() { _ = out.Close() }()

	if strings.HasSuffix(strings.ToLower(batchOutput), ".xlsx") {
		err = export.WriteXLSX(out, batch)
	} else {
		err = export.WriteCSV(out, batch)
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintBatchStats(batch.Stats)
	fmt.Printf("Report written to %s\n", batchOutput)
	return nil
}
