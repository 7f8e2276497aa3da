package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-grader/internal/metrics"
	"github.com/jonathan/portfolio-grader/internal/observability"
)

var gradeJSON bool

var gradeCmd = &cobra.Command{
	Use:   "grade <url>",
	Short: "Grade a single portfolio URL",
	Long:  `Fetch a portfolio website, evaluate it against the rubric, and print the score, checklist, and review.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGrade,
}

func init() {
	gradeCmd.Flags().BoolVar(&gradeJSON, "json", false, "Print the raw JSON result")
	rootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
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

	result, err := coordinator.Grade(ctx, args[0])
	if err != nil {
		return fmt.Errorf("grading failed: %s", result.Error)
	}

	if gradeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintScore(result)
	if cfg.Verbose {
		printer.PrintChecklist(result.Checklist)
	}
	printer.PrintPhoto(result.Photo)
	printer.PrintAnalysis(result.AIAnalysis)
	printer.PrintResources(result.Resources)
	return nil
}
