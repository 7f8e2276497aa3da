package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/metrics"
	"github.com/jonathan/portfolio-grader/internal/server"
)

// purgeInterval is how often expired cache entries and share links are swept.
const purgeInterval = time.Hour

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes grading, batch, share, and cache endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	coordinator := newCoordinator(ctx, cfg, store, m)

	srv, err := server.New(cfg, coordinator, store, m, registry)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeLoop(purgeCtx, store)

	return srv.Start()
}

// purgeLoop sweeps expired entries on a fixed interval until ctx is done.
func purgeLoop(ctx context.Context, store cache.Store) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := store.Purge(ctx); err != nil {
				log.Printf("cache purge failed: %v", err)
			} else if n > 0 {
				log.Printf("cache purge removed %d expired entries", n)
			}
		}
	}
}
