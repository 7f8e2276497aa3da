package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/portfolio-grader/internal/analysis"
	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/config"
	"github.com/jonathan/portfolio-grader/internal/db"
	"github.com/jonathan/portfolio-grader/internal/faces"
	"github.com/jonathan/portfolio-grader/internal/fetch"
	"github.com/jonathan/portfolio-grader/internal/llm"
	"github.com/jonathan/portfolio-grader/internal/metrics"
)

// loadConfig resolves the effective configuration: file, then environment,
// then defaults for whatever is still unset.
func loadConfig() (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	} else {
		cfg = config.Defaults()
	}

	cfg.FromEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newStore picks the cache backend: PostgreSQL when DATABASE_URL is set,
// Redis when REDIS_URL is set, in-memory otherwise.
func newStore(ctx context.Context, cfg config.Config) (cache.Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return database, nil
	case cfg.RedisURL != "":
		return cache.NewRedis(ctx, cfg.RedisURL)
	default:
		return cache.NewMemory(), nil
	}
}

// newNarrator builds the AI provider chain: Gemini first, Groq as fallback,
// rule-based advice last so a review always comes back.
func newNarrator(ctx context.Context, cfg config.Config, m *metrics.Metrics) *llm.Chain {
	var providers []llm.Provider

	gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, llm.DefaultGeminiModel)
	if err != nil {
		log.Printf("Gemini provider unavailable: %v", err)
	} else {
		providers = append(providers, gemini)
	}
	providers = append(providers,
		llm.NewGroq(cfg.GroqAPIKey, "", llm.DefaultGroqModel),
		llm.RuleBased{},
	)

	onAttempt := func(provider, outcome string) {
		m.AIProviderAttempts.WithLabelValues(provider, outcome).Inc()
	}
	return llm.NewChain(cfg.AITimeout(), onAttempt, providers...)
}

// newDetector wires the face detection capability when an endpoint is
// configured.
func newDetector(cfg config.Config) faces.Detector {
	if !cfg.FacesEnabled || cfg.FaceDetectURL == "" {
		return faces.Disabled{}
	}
	return faces.NewHTTPDetector(cfg.FaceDetectURL, cfg.ImageTimeout())
}

// newCoordinator assembles the full grading pipeline from configuration.
func newCoordinator(ctx context.Context, cfg config.Config, store cache.Store, m *metrics.Metrics) *analysis.Coordinator {
	fetcher := fetch.NewClient(&fetch.ClientConfig{
		Options: &fetch.Options{
			Timeout:   cfg.FetchTimeout(),
			UserAgent: fetch.DefaultUserAgent,
		},
		BrowserEnabled: cfg.UseBrowser,
		BrowserTimeout: cfg.FetchTimeout(),
		Verbose:        cfg.Verbose,
	})

	opts := analysis.DefaultOptions()
	opts.CacheTTL = cfg.CacheTTL()
	opts.ShareEnabled = cfg.ShareEnabled
	opts.AIEnabled = cfg.AIEnabled
	opts.FacesEnabled = cfg.FacesEnabled
	opts.MaxConcurrent = cfg.MaxConcurrent
	opts.ImageTimeout = cfg.ImageTimeout()
	opts.NarrateTimeout = cfg.AITimeout()

	return analysis.New(fetcher, nil, newNarrator(ctx, cfg, m), newDetector(cfg), store, m, opts)
}
