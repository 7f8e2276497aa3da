package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-grader/internal/cache"
	"github.com/jonathan/portfolio-grader/internal/config"
	"github.com/jonathan/portfolio-grader/internal/faces"
	"github.com/jonathan/portfolio-grader/internal/metrics"
)

func TestLoadConfigDefaults(t *testing.T) {
	configPath = ""
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5, cfg.MaxConcurrent)
}

func TestNewStoreFallsBackToMemory(t *testing.T) {
	store, err := newStore(context.Background(), config.Config{})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*cache.Memory)
	assert.True(t, ok, "no backend configured means in-memory cache")
}

func TestNewDetector(t *testing.T) {
	cfg := config.Defaults()
	cfg.FaceDetectURL = ""
	_, disabled := newDetector(cfg).(faces.Disabled)
	assert.True(t, disabled, "no endpoint disables detection")

	cfg.FacesEnabled = false
	cfg.FaceDetectURL = "http://faces.internal/detect"
	_, disabled = newDetector(cfg).(faces.Disabled)
	assert.True(t, disabled, "the feature flag wins over the endpoint")

	cfg.FacesEnabled = true
	_, disabled = newDetector(cfg).(faces.Disabled)
	assert.False(t, disabled)
}

func TestNewNarratorAlwaysHasFallback(t *testing.T) {
	cfg := config.Defaults()
	narrator := newNarrator(context.Background(), cfg, metrics.NewForTest())
	assert.NotNil(t, narrator, "the chain exists even without API keys")
}
