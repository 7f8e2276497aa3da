package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 5, cfg.MaxConcurrent)
	assert.True(t, cfg.UseBrowser)
	assert.True(t, cfg.AIEnabled)
	assert.True(t, cfg.ShareEnabled)
	assert.Equal(t, 7, cfg.CacheTTLDays)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"addr": ":9090",
		"gemini_api_key": "test-key",
		"max_concurrent": 10,
		"ai_enabled": false,
		"cache_ttl_days": 3
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, 10, cfg.MaxConcurrent)
	assert.False(t, cfg.AIEnabled)
	assert.Equal(t, 3, cfg.CacheTTLDays)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ADDR", ":7000")
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("MAX_CONCURRENT", "8")
	t.Setenv("CACHE_TTL_DAYS", "14")

	cfg := Config{}
	cfg.FromEnv()

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "groq-key", cfg.GroqAPIKey)
	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.Equal(t, 14, cfg.CacheTTLDays)
}

func TestFromEnvIgnoresUnset(t *testing.T) {
	t.Setenv("MAX_CONCURRENT", "not-a-number")

	cfg := Config{Addr: ":8080", MaxConcurrent: 5}
	cfg.FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5, cfg.MaxConcurrent, "unparsable values leave the field alone")
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.MaxConcurrent = -1
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.CacheTTLDays = -1
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.RateLimitPerMinute = -1
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Addr: ":9000", AIEnabled: false}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, ":9000", merged.Addr, "explicit values win")
	assert.Equal(t, 5, merged.MaxConcurrent, "unset values come from defaults")
	assert.Equal(t, 30, merged.FetchTimeoutSeconds)
	assert.False(t, merged.AIEnabled, "bool fields are never merged")
}

func TestDurationHelpers(t *testing.T) {
	cfg := Config{
		FetchTimeoutSeconds: 30,
		AITimeoutSeconds:    45,
		ImageTimeoutSeconds: 15,
		CacheTTLDays:        7,
	}

	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 45*time.Second, cfg.AITimeout())
	assert.Equal(t, 15*time.Second, cfg.ImageTimeout())
	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL())
}
