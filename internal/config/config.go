// Package config provides configuration loading for the grading service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the service configuration. It can be loaded from a JSON
// file; environment variables override file values.
type Config struct {
	// Server
	Addr         string   `json:"addr,omitempty"`          // Listen address, e.g. ":8080"
	AllowOrigins []string `json:"allow_origins,omitempty"` // CORS allowed origins

	// API keys
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	GroqAPIKey   string `json:"groq_api_key,omitempty"`   // Groq API key
	AdminSecret  string `json:"admin_secret,omitempty"`   // HS256 secret for admin tokens

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL; used when DatabaseURL is empty

	// External capabilities
	FaceDetectURL string `json:"face_detect_url,omitempty"` // Face detection endpoint

	// Behavior
	MaxConcurrent int  `json:"max_concurrent,omitempty"` // Batch worker pool size
	UseBrowser    bool `json:"use_browser,omitempty"`    // Use headless browser for SPA sites
	AIEnabled     bool `json:"ai_enabled"`               // AI narrative on/off
	FacesEnabled  bool `json:"faces_enabled"`            // Photo validation on/off
	ShareEnabled  bool `json:"share_enabled"`            // Shareable links on/off
	Verbose       bool `json:"verbose,omitempty"`        // Print detailed debug information

	// Timeouts and TTLs, in seconds and days as named
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`
	AITimeoutSeconds    int `json:"ai_timeout_seconds,omitempty"`
	ImageTimeoutSeconds int `json:"image_timeout_seconds,omitempty"`
	CacheTTLDays        int `json:"cache_ttl_days,omitempty"`

	// Rate limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:                ":8080",
		AllowOrigins:        []string{"*"},
		MaxConcurrent:       5,
		UseBrowser:          true,
		AIEnabled:           true,
		FacesEnabled:        true,
		ShareEnabled:        true,
		FetchTimeoutSeconds: 30,
		AITimeoutSeconds:    45,
		ImageTimeoutSeconds: 15,
		CacheTTLDays:        7,
		RateLimitPerMinute:  30,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays environment variables onto the config. Call after
// godotenv has loaded any .env file.
func (c *Config) FromEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&c.Addr, "ADDR")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GroqAPIKey, "GROQ_API_KEY")
	setString(&c.AdminSecret, "ADMIN_SECRET")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.FaceDetectURL, "FACE_DETECT_URL")
	setInt(&c.MaxConcurrent, "MAX_CONCURRENT")
	setInt(&c.CacheTTLDays, "CACHE_TTL_DAYS")
	setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("config error: 'max_concurrent' must be non-negative")
	}
	if c.CacheTTLDays < 0 {
		return fmt.Errorf("config error: 'cache_ttl_days' must be non-negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Bool fields are not merged; flags and env always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if len(result.AllowOrigins) == 0 {
		result.AllowOrigins = defaults.AllowOrigins
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GroqAPIKey == "" {
		result.GroqAPIKey = defaults.GroqAPIKey
	}
	if result.AdminSecret == "" {
		result.AdminSecret = defaults.AdminSecret
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.FaceDetectURL == "" {
		result.FaceDetectURL = defaults.FaceDetectURL
	}
	if result.MaxConcurrent == 0 {
		result.MaxConcurrent = defaults.MaxConcurrent
	}
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.AITimeoutSeconds == 0 {
		result.AITimeoutSeconds = defaults.AITimeoutSeconds
	}
	if result.ImageTimeoutSeconds == 0 {
		result.ImageTimeoutSeconds = defaults.ImageTimeoutSeconds
	}
	if result.CacheTTLDays == 0 {
		result.CacheTTLDays = defaults.CacheTTLDays
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}

	return result
}

// FetchTimeout returns the fetch timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// AITimeout returns the AI call timeout as a duration.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

// ImageTimeout returns the image download timeout as a duration.
func (c *Config) ImageTimeout() time.Duration {
	return time.Duration(c.ImageTimeoutSeconds) * time.Second
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLDays) * 24 * time.Hour
}
