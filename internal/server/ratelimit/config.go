package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific
// endpoint. Paths ending in "/" are matched by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// NewConfig builds the limiter configuration for the grading API. perMinute
// is the default per-client limit for single gradings; environment variables
// still override the knobs that operators tune in production.
func NewConfig(perMinute int) *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) || perMinute <= 0 {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", perMinute),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(perMinute),
	}
}

// endpointConfigs returns the per-endpoint tiers. Batch endpoints fan one
// request out into up to a hundred fetches, so they get hourly budgets.
func endpointConfigs(perMinute int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/grade", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: 5},
		{Path: "/batch-grade", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/batch-upload-csv", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/batch-export-csv", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/batch-export-xlsx", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/share/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 30},
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
