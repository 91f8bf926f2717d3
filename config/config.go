// Package config loads process configuration from environment
// variables with sane defaults, following the teacher's envOr-style
// helpers (config/config.go in the reference repo).
package config

import (
	"os"
	"strconv"
)

// Config holds all tunables for the extraction pipeline.
type Config struct {
	Tier        TierConfig
	Browser     BrowserConfig
	LibraryPool LibraryPoolConfig
	Log         LogConfig
}

// TierConfig controls the escalation policy's default ceiling.
type TierConfig struct {
	// MaxTier is the default ceiling passed to Extract when a caller
	// (e.g. the CLI) doesn't override it explicitly. default: 4
	MaxTier int
}

// BrowserConfig controls the Rod browser instance shared by Tiers 3/4.
type BrowserConfig struct {
	Headless   bool // default: true
	NoSandbox  bool // default: false (set true inside containers)
	BrowserBin string
	MaxPermits int // default: 3
}

// LibraryPoolConfig controls the Tier 2 worker pool.
type LibraryPoolConfig struct {
	Workers        int     // default: 4
	AdmitPerSecond float64 // default: 8
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables, falling back to
// spec-literal defaults when unset.
func Load() *Config {
	return &Config{
		Tier: TierConfig{
			MaxTier: envIntOr("WEBEXTRACT_MAX_TIER", 4),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("WEBEXTRACT_HEADLESS", true),
			NoSandbox:  envBoolOr("WEBEXTRACT_NO_SANDBOX", false),
			BrowserBin: os.Getenv("WEBEXTRACT_BROWSER_BIN"),
			MaxPermits: envIntOr("WEBEXTRACT_BROWSER_PERMITS", 3),
		},
		LibraryPool: LibraryPoolConfig{
			Workers:        envIntOr("WEBEXTRACT_LIBRARY_WORKERS", 4),
			AdmitPerSecond: envFloatOr("WEBEXTRACT_LIBRARY_ADMIT_RATE", 8),
		},
		Log: LogConfig{
			Level:  envOr("WEBEXTRACT_LOG_LEVEL", "info"),
			Format: envOr("WEBEXTRACT_LOG_FORMAT", "json"),
		},
	}
}

// --- helpers ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
