package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"vendora/storescraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Browser configuration
	BrowserBin       string
	BrowserRemoteURL string
	NavTimeout       time.Duration
	IdleTimeout      time.Duration

	// Lazy-load scroll configuration
	ScrollMaxSteps int
	ScrollStepPx   int
	ScrollDelay    time.Duration

	// Extraction configuration
	MaxProducts     int
	EnrichLimit     int
	EnrichThreshold int

	// Memcache configuration (navigation rate limiting)
	MemcacheAddr    string
	NavBlockSeconds int

	// Redis configuration (optional product stream sink)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Worker configuration (watch mode)
	TargetURLs     []string
	ScrapeInterval time.Duration

	// Output
	OutputDir string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	navTimeout, _ := strconv.Atoi(getEnv("NAV_TIMEOUT_SECONDS", "30"))
	idleTimeout, _ := strconv.Atoi(getEnv("NETWORK_IDLE_TIMEOUT_SECONDS", "10"))
	scrollMaxSteps, _ := strconv.Atoi(getEnv("SCROLL_MAX_STEPS", "20"))
	scrollStepPx, _ := strconv.Atoi(getEnv("SCROLL_STEP_PX", "800"))
	scrollDelay, _ := strconv.Atoi(getEnv("SCROLL_DELAY_MS", "250"))
	maxProducts, _ := strconv.Atoi(getEnv("MAX_PRODUCTS", "50"))
	enrichLimit, _ := strconv.Atoi(getEnv("ENRICH_LIMIT", "5"))
	enrichThreshold, _ := strconv.Atoi(getEnv("ENRICH_THRESHOLD", "70"))
	navBlock, _ := strconv.Atoi(getEnv("NAV_BLOCK_SECONDS", "60"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAXLEN", "500"))
	scrapeInterval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_SECONDS", "300"))

	return &Config{
		BrowserBin:           getEnv("BROWSER_BIN", ""),
		BrowserRemoteURL:     getEnv("BROWSER_REMOTE_URL", ""),
		NavTimeout:           time.Duration(navTimeout) * time.Second,
		IdleTimeout:          time.Duration(idleTimeout) * time.Second,
		ScrollMaxSteps:       scrollMaxSteps,
		ScrollStepPx:         scrollStepPx,
		ScrollDelay:          time.Duration(scrollDelay) * time.Millisecond,
		MaxProducts:          maxProducts,
		EnrichLimit:          enrichLimit,
		EnrichThreshold:      enrichThreshold,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		NavBlockSeconds:      navBlock,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "products"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		TargetURLs:           splitList(getEnv("TARGET_URLS", "")),
		ScrapeInterval:       time.Duration(scrapeInterval) * time.Second,
		OutputDir:            getEnv("OUTPUT_DIR", "."),
		Environment:          getEnv("SCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid combinations
func (c *Config) Validate() error {
	if c.NavTimeout <= 0 {
		return errors.NewConfiguration("navigation timeout must be positive", nil)
	}
	if c.ScrollMaxSteps <= 0 {
		return errors.NewConfiguration("scroll step cap must be positive", nil)
	}
	if c.ScrollStepPx <= 0 {
		return errors.NewConfiguration("scroll increment must be positive", nil)
	}
	if c.EnrichThreshold < 0 || c.EnrichThreshold > 100 {
		return errors.NewConfiguration("enrichment threshold must be within 0-100", nil)
	}
	if c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("redis stream count must be positive", nil)
	}
	return nil
}

// PublishEnabled reports whether scraped products should be published to Redis
func (c *Config) PublishEnabled() bool {
	return c.RedisAddr != ""
}

// CacheEnabled reports whether the navigation rate-limit cache is configured
func (c *Config) CacheEnabled() bool {
	return c.MemcacheAddr != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated env value into trimmed entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
