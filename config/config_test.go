package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, 30*time.Second, config.NavTimeout)
	assert.Equal(t, 10*time.Second, config.IdleTimeout)
	assert.Equal(t, 20, config.ScrollMaxSteps)
	assert.Equal(t, 50, config.MaxProducts)
	assert.Equal(t, 5, config.EnrichLimit)
	assert.Equal(t, 70, config.EnrichThreshold)
	assert.Equal(t, "products", config.RedisStream)
	assert.False(t, config.PublishEnabled())
	assert.False(t, config.CacheEnabled())

	// Test with environment variables
	os.Setenv("NAV_TIMEOUT_SECONDS", "15")
	os.Setenv("MAX_PRODUCTS", "10")
	os.Setenv("ENRICH_THRESHOLD", "80")
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	os.Setenv("TARGET_URLS", "https://a.example.com, https://b.example.com")

	config = LoadConfig()
	assert.Equal(t, 15*time.Second, config.NavTimeout)
	assert.Equal(t, 10, config.MaxProducts)
	assert.Equal(t, 80, config.EnrichThreshold)
	assert.True(t, config.PublishEnabled())
	assert.True(t, config.CacheEnabled())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, config.TargetURLs)

	// Clean up
	os.Unsetenv("NAV_TIMEOUT_SECONDS")
	os.Unsetenv("MAX_PRODUCTS")
	os.Unsetenv("ENRICH_THRESHOLD")
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("MEMCACHE_ADDR")
	os.Unsetenv("TARGET_URLS")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.NavTimeout = 0
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.EnrichThreshold = 150
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.ScrollMaxSteps = -1
	assert.Error(t, config.Validate())
}
