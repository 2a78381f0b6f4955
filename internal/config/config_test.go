package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8082", cfg.HTTPAddr)
	assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	assert.Equal(t, "https://www.google.com/search?q=jobs+south+africa&ibp=htl;jobs", cfg.SearchURL)
	assert.Equal(t, "South Africa", cfg.RegionLabel)
	assert.Equal(t, "Africa/Johannesburg", cfg.Timezone)
	assert.Equal(t, 6, cfg.HarvestHour)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.BlockResources)
	assert.Equal(t, 3, cfg.TaskMaxRetries)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SEARCH_URL", "https://example.com/jobs")
	t.Setenv("REGION_LABEL", "Western Cape")
	t.Setenv("HARVEST_TIMEZONE", "UTC")
	t.Setenv("HARVEST_HOUR", "14")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("BLOCK_RESOURCES", "true")
	t.Setenv("TASK_MAX_RETRIES", "5")

	cfg := Load()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "https://example.com/jobs", cfg.SearchURL)
	assert.Equal(t, "Western Cape", cfg.RegionLabel)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 14, cfg.HarvestHour)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.BlockResources)
	assert.Equal(t, 5, cfg.TaskMaxRetries)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("HARVEST_HOUR", "noon")
	t.Setenv("BROWSER_HEADLESS", "maybe")

	cfg := Load()

	assert.Equal(t, 6, cfg.HarvestHour)
	assert.True(t, cfg.Headless)
}
