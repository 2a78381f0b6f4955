package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config enumerates every recognized option. Environment variables win over
// the optional configs/config.yaml overlay; unset options get defaults.
type Config struct {
	AppEnv        string `yaml:"app_env"`
	HTTPAddr      string `yaml:"http_addr"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"`
	DatabaseURL   string `yaml:"-"`

	// Harvest target
	SearchURL   string `yaml:"search_url"`
	RegionLabel string `yaml:"region_label"`

	// Schedule: hour-of-day in Timezone at which a run is triggered
	Timezone    string `yaml:"timezone"`
	HarvestHour int    `yaml:"harvest_hour"`

	// Browser
	BrowserPath    string `yaml:"browser_path"`
	Headless       bool   `yaml:"headless"`
	BlockResources bool   `yaml:"block_resources"`

	TaskMaxRetries int `yaml:"task_max_retries"`
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load builds the configuration: .env file, yaml overlay, then env overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:         "development",
		HTTPAddr:       ":8082",
		RedisAddr:      "127.0.0.1:6379",
		SearchURL:      "https://www.google.com/search?q=jobs+south+africa&ibp=htl;jobs",
		RegionLabel:    "South Africa",
		Timezone:       "Africa/Johannesburg",
		HarvestHour:    6,
		Headless:       true,
		TaskMaxRetries: 3,
	}

	if data, err := os.ReadFile("configs/config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(fmt.Errorf("parse configs/config.yaml: %w", err))
		}
	}

	cfg.AppEnv = getenv("APP_ENV", cfg.AppEnv)
	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.RedisAddr = getenv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.SearchURL = getenv("SEARCH_URL", cfg.SearchURL)
	cfg.RegionLabel = getenv("REGION_LABEL", cfg.RegionLabel)
	cfg.Timezone = getenv("HARVEST_TIMEZONE", cfg.Timezone)
	cfg.HarvestHour = getenvInt("HARVEST_HOUR", cfg.HarvestHour)
	cfg.BrowserPath = getenv("BROWSER_PATH", cfg.BrowserPath)
	cfg.Headless = getenvBool("BROWSER_HEADLESS", cfg.Headless)
	cfg.BlockResources = getenvBool("BLOCK_RESOURCES", cfg.BlockResources)
	cfg.TaskMaxRetries = getenvInt("TASK_MAX_RETRIES", cfg.TaskMaxRetries)

	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	return cfg
}
