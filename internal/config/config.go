// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server settings
	ServerAddr string
	Debug      bool

	// News source settings
	NewsAPIKey      string
	FeedsConfigPath string
	NewsTimeout     time.Duration
	DefaultPageSize int

	// Translation settings
	TranslateTimeout time.Duration
	CacheTTL         time.Duration

	// OpenAI settings
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Gemini settings
	GeminiAPIKey  string
	GeminiTimeout time.Duration

	// Scraper settings
	ScrapeTimeout time.Duration

	// Wordcloud settings
	WordcloudDir    string
	WordcloudFont   string
	WordcloudWidth  int
	WordcloudHeight int
	WordcloudMaxAge time.Duration

	// Retry settings
	RetryAttempts int
	RetryDelay    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		ServerAddr:       ":8080",
		FeedsConfigPath:  "configs/feeds.yaml",
		NewsTimeout:      10 * time.Second,
		DefaultPageSize:  10,
		TranslateTimeout: 15 * time.Second,
		CacheTTL:         time.Hour,
		OpenAIModel:      "gpt-4o-mini",
		OpenAITimeout:    20 * time.Second,
		GeminiTimeout:    20 * time.Second,
		ScrapeTimeout:    10 * time.Second,
		WordcloudDir:     "wordclouds",
		WordcloudWidth:   600,
		WordcloudHeight:  400,
		WordcloudMaxAge:  time.Hour,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}

	// Load from environment
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.ServerAddr = getEnvOrDefault("SERVER_ADDR", cfg.ServerAddr)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.WordcloudDir = getEnvOrDefault("WORDCLOUD_DIR", cfg.WordcloudDir)
	cfg.WordcloudFont = getEnvOrDefault("WORDCLOUD_FONT", cfg.WordcloudFont)

	cfg.NewsTimeout = getEnvSecondsOrDefault("NEWS_TIMEOUT_SECONDS", cfg.NewsTimeout)
	cfg.TranslateTimeout = getEnvSecondsOrDefault("TRANSLATE_TIMEOUT_SECONDS", cfg.TranslateTimeout)
	cfg.OpenAITimeout = getEnvSecondsOrDefault("OPENAI_TIMEOUT_SECONDS", cfg.OpenAITimeout)
	cfg.GeminiTimeout = getEnvSecondsOrDefault("GEMINI_TIMEOUT_SECONDS", cfg.GeminiTimeout)
	cfg.ScrapeTimeout = getEnvSecondsOrDefault("SCRAPE_TIMEOUT_SECONDS", cfg.ScrapeTimeout)

	if v := getEnvIntOrDefault("DEFAULT_PAGE_SIZE", cfg.DefaultPageSize); v > 0 {
		cfg.DefaultPageSize = v
	}
	if v := getEnvIntOrDefault("CACHE_TTL_MINUTES", 0); v > 0 {
		cfg.CacheTTL = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("WORDCLOUD_WIDTH", cfg.WordcloudWidth); v > 0 {
		cfg.WordcloudWidth = v
	}
	if v := getEnvIntOrDefault("WORDCLOUD_HEIGHT", cfg.WordcloudHeight); v > 0 {
		cfg.WordcloudHeight = v
	}
	if v := getEnvIntOrDefault("WORDCLOUD_MAX_AGE_MINUTES", 0); v > 0 {
		cfg.WordcloudMaxAge = time.Duration(v) * time.Minute
	}
	if v := getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts); v > 0 {
		cfg.RetryAttempts = v
	}
	if v := getEnvIntOrDefault("RETRY_DELAY_SECONDS", 0); v > 0 {
		cfg.RetryDelay = time.Duration(v) * time.Second
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return time.Duration(intValue) * time.Second
		}
	}
	return defaultValue
}

// Validate checks structural settings only. API keys are optional: the
// server runs with RSS feeds and degraded summarization without them.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("SERVER_ADDR must not be empty")
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > 100 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and 100")
	}
	return nil
}
