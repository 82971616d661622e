package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
)

// Config holds client configuration.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	// DefaultOrigin pre-fills the search form.
	DefaultOrigin string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    strings.TrimRight(getEnv("SKYWINGS_API_BASE_URL", defaultBaseURL), "/"),
		HTTPTimeout:   defaultTimeout,
		LogLevel:      getEnv("SKYWINGS_LOG_LEVEL", "INFO"),
		LogFormat:     getEnv("SKYWINGS_LOG_FORMAT", "text"),
		LogFile:       os.Getenv("SKYWINGS_LOG_FILE"),
		DefaultOrigin: strings.ToUpper(strings.TrimSpace(os.Getenv("SKYWINGS_ORIGIN"))),
	}

	if raw := os.Getenv("SKYWINGS_HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SKYWINGS_HTTP_TIMEOUT %q: %w", raw, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("SKYWINGS_HTTP_TIMEOUT must be positive, got %s", timeout)
		}
		cfg.HTTPTimeout = timeout
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("SKYWINGS_API_BASE_URL must be an http(s) URL, got %q", cfg.APIBaseURL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
