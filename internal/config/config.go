// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Upstream sources accepted by Config.Source.
const (
	SourceBackend = "backend"
	SourceGitHub  = "github"
)

// Config holds the runtime settings shared by all commands.
type Config struct {
	// APIBaseURL is the stats backend root, e.g. http://localhost:1323/api.
	APIBaseURL string
	// Source selects the upstream: SourceBackend or SourceGitHub.
	Source string
	// GitHubToken is only read from the environment; it is required for SourceGitHub.
	GitHubToken    string
	ListenAddr     string
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads .env if it exists, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal; variables may come from the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:     getEnv("STATS_API_BASE_URL", "http://localhost:1323/api"),
		Source:         getEnv("STATS_SOURCE", SourceBackend),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		ListenAddr:     getEnv("STATS_LISTEN_ADDR", ":8080"),
		RequestTimeout: time.Duration(getEnvAsInt("STATS_REQUEST_TIMEOUT", 30)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceBackend:
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("STATS_API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
		}
	case SourceGitHub:
		if c.GitHubToken == "" {
			return fmt.Errorf("GITHUB_TOKEN environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown source %q (want %q or %q)", c.Source, SourceBackend, SourceGitHub)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
