package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Database configuration
	DatabaseURL   string
	MigrationsDir string

	// Auth configuration
	JWTSecret     string
	TokenTTLHours int

	// Google Programmable Search (site-scoped mention discovery)
	GoogleAPIKey         string
	GoogleSearchEngineID string

	// Direct platform API credentials
	TwitterBearerToken  string
	RedditClientID      string
	RedditClientSecret  string
	FacebookAccessToken string

	// Scheduled monitoring
	MonitorSchedule  string // "daily" or "weekly"
	MonitorPlatforms []string

	// Notification configuration
	WebhookURL        string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Report archive (Azure Blob)
	ArchiveAccount   string
	ArchiveContainer string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTLHours: getIntEnv("TOKEN_TTL_HOURS", 24),

		GoogleAPIKey:         getEnv("GOOGLE_API_KEY", ""),
		GoogleSearchEngineID: getEnv("GOOGLE_SEARCH_ENGINE_ID", ""),

		TwitterBearerToken:  getEnv("TWITTER_BEARER_TOKEN", ""),
		RedditClientID:      getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret:  getEnv("REDDIT_CLIENT_SECRET", ""),
		FacebookAccessToken: getEnv("FACEBOOK_ACCESS_TOKEN", ""),

		MonitorSchedule:  getEnv("MONITOR_SCHEDULE", "weekly"),
		MonitorPlatforms: getSliceEnv("MONITOR_PLATFORMS", []string{"twitter", "reddit", "facebook", "news"}),

		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		ArchiveAccount:   getEnv("ARCHIVE_STORAGE_ACCOUNT", ""),
		ArchiveContainer: getEnv("ARCHIVE_STORAGE_CONTAINER", "digests"),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.MonitorSchedule != "daily" && c.MonitorSchedule != "weekly" {
		return fmt.Errorf("MONITOR_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// HasGoogleSearch reports whether live site-scoped search is configured.
// Without it the search pipeline serves synthetic mentions.
func (c *Config) HasGoogleSearch() bool {
	return c.GoogleAPIKey != "" && c.GoogleSearchEngineID != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
