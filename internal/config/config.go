package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Bank data provider
	ProviderBaseURL  string
	ProviderClientID string
	ProviderSecret   string
	ProviderTimeout  time.Duration

	// Sync
	SyncWindowDays  int
	SyncInterval    time.Duration
	SyncConcurrency int

	// Transaction deletion does not reverse the account balance by default;
	// this opt-in enables the reversing delta.
	ReverseBalanceOnDelete bool

	// Backend selection: "provider" talks to the real feed, "stub" uses the
	// in-memory one for local development.
	FeedBackend string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "bank_sync"),

		ProviderBaseURL:  getEnv("PROVIDER_BASE_URL", "https://sandbox.plaid.com"),
		ProviderClientID: getEnv("PROVIDER_CLIENT_ID", ""),
		ProviderSecret:   getEnv("PROVIDER_SECRET", ""),
		ProviderTimeout:  getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second),

		SyncWindowDays:  getEnvInt("SYNC_WINDOW_DAYS", 30),
		SyncInterval:    getEnvDuration("SYNC_INTERVAL", 6*time.Hour),
		SyncConcurrency: getEnvInt("SYNC_CONCURRENCY", 4),

		ReverseBalanceOnDelete: getEnvBool("REVERSE_BALANCE_ON_DELETE", false),

		FeedBackend: getEnv("FEED_BACKEND", "stub"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	validBackends := []string{"provider", "stub"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.FeedBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid feed backend '%s': must be one of %v", c.FeedBackend, validBackends))
	}

	// The real provider needs credentials; the stub does not.
	if c.FeedBackend == "provider" {
		if c.ProviderBaseURL == "" {
			errors = append(errors, "provider base URL is required when using the provider backend")
		} else if parsedURL, err := url.Parse(c.ProviderBaseURL); err != nil || parsedURL.Scheme == "" {
			errors = append(errors, fmt.Sprintf("invalid provider base URL '%s'", c.ProviderBaseURL))
		}
		if c.ProviderClientID == "" {
			errors = append(errors, "PROVIDER_CLIENT_ID is required when using the provider backend")
		}
		if c.ProviderSecret == "" {
			errors = append(errors, "PROVIDER_SECRET is required when using the provider backend")
		}
	}

	if c.ProviderTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid provider timeout %v: must be at least 1 second", c.ProviderTimeout))
	} else if c.ProviderTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid provider timeout %v: must be at most 1 minute", c.ProviderTimeout))
	}

	if c.SyncWindowDays < 1 {
		errors = append(errors, fmt.Sprintf("invalid sync window %d: must be at least 1 day", c.SyncWindowDays))
	} else if c.SyncWindowDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid sync window %d: must be at most 365 days", c.SyncWindowDays))
	}

	if c.SyncInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 minute", c.SyncInterval))
	} else if c.SyncInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 7 days", c.SyncInterval))
	}

	if c.SyncConcurrency < 1 || c.SyncConcurrency > 64 {
		errors = append(errors, fmt.Sprintf("invalid sync concurrency %d: must be between 1 and 64", c.SyncConcurrency))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
