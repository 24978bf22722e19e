package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Frontdash   FrontdashConfig
	Checkout    CheckoutConfig
	Archive     ArchiveConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type FrontdashConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CheckoutConfig struct {
	Location         *time.Location
	FailureRate      float64
	DeliveryEstimate time.Duration
	EnforceLuhn      bool
	SessionTTL       time.Duration
}

type ArchiveConfig struct {
	Driver string
}

const (
	ArchiveDriverMemory   = "memory"
	ArchiveDriverPostgres = "postgres"
)

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeout, err := getDuration("FRONTDASH_API_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	estimate, err := getDuration("CHECKOUT_DELIVERY_ESTIMATE", "45m")
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("CHECKOUT_SESSION_TTL", "2h")
	if err != nil {
		return nil, err
	}

	failureRate, err := strconv.ParseFloat(getEnvOrViper("CHECKOUT_FAILURE_RATE", "0.10"), 64)
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_FAILURE_RATE must be a number: %w", err)
	}

	enforceLuhn, err := strconv.ParseBool(getEnvOrViper("CHECKOUT_ENFORCE_LUHN", "false"))
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_ENFORCE_LUHN must be a boolean: %w", err)
	}

	location, err := time.LoadLocation(getEnvOrViper("CHECKOUT_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8081"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "frontdash_checkout"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Frontdash: FrontdashConfig{
			BaseURL: getEnvOrViper("FRONTDASH_API_BASE", "http://localhost:8080"),
			Timeout: timeout,
		},
		Checkout: CheckoutConfig{
			Location:         location,
			FailureRate:      failureRate,
			DeliveryEstimate: estimate,
			EnforceLuhn:      enforceLuhn,
			SessionTTL:       ttl,
		},
		Archive: ArchiveConfig{
			Driver: getEnvOrViper("ARCHIVE_DRIVER", ArchiveDriverMemory),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c *Config) Validate() error {
	if c.Frontdash.BaseURL == "" {
		return fmt.Errorf("FRONTDASH_API_BASE is required")
	}
	if c.Frontdash.Timeout <= 0 {
		return fmt.Errorf("FRONTDASH_API_TIMEOUT must be positive")
	}
	if c.Checkout.FailureRate < 0 || c.Checkout.FailureRate > 1 {
		return fmt.Errorf("CHECKOUT_FAILURE_RATE must be between 0 and 1")
	}
	if c.Checkout.DeliveryEstimate <= 0 {
		return fmt.Errorf("CHECKOUT_DELIVERY_ESTIMATE must be positive")
	}
	if c.Checkout.SessionTTL <= 0 {
		return fmt.Errorf("CHECKOUT_SESSION_TTL must be positive")
	}
	switch c.Archive.Driver {
	case ArchiveDriverMemory:
	case ArchiveDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when ARCHIVE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_DRIVER %q", c.Archive.Driver)
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func getDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnvOrViper(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
