package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Email     EmailConfig     `yaml:"email"`
	Payment   PaymentConfig   `yaml:"payment"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// PaymentConfig contains payment provider settings
type PaymentConfig struct {
	BaseURL                 string `yaml:"base_url"`
	APIKey                  string `yaml:"api_key"`
	Currency                string `yaml:"currency"`
	RequestTimeoutSeconds   int    `yaml:"request_timeout_seconds"`
	ChallengeTimeoutSeconds int    `yaml:"challenge_timeout_seconds"`
	ChallengePollIntervalMS int    `yaml:"challenge_poll_interval_ms"`
}

// PricingConfig contains the remote pricing endpoint settings.
// An empty base URL disables the remote quoter; every quote is then
// computed with the local fallback formula.
type PricingConfig struct {
	BaseURL               string `yaml:"base_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// CheckoutConfig contains booking policy settings
type CheckoutConfig struct {
	MaxRentalDays     int `yaml:"max_rental_days"`
	ServiceFeePercent int `yaml:"service_fee_percent"`
	DraftTTLHours     int `yaml:"draft_ttl_hours"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	PurgeExpiredDrafts  string `yaml:"purge_expired_drafts"`
	SendPickupReminders string `yaml:"send_pickup_reminders"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	// Load .env if present so env overrides work in local dev
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// Payment provider
	if val := os.Getenv("PAYMENT_BASE_URL"); val != "" {
		c.Payment.BaseURL = val
	}
	if val := os.Getenv("PAYMENT_API_KEY"); val != "" {
		c.Payment.APIKey = val
	}

	// Pricing endpoint
	if val := os.Getenv("PRICING_BASE_URL"); val != "" {
		c.Pricing.BaseURL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60 // 1 hour
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7 // 7 days
	}

	// Payment validation
	if c.Payment.BaseURL == "" {
		return fmt.Errorf("payment provider base URL is required")
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "GBP"
	}
	if c.Payment.RequestTimeoutSeconds == 0 {
		c.Payment.RequestTimeoutSeconds = 30
	}
	if c.Payment.ChallengeTimeoutSeconds == 0 {
		c.Payment.ChallengeTimeoutSeconds = 600 // 10 minutes
	}
	if c.Payment.ChallengePollIntervalMS == 0 {
		c.Payment.ChallengePollIntervalMS = 1000
	}

	// Pricing defaults
	if c.Pricing.RequestTimeoutSeconds == 0 {
		c.Pricing.RequestTimeoutSeconds = 10
	}

	// Checkout policy defaults
	if c.Checkout.MaxRentalDays == 0 {
		c.Checkout.MaxRentalDays = 5
	}
	if c.Checkout.ServiceFeePercent == 0 {
		c.Checkout.ServiceFeePercent = 6
	}
	if c.Checkout.DraftTTLHours == 0 {
		c.Checkout.DraftTTLHours = 24
	}

	// Scheduler defaults
	if c.Scheduler.PurgeExpiredDrafts == "" {
		c.Scheduler.PurgeExpiredDrafts = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendPickupReminders == "" {
		c.Scheduler.SendPickupReminders = "0 0 9 * * *" // 9 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
