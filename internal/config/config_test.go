package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "localhost", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Database: "toolshare"},
		JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
		Payment:  PaymentConfig{BaseURL: "http://localhost:9090"},
	}
}

func TestLoad_ShippedDevConfig(t *testing.T) {
	// The checked-in dev config must pass validation as-is, otherwise
	// the server and cronjob binaries exit at startup on their default
	// -config path.
	cfg, err := Load("../../config/config.dev.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.GreaterOrEqual(t, len(cfg.JWT.Secret), 32)
	assert.NotEmpty(t, cfg.Payment.BaseURL)
}

func TestValidate_RejectsShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.Secret = "too-short"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestValidate_AppliesDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "GBP", cfg.Payment.Currency)
	assert.Equal(t, 600, cfg.Payment.ChallengeTimeoutSeconds)
	assert.Equal(t, 1000, cfg.Payment.ChallengePollIntervalMS)
	assert.Equal(t, 5, cfg.Checkout.MaxRentalDays)
	assert.Equal(t, 6, cfg.Checkout.ServiceFeePercent)
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.PurgeExpiredDrafts)
}
