/**
 * @description
 * This file handles configuration management for the bank client.
 * It loads settings from environment variables, providing defaults for the
 * bank service address, timeouts and job schedules.
 */
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Config holds all configuration for the bank client.
type Config struct {
	BankAPIURL                string        `mapstructure:"BANK_API_URL"`
	BankAPIBasePath           string        `mapstructure:"BANK_API_BASE_PATH"`
	BankAPITimeout            time.Duration `mapstructure:"BANK_API_TIMEOUT"`
	LedgerTimeout             time.Duration `mapstructure:"LEDGER_TIMEOUT"`
	BankLocale                string        `mapstructure:"BANK_LOCALE"`
	BankCurrency              string        `mapstructure:"BANK_CURRENCY"`
	LogLevel                  string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL               string        `mapstructure:"DATABASE_URL"`
	RabbitMQURL               string        `mapstructure:"RABBITMQ_URL"`
	LedgerEventsExchange      string        `mapstructure:"LEDGER_EVENTS_EXCHANGE"`
	ReconcileJobSchedule      string        `mapstructure:"RECONCILE_JOB_SCHEDULE"`
	StatementPurgeJobSchedule string        `mapstructure:"STATEMENT_PURGE_JOB_SCHEDULE"`
	StatementRetentionDays    int           `mapstructure:"STATEMENT_RETENTION_DAYS"`
	ReconcileConcurrency      int           `mapstructure:"RECONCILE_CONCURRENCY"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("BANK_API_URL", "http://localhost:5000")
	viper.SetDefault("BANK_API_BASE_PATH", "/bank")
	viper.SetDefault("BANK_API_TIMEOUT", "15s")
	viper.SetDefault("LEDGER_TIMEOUT", "30s")
	viper.SetDefault("BANK_LOCALE", "de-DE")
	viper.SetDefault("BANK_CURRENCY", "EUR")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LEDGER_EVENTS_EXCHANGE", "bank.events")
	viper.SetDefault("RECONCILE_JOB_SCHEDULE", "*/15 * * * *")   // Every 15 minutes.
	viper.SetDefault("STATEMENT_PURGE_JOB_SCHEDULE", "0 3 * * *") // At 03:00 every day.
	viper.SetDefault("STATEMENT_RETENTION_DAYS", 30)
	viper.SetDefault("RECONCILE_CONCURRENCY", 4)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("BANK_API_URL")
	_ = viper.BindEnv("BANK_API_BASE_PATH")
	_ = viper.BindEnv("BANK_API_TIMEOUT")
	_ = viper.BindEnv("LEDGER_TIMEOUT")
	_ = viper.BindEnv("BANK_LOCALE")
	_ = viper.BindEnv("BANK_CURRENCY")
	_ = viper.BindEnv("LOG_LEVEL")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("LEDGER_EVENTS_EXCHANGE")
	_ = viper.BindEnv("RECONCILE_JOB_SCHEDULE")
	_ = viper.BindEnv("STATEMENT_PURGE_JOB_SCHEDULE")
	_ = viper.BindEnv("STATEMENT_RETENTION_DAYS")
	_ = viper.BindEnv("RECONCILE_CONCURRENCY")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.BankAPIURL = strings.TrimSpace(config.BankAPIURL)
	u, err := url.Parse(config.BankAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("BANK_API_URL must be an absolute http(s) url, got %q", config.BankAPIURL)
	}

	config.BankLocale = strings.TrimSpace(config.BankLocale)
	if _, err := language.Parse(config.BankLocale); err != nil {
		return nil, fmt.Errorf("BANK_LOCALE must be a BCP 47 tag such as de-DE, got %q", config.BankLocale)
	}
	config.BankCurrency = strings.ToUpper(strings.TrimSpace(config.BankCurrency))
	if _, err := currency.ParseISO(config.BankCurrency); err != nil {
		return nil, fmt.Errorf("BANK_CURRENCY must be an ISO 4217 code such as EUR, got %q", config.BankCurrency)
	}

	config.DatabaseURL = strings.TrimSpace(config.DatabaseURL)
	config.RabbitMQURL = strings.TrimSpace(config.RabbitMQURL)

	if config.BankAPITimeout <= 0 {
		config.BankAPITimeout = 15 * time.Second
	}
	if config.LedgerTimeout <= 0 {
		config.LedgerTimeout = 30 * time.Second
	}
	if config.StatementRetentionDays <= 0 {
		config.StatementRetentionDays = 30
	}
	if config.ReconcileConcurrency <= 0 {
		config.ReconcileConcurrency = 4
	}

	return &config, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// StatementRetention is how long reconstructed statements are kept.
func (c Config) StatementRetention() time.Duration {
	return time.Duration(c.StatementRetentionDays) * 24 * time.Hour
}
