package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("BANK_API_URL", "")
	t.Setenv("BANK_API_TIMEOUT", "")
	t.Setenv("RECONCILE_CONCURRENCY", "")
	t.Setenv("BANK_LOCALE", "")
	t.Setenv("BANK_CURRENCY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BankAPIURL != "http://localhost:5000" {
		t.Fatalf("expected default bank api url, got %q", cfg.BankAPIURL)
	}
	if cfg.BankAPIBasePath != "/bank" {
		t.Fatalf("expected default base path /bank, got %q", cfg.BankAPIBasePath)
	}
	if cfg.BankAPITimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.BankAPITimeout)
	}
	if cfg.ReconcileConcurrency != 4 {
		t.Fatalf("expected concurrency 4, got %d", cfg.ReconcileConcurrency)
	}
	if cfg.BankLocale != "de-DE" || cfg.BankCurrency != "EUR" {
		t.Fatalf("expected de-DE/EUR, got %q/%q", cfg.BankLocale, cfg.BankCurrency)
	}
	if cfg.StatementRetention() != 30*24*time.Hour {
		t.Fatalf("expected 30 day retention, got %s", cfg.StatementRetention())
	}
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("BANK_API_URL", " https://bank.example.com ")
	t.Setenv("BANK_API_BASE_PATH", "/api/bank")
	t.Setenv("BANK_API_TIMEOUT", "3s")
	t.Setenv("RECONCILE_JOB_SCHEDULE", "@hourly")
	t.Setenv("STATEMENT_RETENTION_DAYS", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BankAPIURL != "https://bank.example.com" {
		t.Fatalf("expected trimmed url, got %q", cfg.BankAPIURL)
	}
	if cfg.BankAPIBasePath != "/api/bank" {
		t.Fatalf("expected base path from env, got %q", cfg.BankAPIBasePath)
	}
	if cfg.BankAPITimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.BankAPITimeout)
	}
	if cfg.ReconcileJobSchedule != "@hourly" {
		t.Fatalf("expected schedule from env, got %q", cfg.ReconcileJobSchedule)
	}
	if cfg.StatementRetentionDays != 7 {
		t.Fatalf("expected retention 7, got %d", cfg.StatementRetentionDays)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.SlogLevel())
	}
}

func TestLoadConfig_RejectsInvalidBankURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("BANK_API_URL", "localhost:5000")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected invalid url error")
	}
	if !strings.Contains(err.Error(), "BANK_API_URL") {
		t.Fatalf("expected error to mention BANK_API_URL, got %v", err)
	}
}

func TestLoadConfig_Currency(t *testing.T) {
	t.Run("lower case code is accepted", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("BANK_LOCALE", "en-US")
		t.Setenv("BANK_CURRENCY", " usd ")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if cfg.BankLocale != "en-US" || cfg.BankCurrency != "USD" {
			t.Fatalf("expected en-US/USD, got %q/%q", cfg.BankLocale, cfg.BankCurrency)
		}
	})

	t.Run("unknown code is rejected", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Setenv("BANK_CURRENCY", "EURO")

		_, err := LoadConfig()
		if err == nil || !strings.Contains(err.Error(), "BANK_CURRENCY") {
			t.Fatalf("expected BANK_CURRENCY error, got %v", err)
		}
	})
}

func TestConfig_SlogLevelFallsBackToInfo(t *testing.T) {
	cfg := Config{LogLevel: "chatty"}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("expected info level, got %s", cfg.SlogLevel())
	}
}
