/**
 * @description
 * This is the main entry point for the bank client.
 * It is a non-HTTP, long-running process that builds the bank service client and the
 * ledger reconstructor, then runs the reconciliation and statement purge jobs on a schedule.
 *
 * @dependencies
 * - github.com/joho/godotenv: To load .env files for local development.
 * - github.com/jackc/pgx/v5: Optional statement store.
 * - github.com/transfa/bank-client/pkg/rabbitmq: Optional mismatch event publishing.
 */
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/transfa/bank-client/internal/app"
	"github.com/transfa/bank-client/internal/config"
	"github.com/transfa/bank-client/internal/domain"
	"github.com/transfa/bank-client/internal/ledger"
	"github.com/transfa/bank-client/internal/store"
	"github.com/transfa/bank-client/pkg/bankclient"
	"github.com/transfa/bank-client/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development. In production, env vars are set directly.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx := context.Background()

	money, err := domain.NewMoneyFormatter(cfg.BankLocale, cfg.BankCurrency)
	if err != nil {
		logger.Error("invalid currency settings", "error", err)
		os.Exit(1)
	}

	client := bankclient.NewClient(cfg.BankAPIURL, cfg.BankAPIBasePath,
		bankclient.WithTimeout(cfg.BankAPITimeout),
		bankclient.WithLogger(logger),
		bankclient.WithMoneyFormatter(money),
	)
	logger.Info("bank client configured", "base_url", client.BaseURL(), "currency", money.Code())

	reconstructor := ledger.NewReconstructor(client,
		ledger.WithTimeout(cfg.LedgerTimeout),
		ledger.WithLogger(logger),
	)

	// The statement store is optional; without it statements are not persisted.
	var statements app.StatementStore
	if cfg.DatabaseURL != "" {
		dbpool, err := connectDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		logger.Info("database connection established")

		repository := store.NewRepository(dbpool)
		if err := repository.EnsureSchema(ctx); err != nil {
			logger.Error("unable to prepare statement schema", "error", err)
			os.Exit(1)
		}
		statements = repository
	} else {
		logger.Warn("DATABASE_URL not set, statements will not be stored")
	}

	var publisher rabbitmq.Publisher = &rabbitmq.EventProducerFallback{Logger: logger}
	if cfg.RabbitMQURL != "" {
		if producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL, cfg.LedgerEventsExchange); err == nil {
			publisher = producer
			defer producer.Close()
			logger.Info("RabbitMQ producer initialized", "exchange", producer.Exchange())
		} else {
			logger.Warn("failed to connect to RabbitMQ, using fallback publisher", "error", err)
		}
	}

	jobs := app.NewJobs(client, reconstructor, statements, publisher, logger, *cfg)
	scheduler := app.NewScheduler(jobs, logger, *cfg)

	scheduled := scheduler.Start()
	logger.Info("scheduler started", "jobs", scheduled)

	// Wait for termination signal to gracefully shut down
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received, stopping scheduler")
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped gracefully")
}

func connectDatabase(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pgConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pgConfig.MaxConns = 10
	pgConfig.MinConns = 1
	pgConfig.MaxConnLifetime = 30 * time.Minute
	pgConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	pgConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	return pgxpool.NewWithConfig(ctx, pgConfig)
}
