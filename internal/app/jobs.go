/**
 * @description
 * Scheduled job implementations for the bank client.
 */
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/transfa/bank-client/internal/config"
	"github.com/transfa/bank-client/internal/domain"
	"github.com/transfa/bank-client/internal/store"
	"github.com/transfa/bank-client/pkg/rabbitmq"
	"golang.org/x/sync/errgroup"
)

// BankClient defines the bank service operations needed by the jobs.
type BankClient interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccountBalance(ctx context.Context, id int64) (decimal.Decimal, error)
}

// LedgerReconstructor rebuilds the ledger of one account.
type LedgerReconstructor interface {
	Reconstruct(ctx context.Context, accountID int64) (*domain.Ledger, error)
}

// StatementStore defines the database operations needed by the jobs.
type StatementStore interface {
	LatestStatement(ctx context.Context, accountID int64) (*domain.Statement, error)
	SaveStatement(ctx context.Context, s domain.Statement) (int64, error)
	DeleteStatementsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReconcileSummary counts the outcome of one reconciliation run.
type ReconcileSummary struct {
	Checked    int
	Mismatched int
	Failed     int
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	bank      BankClient
	ledgers   LedgerReconstructor
	store     StatementStore
	publisher rabbitmq.Publisher
	logger    *slog.Logger
	config    config.Config
	money     *domain.MoneyFormatter
	now       func() time.Time
}

// NewJobs creates a new Jobs runner. statements may be nil, in which case
// statements are not persisted.
func NewJobs(bank BankClient, ledgers LedgerReconstructor, statements StatementStore, publisher rabbitmq.Publisher, logger *slog.Logger, cfg config.Config) *Jobs {
	if publisher == nil {
		publisher = &rabbitmq.EventProducerFallback{Logger: logger}
	}
	money, err := domain.NewMoneyFormatter(cfg.BankLocale, cfg.BankCurrency)
	if err != nil {
		money = domain.DefaultMoneyFormatter()
	}
	return &Jobs{
		bank:      bank,
		ledgers:   ledgers,
		store:     statements,
		publisher: publisher,
		logger:    logger,
		config:    cfg,
		money:     money,
		now:       time.Now,
	}
}

// ReconcileAccountBalances is the job that checks every account's
// reconstructed ledger against the balance reported by the service.
func (j *Jobs) ReconcileAccountBalances() {
	j.logger.Info("starting balance reconciliation job")

	summary, err := j.Reconcile(context.Background())
	if err != nil {
		j.logger.Error("failed to list accounts", "error", err)
		return
	}

	j.logger.Info("balance reconciliation job finished",
		"checked", summary.Checked, "mismatched", summary.Mismatched, "failed", summary.Failed)
}

// Reconcile runs one reconciliation over all accounts. It only fails when the
// accounts cannot be listed; per-account failures are counted and logged.
func (j *Jobs) Reconcile(ctx context.Context) (ReconcileSummary, error) {
	accounts, err := j.bank.ListAccounts(ctx)
	if err != nil {
		return ReconcileSummary{}, err
	}

	if len(accounts) == 0 {
		j.logger.Info("no accounts to reconcile")
		return ReconcileSummary{}, nil
	}

	var (
		mu      sync.Mutex
		summary ReconcileSummary
	)

	var g errgroup.Group
	g.SetLimit(max(j.config.ReconcileConcurrency, 1))
	for _, account := range accounts {
		account := account
		g.Go(func() error {
			statement, err := j.reconcileAccount(ctx, account.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
			case !statement.Balanced():
				summary.Checked++
				summary.Mismatched++
			default:
				summary.Checked++
			}
			return nil
		})
	}
	_ = g.Wait()

	return summary, nil
}

func (j *Jobs) reconcileAccount(ctx context.Context, accountID int64) (domain.Statement, error) {
	l, err := j.ledgers.Reconstruct(ctx, accountID)
	if err != nil {
		j.logger.Error("failed to reconstruct ledger", "account_id", accountID, "error", err)
		return domain.Statement{}, err
	}

	remote, err := j.bank.GetAccountBalance(ctx, accountID)
	if err != nil {
		j.logger.Error("failed to get account balance", "account_id", accountID, "error", err)
		return domain.Statement{}, err
	}

	statement := domain.NewStatement(l, remote, j.now())
	reported := j.alreadyReported(ctx, statement)

	if j.store != nil {
		id, err := j.store.SaveStatement(ctx, statement)
		if err != nil {
			j.logger.Error("failed to save statement", "account_id", accountID, "error", err)
		} else {
			statement.ID = id
		}
	}

	if statement.Balanced() {
		j.logger.Debug("account balance matches ledger", "account_id", accountID, "balance", remote.String())
		return statement, nil
	}

	j.logger.Warn("account balance does not match ledger",
		"account_id", accountID,
		"reconstructed_balance", j.money.Format(statement.ClosingBalance),
		"remote_balance", j.money.Format(remote),
		"discrepancy", j.money.Format(statement.Discrepancy()))

	if reported {
		j.logger.Info("balance mismatch already reported", "account_id", accountID)
		return statement, nil
	}

	event := domain.NewBalanceMismatchEvent(statement)
	if err := j.publisher.PublishBalanceMismatch(ctx, event); err != nil {
		j.logger.Error("failed to publish balance mismatch event", "account_id", accountID, "error", err)
	}

	return statement, nil
}

// alreadyReported tells whether the previous statement of the account
// recorded the same mismatch as s.
func (j *Jobs) alreadyReported(ctx context.Context, s domain.Statement) bool {
	if j.store == nil || s.Balanced() {
		return false
	}

	previous, err := j.store.LatestStatement(ctx, s.AccountID)
	if err != nil {
		if !errors.Is(err, store.ErrStatementNotFound) {
			j.logger.Warn("failed to load previous statement", "account_id", s.AccountID, "error", err)
		}
		return false
	}

	return !previous.Balanced() &&
		previous.ClosingBalance.Equal(s.ClosingBalance) &&
		previous.RemoteBalance.Equal(s.RemoteBalance)
}

// PurgeExpiredStatements is the job that deletes statements past retention.
func (j *Jobs) PurgeExpiredStatements() {
	if j.store == nil {
		return
	}

	j.logger.Info("starting statement purge job")
	ctx := context.Background()

	cutoff := j.now().Add(-j.config.StatementRetention())
	deleted, err := j.store.DeleteStatementsOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to purge statements", "cutoff", cutoff, "error", err)
		return
	}

	j.logger.Info("statement purge job finished", "deleted", deleted, "cutoff", cutoff)
}
