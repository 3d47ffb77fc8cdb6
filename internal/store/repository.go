/**
 * @description
 * This file implements the data access layer for reconstructed statements.
 * Every reconciliation run stores the ledger it rebuilt for an account so
 * that discrepancies can be audited later.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/transfa/bank-client/internal/domain"
)

// ErrStatementNotFound is returned when an account has no stored statement.
var ErrStatementNotFound = errors.New("statement not found")

const schema = `
CREATE TABLE IF NOT EXISTS ledger_statements (
    id              BIGSERIAL PRIMARY KEY,
    account_id      BIGINT NOT NULL,
    closing_balance NUMERIC NOT NULL,
    remote_balance  NUMERIC NOT NULL,
    total_credits   NUMERIC NOT NULL,
    total_debits    NUMERIC NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS ledger_statements_account_created_idx
    ON ledger_statements (account_id, created_at DESC);
CREATE TABLE IF NOT EXISTS ledger_statement_entries (
    statement_id   BIGINT NOT NULL REFERENCES ledger_statements (id) ON DELETE CASCADE,
    position       INT NOT NULL,
    transaction_id BIGINT NOT NULL,
    source_account BIGINT NOT NULL,
    target_account BIGINT NOT NULL,
    amount         NUMERIC NOT NULL,
    direction      TEXT NOT NULL,
    balance        NUMERIC NOT NULL,
    PRIMARY KEY (statement_id, position)
);
`

const insertEntrySQL = `
	INSERT INTO ledger_statement_entries
	    (statement_id, position, transaction_id, source_account, target_account, amount, direction, balance)
	VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8::numeric)
`

// Repository handles database operations for statements.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the statement tables if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// SaveStatement stores the statement and its entries in one transaction and
// returns the new statement id.
func (r *Repository) SaveStatement(ctx context.Context, s domain.Statement) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	query := `
		INSERT INTO ledger_statements
		    (account_id, closing_balance, remote_balance, total_credits, total_debits, created_at)
		VALUES ($1, $2::numeric, $3::numeric, $4::numeric, $5::numeric, $6)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		s.AccountID,
		s.ClosingBalance.String(),
		s.RemoteBalance.String(),
		s.TotalCredits.String(),
		s.TotalDebits.String(),
		s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert statement: %w", err)
	}

	if len(s.Entries) > 0 {
		if err := tx.SendBatch(ctx, entryBatch(id, s.Entries)).Close(); err != nil {
			return 0, fmt.Errorf("failed to insert statement entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit statement: %w", err)
	}
	return id, nil
}

// LatestStatement returns the most recent statement of the account with its entries.
func (r *Repository) LatestStatement(ctx context.Context, accountID int64) (*domain.Statement, error) {
	query := `
		SELECT id, account_id, closing_balance::text, remote_balance::text,
		       total_credits::text, total_debits::text, created_at
		FROM ledger_statements
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var (
		s                                  domain.Statement
		closing, remote, credits, debits string
	)
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&s.ID, &s.AccountID, &closing, &remote, &credits, &debits, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStatementNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.ClosingBalance, err = parseNumeric(closing); err != nil {
		return nil, err
	}
	if s.RemoteBalance, err = parseNumeric(remote); err != nil {
		return nil, err
	}
	if s.TotalCredits, err = parseNumeric(credits); err != nil {
		return nil, err
	}
	if s.TotalDebits, err = parseNumeric(debits); err != nil {
		return nil, err
	}

	entries, err := r.statementEntries(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Entries = entries
	return &s, nil
}

func (r *Repository) statementEntries(ctx context.Context, statementID int64) ([]domain.LedgerEntry, error) {
	query := `
		SELECT transaction_id, source_account, target_account, amount::text, direction, balance::text
		FROM ledger_statement_entries
		WHERE statement_id = $1
		ORDER BY position
	`
	rows, err := r.db.Query(ctx, query, statementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e               domain.LedgerEntry
			amount, balance string
			direction       string
		)
		if err := rows.Scan(&e.Transaction.ID, &e.Transaction.SourceAccount, &e.Transaction.TargetAccount,
			&amount, &direction, &balance); err != nil {
			return nil, err
		}
		if e.Transaction.Amount, err = parseNumeric(amount); err != nil {
			return nil, err
		}
		if e.Balance, err = parseNumeric(balance); err != nil {
			return nil, err
		}
		e.Direction = domain.Direction(direction)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteStatementsOlderThan removes statements created before cutoff and
// returns how many were deleted. Entries go with them.
func (r *Repository) DeleteStatementsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	commandTag, err := r.db.Exec(ctx, `DELETE FROM ledger_statements WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}

func entryBatch(statementID int64, entries []domain.LedgerEntry) *pgx.Batch {
	batch := &pgx.Batch{}
	for i, e := range entries {
		batch.Queue(insertEntrySQL,
			statementID,
			i,
			e.Transaction.ID,
			e.Transaction.SourceAccount,
			e.Transaction.TargetAccount,
			e.Transaction.Amount.String(),
			string(e.Direction),
			e.Balance.String(),
		)
	}
	return batch
}

func parseNumeric(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid numeric value %q: %w", value, err)
	}
	return d, nil
}
