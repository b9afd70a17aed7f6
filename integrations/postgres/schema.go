package postgres

import (
	"context"
	"fmt"
)

const ddl = `
-- Movements table. The primary key is the natural key the portals force on
-- us: document numbers are only unique per account and bank once suffixed.
CREATE TABLE IF NOT EXISTS movements (
    account_number   VARCHAR(50) NOT NULL,
    bank             VARCHAR(50) NOT NULL,
    company          VARCHAR(255) NOT NULL DEFAULT '',
    document_number  VARCHAR(100) NOT NULL,
    execution_id     BIGINT NOT NULL,
    transaction_date DATE NOT NULL,
    type             VARCHAR(1) NOT NULL,
    amount           NUMERIC(18,2) NOT NULL,
    balance_after    NUMERIC(18,2) NOT NULL DEFAULT 0,
    office           VARCHAR(255) NOT NULL DEFAULT '',
    concept          TEXT NOT NULL DEFAULT '',
    reference        VARCHAR(255) NOT NULL DEFAULT '',
    date_counter     INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ DEFAULT NOW(),

    PRIMARY KEY (account_number, bank, document_number)
);

-- Executions table, one row per automation run.
CREATE TABLE IF NOT EXISTS executions (
    id           BIGINT PRIMARY KEY,
    process_name VARCHAR(100) NOT NULL,
    start_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    end_date     TIMESTAMPTZ,
    final_status VARCHAR(20) NOT NULL DEFAULT 'RUNNING'
);

-- Per-action log lines of a run, for operator-facing reporting.
CREATE TABLE IF NOT EXISTS execution_logs (
    id           BIGSERIAL PRIMARY KEY,
    execution_id BIGINT NOT NULL REFERENCES executions(id),
    process_name VARCHAR(100) NOT NULL,
    log_date     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    status       VARCHAR(20) NOT NULL,
    action       TEXT NOT NULL
);

-- Indexes for the reconciliation queries
CREATE INDEX IF NOT EXISTS idx_movements_scope_date
ON movements(account_number, bank, company, transaction_date);

CREATE INDEX IF NOT EXISTS idx_movements_execution ON movements(execution_id);
CREATE INDEX IF NOT EXISTS idx_execution_logs_execution ON execution_logs(execution_id);
`

// EnsureSchema creates the tables if they don't exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
