package postgres

import (
	"context"

	"github.com/pkg/errors"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_state (
		key   BYTEA PRIMARY KEY,
		value BYTEA NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_receipts (
		tx_id        TEXT PRIMARY KEY,
		receipt_type TEXT NOT NULL,
		caller       TEXT NOT NULL,
		amount       NUMERIC(20, 0) NOT NULL DEFAULT 0,
		recipient    TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'success',
		timestamp    TIMESTAMPTZ NOT NULL
	)`,
	`ALTER TABLE ledger_receipts ADD COLUMN IF NOT EXISTS status TEXT NOT NULL DEFAULT 'success'`,
	`CREATE INDEX IF NOT EXISTS ledger_receipts_caller_idx ON ledger_receipts (caller, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS ledger_receipts_recipient_idx ON ledger_receipts (recipient, timestamp DESC)`,
}

// EnsureSchema creates the ledger tables when missing
func EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if err := DoExec(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed creating ledger schema")
		}
	}
	return nil
}
