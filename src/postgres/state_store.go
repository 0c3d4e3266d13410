package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/pkg/errors"
)

// StateStore keeps ledger state in the ledger_state table. Every Apply is a
// single pg transaction.
type StateStore struct{}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (StateStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := DoQuery(ctx, func(conn *pgx.Conn) error {
		err := conn.QueryRow(ctx, `SELECT value FROM ledger_state WHERE key = $1`, key).Scan(&value)
		if errors.Is(err, pgx.ErrNoRows) {
			return state.ErrNotFound
		}
		return errors.Wrapf(err, "failed to read key %x", key)
	})
	return value, err
}

func (StateStore) Apply(ctx context.Context, writes map[string][]byte) error {
	return DoTx(ctx, func(tx pgx.Tx) error {
		for k, v := range writes {
			_, err := tx.Exec(ctx,
				`INSERT INTO ledger_state(key, value) VALUES ($1, $2)
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
				[]byte(k), v)
			if err != nil {
				return errors.Wrapf(err, "failed to write key %x", k)
			}
		}
		return nil
	})
}

func (StateStore) Ping(ctx context.Context) error {
	return DoQuery(ctx, func(conn *pgx.Conn) error {
		return errors.Wrap(conn.Ping(ctx), "pg ping failed")
	})
}
