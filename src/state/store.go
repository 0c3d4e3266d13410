package state

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// Store is the durable key-value store shared by the ledger and the bot
// registry. Apply must be atomic: either every write lands or none do.
type Store interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Apply(ctx context.Context, writes map[string][]byte) error
	Ping(ctx context.Context) error
}
