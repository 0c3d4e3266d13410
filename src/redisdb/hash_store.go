package redisdb

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/pkg/errors"
)

const stateHashKey = "clawbot:state"

// HashStore keeps ledger state in a single redis hash. Apply writes the whole
// batch in one MULTI/EXEC.
type HashStore struct {
	client *redis.Client
	key    string
}

func NewHashStore(client *redis.Client) *HashStore {
	return &HashStore{client: client, key: stateHashKey}
}

func (hs *HashStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, err := hs.client.HGet(ctx, hs.key, string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, state.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read key %x", key)
	}
	return val, nil
}

func (hs *HashStore) Apply(ctx context.Context, writes map[string][]byte) error {
	if len(writes) == 0 {
		return nil
	}
	values := make([]any, 0, len(writes)*2)
	for k, v := range writes {
		values = append(values, k, v)
	}
	_, err := hs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hs.key, values...)
		return nil
	})
	return errors.Wrap(err, "failed to apply writes")
}

func (hs *HashStore) Ping(ctx context.Context) error {
	return errors.Wrap(hs.client.Ping(ctx).Err(), "redis ping failed")
}
