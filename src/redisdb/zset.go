package redisdb

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type ZSet struct {
	client *redis.Client
	key    string
}

func NewZSet(cache *redis.Client, key string) ZSet {
	return ZSet{
		key:    key,
		client: cache,
	}
}

type ZSetKVP = redis.Z

// AddValues only inserts members that are not present yet, returning how many
// were new
func (zz *ZSet) AddValues(ctx context.Context, keys ...ZSetKVP) (int64, error) {
	cmd := zz.client.ZAddArgs(ctx, zz.key, redis.ZAddArgs{
		NX:      true,
		Members: keys,
	})
	return cmd.Result()
}

func (zz *ZSet) Remove(ctx context.Context, members ...string) (int64, error) {
	args := make([]any, 0, len(members))
	for _, m := range members {
		args = append(args, m)
	}
	cmd := zz.client.ZRem(ctx, zz.key, args...)
	return cmd.Val(), cmd.Err()
}

func (zz *ZSet) RemoveByScore(ctx context.Context, min, max int64) (int64, error) {
	cmd := zz.client.ZRemRangeByScore(ctx, zz.key, fmt.Sprintf("%d", min), fmt.Sprintf("%d", max))
	return cmd.Val(), cmd.Err()
}
