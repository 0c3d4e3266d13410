package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const dedupeKey = "clawbot:requests"

// Deduper remembers request ids for a window so a resubmitted request is
// rejected instead of being applied twice
type Deduper struct {
	set    ZSet
	window time.Duration
}

func NewDeduper(client *redis.Client, window time.Duration) *Deduper {
	return &Deduper{
		set:    NewZSet(client, dedupeKey),
		window: window,
	}
}

func member(caller, requestId string) string {
	return fmt.Sprintf("%s:%s", caller, requestId)
}

// Claim returns false when the (caller, request id) pair was already seen
func (d *Deduper) Claim(ctx context.Context, caller, requestId string) (bool, error) {
	added, err := d.set.AddValues(ctx, ZSetKVP{
		Member: member(caller, requestId),
		Score:  float64(time.Now().UnixMilli()),
	})
	if err != nil {
		return false, errors.Wrap(err, "failed claiming request id")
	}
	return added == 1, nil
}

// Release forgets a claim, used when the claimed request never executed
func (d *Deduper) Release(ctx context.Context, caller, requestId string) error {
	_, err := d.set.Remove(ctx, member(caller, requestId))
	return errors.Wrap(err, "failed releasing request id")
}

// Prune drops every claim older than the window
func (d *Deduper) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-d.window).UnixMilli()
	return d.set.RemoveByScore(ctx, 0, cutoff)
}
