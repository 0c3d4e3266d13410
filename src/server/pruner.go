package server

import (
	"context"
	"time"

	"github.com/onemorebsmith/stx-clawbot/src/metrics"
	"go.uber.org/zap"
)

type pruneTarget struct {
	name  string
	prune func(ctx context.Context) (int64, error)
}

type receiptPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func receiptTarget(journal receiptPruner, retention time.Duration) pruneTarget {
	return pruneTarget{
		name: "receipts",
		prune: func(ctx context.Context) (int64, error) {
			return journal.PruneBefore(ctx, time.Now().Add(-retention))
		},
	}
}

func StartPruner(ctx context.Context, delay time.Duration, targets []pruneTarget, logger *zap.Logger) error {
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	logger = logger.Named("pruner")
	for {
		select {
		case <-ticker.C:
			runPrune(ctx, targets, logger)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func runPrune(ctx context.Context, targets []pruneTarget, logger *zap.Logger) {
	for _, t := range targets {
		count, err := t.prune(ctx)
		if err != nil {
			logger.Error("prune failed", zap.String("target", t.name), zap.Error(err))
			continue
		}
		metrics.RecordPruned(t.name, count)
		if count > 0 {
			logger.Info("pruned", zap.String("target", t.name), zap.Int64("count", count))
		}
	}
}
