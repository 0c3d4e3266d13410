package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/onemorebsmith/stx-clawbot/src/model"
)

// Journal keeps the history of committed operations. It is written after
// commit and never participates in an operation's atomicity.
type Journal interface {
	Record(ctx context.Context, receipt model.Receipt) error
	// List returns the most recent receipts involving p, newest first
	List(ctx context.Context, p model.Principal, limit int) ([]model.Receipt, error)
}

type MemoryJournal struct {
	lock     sync.RWMutex
	receipts []model.Receipt
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

func (mj *MemoryJournal) Record(_ context.Context, receipt model.Receipt) error {
	mj.lock.Lock()
	mj.receipts = append(mj.receipts, receipt)
	mj.lock.Unlock()
	return nil
}

func (mj *MemoryJournal) List(_ context.Context, p model.Principal, limit int) ([]model.Receipt, error) {
	mj.lock.RLock()
	defer mj.lock.RUnlock()
	var out []model.Receipt
	for i := len(mj.receipts) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if mj.receipts[i].Involves(p) {
			out = append(out, mj.receipts[i])
		}
	}
	return out, nil
}

// PruneBefore forgets receipts stamped before cutoff
func (mj *MemoryJournal) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	mj.lock.Lock()
	defer mj.lock.Unlock()
	kept := mj.receipts[:0]
	for _, r := range mj.receipts {
		if !r.Timestamp.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	pruned := int64(len(mj.receipts) - len(kept))
	mj.receipts = kept
	return pruned, nil
}
