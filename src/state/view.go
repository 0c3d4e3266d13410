package state

import (
	"context"

	"github.com/pkg/errors"
)

// View buffers writes on top of a Store. Reads observe the view's own
// pending writes first. Nothing reaches the store until Commit.
type View struct {
	store   Store
	pending map[string][]byte
}

func NewView(store Store) *View {
	return &View{
		store:   store,
		pending: make(map[string][]byte, 4),
	}
}

func (v *View) Get(ctx context.Context, key []byte) ([]byte, error) {
	if val, ok := v.pending[string(key)]; ok {
		return val, nil
	}
	return v.store.Get(ctx, key)
}

// GetOrDefault returns fallback when the key has never been written
func (v *View) GetOrDefault(ctx context.Context, key []byte, fallback []byte) ([]byte, error) {
	val, err := v.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	return val, err
}

func (v *View) Put(key []byte, value []byte) {
	v.pending[string(key)] = append([]byte(nil), value...)
}

func (v *View) Pending() int {
	return len(v.pending)
}

func (v *View) Commit(ctx context.Context) error {
	if len(v.pending) == 0 {
		return nil
	}
	if err := v.store.Apply(ctx, v.pending); err != nil {
		return err
	}
	v.pending = make(map[string][]byte, 4)
	return nil
}

// Discard drops every buffered write
func (v *View) Discard() {
	v.pending = make(map[string][]byte, 4)
}
