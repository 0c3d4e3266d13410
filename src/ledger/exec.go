package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/pkg/errors"
)

// commitError marks an operation whose preconditions all passed but whose
// writes could not be applied to the store.
type commitError struct {
	cause error
}

func (ce *commitError) Error() string {
	return fmt.Sprintf("%s: failed applying writes: %s", ErrStoreFailure, ce.cause)
}

func (ce *commitError) Unwrap() error {
	return ErrStoreFailure
}

// executor serializes every mutating operation against the shared store.
// Each operation runs against a fresh view; its writes are applied in one
// atomic Store.Apply only once the operation returned without error.
type executor struct {
	store state.Store
	lock  sync.Mutex
}

func (e *executor) run(ctx context.Context, fn func(v *state.View) error) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "operation cancelled before execution")
	}

	view := state.NewView(e.store)
	if err := fn(view); err != nil {
		view.Discard()
		return err
	}
	if err := view.Commit(ctx); err != nil {
		return &commitError{cause: err}
	}
	return nil
}

// read gives a read-only, unlocked view of committed state
func (e *executor) read() *state.View {
	return state.NewView(e.store)
}
