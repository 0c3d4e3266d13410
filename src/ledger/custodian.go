package ledger

import (
	"context"

	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
)

// Custodian moves the base asset across the contract boundary. Its
// bookkeeping is written into the operation's view, so a movement lands
// exactly when the ledger writes do.
type Custodian interface {
	// Receive pulls amount from the principal's external holdings into custody
	Receive(ctx context.Context, v *state.View, from model.Principal, amount uint64) error
	// Send pays amount out of custody to the principal's external holdings
	Send(ctx context.Context, v *state.View, to model.Principal, amount uint64) error
}

type nopCustodian struct{}

func (nopCustodian) Receive(context.Context, *state.View, model.Principal, uint64) error { return nil }
func (nopCustodian) Send(context.Context, *state.View, model.Principal, uint64) error    { return nil }
