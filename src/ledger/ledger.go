package ledger

import (
	"context"
	"fmt"

	"github.com/onemorebsmith/stx-clawbot/src/metrics"
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
)

// Ledger owns per-principal balances and the cumulative deposit counter.
type Ledger struct {
	exec      *executor
	registry  *Registry
	custodian Custodian
	recorder  *recorder
}

// Deposit credits caller with amount and pulls the same amount into custody.
// The returned receipt's Amount is the deposited amount.
func (l *Ledger) Deposit(ctx context.Context, caller model.Principal, amount uint64) (model.Receipt, error) {
	var total uint64
	err := l.exec.run(ctx, func(v *state.View) error {
		if err := validatePrincipal("caller", caller); err != nil {
			return err
		}
		if amount == 0 {
			return ErrInvalidAmount
		}
		bal, err := getUint64(ctx, v, BalanceKey(caller))
		if err != nil {
			return err
		}
		nbal, err := add(bal, amount)
		if err != nil {
			return fmt.Errorf("%w: could not add balance (bal=%d, addr=%s, amount=%d)", ErrOverflow, bal, caller, amount)
		}
		prevTotal, err := getUint64(ctx, v, totalDepositsKey)
		if err != nil {
			return err
		}
		total, err = add(prevTotal, amount)
		if err != nil {
			return fmt.Errorf("%w: could not add to total deposits (total=%d, amount=%d)", ErrOverflow, prevTotal, amount)
		}
		putUint64(v, BalanceKey(caller), nbal)
		putUint64(v, totalDepositsKey, total)

		if err := l.custodian.Receive(ctx, v, caller, amount); err != nil {
			return fmt.Errorf("%w: %s", ErrCustodyFailed, err)
		}
		return nil
	})
	if err == nil {
		metrics.RecordTotalDeposits(total)
	}
	return l.recorder.finish(ctx, model.OperationDeposit, caller, amount, "", err), err
}

// Withdraw debits caller and pays amount out of custody back to caller.
// The cumulative deposit counter is left untouched.
func (l *Ledger) Withdraw(ctx context.Context, caller model.Principal, amount uint64) (model.Receipt, error) {
	err := l.exec.run(ctx, func(v *state.View) error {
		if err := validatePrincipal("caller", caller); err != nil {
			return err
		}
		if amount == 0 {
			return ErrInvalidAmount
		}
		if err := debit(ctx, v, caller, amount); err != nil {
			return err
		}
		if err := l.custodian.Send(ctx, v, caller, amount); err != nil {
			return fmt.Errorf("%w: %s", ErrCustodyFailed, err)
		}
		return nil
	})
	return l.recorder.finish(ctx, model.OperationWithdraw, caller, amount, "", err), err
}

// Transfer reassigns amount from caller to recipient inside the ledger. No
// asset crosses the contract boundary. Self-transfer is validated like any
// other transfer and nets to no change.
func (l *Ledger) Transfer(ctx context.Context, caller model.Principal, amount uint64, recipient model.Principal) (model.Receipt, error) {
	err := l.exec.run(ctx, func(v *state.View) error {
		if err := validatePrincipal("caller", caller); err != nil {
			return err
		}
		if err := validatePrincipal("recipient", recipient); err != nil {
			return err
		}
		if amount == 0 {
			return ErrInvalidAmount
		}
		return move(ctx, v, caller, recipient, amount)
	})
	return l.recorder.finish(ctx, model.OperationTransfer, caller, amount, recipient, err), err
}

// BotSpend moves amount from the calling bot's own balance to recipient. The
// caller must currently be an authorized bot, whatever its balance.
func (l *Ledger) BotSpend(ctx context.Context, caller model.Principal, amount uint64, recipient model.Principal) (model.Receipt, error) {
	err := l.exec.run(ctx, func(v *state.View) error {
		if err := validatePrincipal("caller", caller); err != nil {
			return err
		}
		if err := validatePrincipal("recipient", recipient); err != nil {
			return err
		}
		if amount == 0 {
			return ErrInvalidAmount
		}
		authorized, err := l.registry.isAuthorized(ctx, v, caller)
		if err != nil {
			return err
		}
		if !authorized {
			return fmt.Errorf("%w: %s is not an authorized bot", ErrNotAuthorized, caller)
		}
		return move(ctx, v, caller, recipient, amount)
	})
	return l.recorder.finish(ctx, model.OperationBotSpend, caller, amount, recipient, err), err
}

// GetBalance never fails for unknown principals; they hold 0.
func (l *Ledger) GetBalance(ctx context.Context, p model.Principal) (uint64, error) {
	return getUint64(ctx, l.exec.read(), BalanceKey(p))
}

func (l *Ledger) GetTotalDeposits(ctx context.Context) (uint64, error) {
	return getUint64(ctx, l.exec.read(), totalDepositsKey)
}

func debit(ctx context.Context, v *state.View, p model.Principal, amount uint64) error {
	bal, err := getUint64(ctx, v, BalanceKey(p))
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: (bal=%d, addr=%s, amount=%d)", ErrInsufficientBalance, bal, p, amount)
	}
	putUint64(v, BalanceKey(p), bal-amount)
	return nil
}

func credit(ctx context.Context, v *state.View, p model.Principal, amount uint64) error {
	bal, err := getUint64(ctx, v, BalanceKey(p))
	if err != nil {
		return err
	}
	nbal, err := add(bal, amount)
	if err != nil {
		return fmt.Errorf("%w: could not add balance (bal=%d, addr=%s, amount=%d)", ErrOverflow, bal, p, amount)
	}
	putUint64(v, BalanceKey(p), nbal)
	return nil
}

// move debits before crediting so that from == to reads its own debit
func move(ctx context.Context, v *state.View, from, to model.Principal, amount uint64) error {
	if err := debit(ctx, v, from, amount); err != nil {
		return err
	}
	return credit(ctx, v, to, amount)
}

func validatePrincipal(role string, p model.Principal) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %s %q", ErrInvalidPrincipal, role, p)
	}
	return nil
}
