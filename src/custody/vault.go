package custody

import (
	"context"
	"math/bits"

	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrInsufficientFunds = errors.New("insufficient external funds")
	ErrReserveExhausted  = errors.New("custody reserve exhausted")
	ErrVaultOverflow     = errors.New("vault amount overflow")
)

// State
// 0x3/ (reserve)
//   -> amount held by the contract
// 0x4/ (external wallets, strict only)
//   -> [principal] => holdings outside the contract
// 0x5/ (seeded wallets)
//   -> [principal] => seeded flag

const (
	reservePrefix = 0x3
	walletPrefix  = 0x4
	seededPrefix  = 0x5
)

var reserveKey = []byte{reservePrefix}

func prefixed(prefix byte, p model.Principal) []byte {
	k := make([]byte, 1+len(p))
	k[0] = prefix
	copy(k[1:], p)
	return k
}

// [walletPrefix] + [principal]
func walletKey(p model.Principal) []byte {
	return prefixed(walletPrefix, p)
}

// Vault is the in-process custodian. Its reserve and, in strict mode, the
// external holdings of every principal live in the ledger store, written
// through the view of the operation that moves them.
type Vault struct {
	store  state.Store
	strict bool
	logger *zap.Logger
}

func NewVault(store state.Store, strict bool, logger *zap.Logger) *Vault {
	return &Vault{
		store:  store,
		strict: strict,
		logger: logger.With(zap.String("component", "vault"), zap.Bool("strict", strict)),
	}
}

func (v *Vault) Receive(ctx context.Context, view *state.View, from model.Principal, amount uint64) error {
	if v.strict {
		wallet, err := state.GetUint64(ctx, view, walletKey(from))
		if err != nil {
			return errors.Wrap(err, "failed reading external wallet")
		}
		if wallet < amount {
			return errors.Wrapf(ErrInsufficientFunds, "%s holds %d, needs %d", from, wallet, amount)
		}
		state.PutUint64(view, walletKey(from), wallet-amount)
	}
	reserve, err := state.GetUint64(ctx, view, reserveKey)
	if err != nil {
		return errors.Wrap(err, "failed reading reserve")
	}
	next, carry := bits.Add64(reserve, amount, 0)
	if carry != 0 {
		return errors.Wrapf(ErrVaultOverflow, "receiving %d from %s", amount, from)
	}
	state.PutUint64(view, reserveKey, next)
	v.logger.Debug("custody in", zap.String("principal", from.String()), zap.Uint64("amount", amount), zap.Uint64("reserve", next))
	return nil
}

// Send pays out of the reserve. Only the strict vault refuses a payout the
// reserve cannot cover; the mock floors the reserve at zero.
func (v *Vault) Send(ctx context.Context, view *state.View, to model.Principal, amount uint64) error {
	reserve, err := state.GetUint64(ctx, view, reserveKey)
	if err != nil {
		return errors.Wrap(err, "failed reading reserve")
	}
	next := uint64(0)
	switch {
	case reserve >= amount:
		next = reserve - amount
	case v.strict:
		return errors.Wrapf(ErrReserveExhausted, "reserve %d, sending %d to %s", reserve, amount, to)
	}
	if v.strict {
		wallet, err := state.GetUint64(ctx, view, walletKey(to))
		if err != nil {
			return errors.Wrap(err, "failed reading external wallet")
		}
		credited, carry := bits.Add64(wallet, amount, 0)
		if carry != 0 {
			return errors.Wrapf(ErrVaultOverflow, "sending %d to %s", amount, to)
		}
		state.PutUint64(view, walletKey(to), credited)
	}
	state.PutUint64(view, reserveKey, next)
	v.logger.Debug("custody out", zap.String("principal", to.String()), zap.Uint64("amount", amount), zap.Uint64("reserve", next))
	return nil
}

// Seed credits a principal's external holdings the first time it is called
// for that principal; later calls are no-ops and report false. Run it before
// the ledger starts serving.
func (v *Vault) Seed(ctx context.Context, p model.Principal, amount uint64) (bool, error) {
	view := state.NewView(v.store)
	seeded, err := view.GetOrDefault(ctx, prefixed(seededPrefix, p), nil)
	if err != nil {
		return false, errors.Wrapf(err, "failed reading seed marker for %s", p)
	}
	if seeded != nil {
		return false, nil
	}
	wallet, err := state.GetUint64(ctx, view, walletKey(p))
	if err != nil {
		return false, errors.Wrapf(err, "failed reading external wallet %s", p)
	}
	funded, carry := bits.Add64(wallet, amount, 0)
	if carry != 0 {
		return false, ErrVaultOverflow
	}
	state.PutUint64(view, walletKey(p), funded)
	view.Put(prefixed(seededPrefix, p), []byte{0x1})
	if err := view.Commit(ctx); err != nil {
		return false, errors.Wrapf(err, "failed seeding external wallet %s", p)
	}
	return true, nil
}

func (v *Vault) Reserve(ctx context.Context) (uint64, error) {
	return state.GetUint64(ctx, state.NewView(v.store), reserveKey)
}

func (v *Vault) WalletBalance(ctx context.Context, p model.Principal) (uint64, error) {
	return state.GetUint64(ctx, state.NewView(v.store), walletKey(p))
}
