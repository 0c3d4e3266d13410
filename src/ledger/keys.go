package ledger

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/onemorebsmith/stx-clawbot/src/state"
)

// State
// 0x0/ (balances)
//   -> [principal] => balance
// 0x1/ (total deposits)
//   -> counter
// 0x2/ (bots)
//   -> [principal] => authorized flag
// 0x3/ .. 0x5/ belong to the custody vault

const (
	balancePrefix       = 0x0
	totalDepositsPrefix = 0x1
	botPrefix           = 0x2
)

var (
	totalDepositsKey = []byte{totalDepositsPrefix}
	falseByte        = []byte{0x0}
	trueByte         = []byte{0x1}
)

// [balancePrefix] + [principal]
func BalanceKey(p model.Principal) []byte {
	k := make([]byte, 1+len(p))
	k[0] = balancePrefix
	copy(k[1:], p)
	return k
}

// [botPrefix] + [principal]
func BotKey(p model.Principal) []byte {
	k := make([]byte, 1+len(p))
	k[0] = botPrefix
	copy(k[1:], p)
	return k
}

func getUint64(ctx context.Context, v *state.View, key []byte) (uint64, error) {
	val, err := state.GetUint64(ctx, v, key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrStoreFailure, err)
	}
	return val, nil
}

func putUint64(v *state.View, key []byte, val uint64) {
	state.PutUint64(v, key, val)
}

func getFlag(ctx context.Context, v *state.View, key []byte) (bool, error) {
	raw, err := v.GetOrDefault(ctx, key, falseByte)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrStoreFailure, err)
	}
	return len(raw) == 1 && raw[0] == trueByte[0], nil
}

func putFlag(v *state.View, key []byte, flag bool) {
	if flag {
		v.Put(key, trueByte)
		return
	}
	v.Put(key, falseByte)
}

func add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}
