package state

import (
	"context"
	"encoding/binary"

	"github.com/pkg/errors"
)

var ErrCorruptValue = errors.New("corrupt value")

// GetUint64 reads a big-endian counter, 0 when the key was never written
func GetUint64(ctx context.Context, v *View, key []byte) (uint64, error) {
	raw, err := v.GetOrDefault(ctx, key, nil)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}
	if len(raw) != 8 {
		return 0, errors.Wrapf(ErrCorruptValue, "key %x (len=%d)", key, len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}

func PutUint64(v *View, key []byte, val uint64) {
	v.Put(key, binary.BigEndian.AppendUint64(nil, val))
}
