package ledger

import (
	"github.com/onemorebsmith/stx-clawbot/src/model"
	"github.com/pkg/errors"
)

// Every error returned by a ledger or registry operation wraps exactly one of
// these. A rejected operation never leaves partial state behind.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrOverflow            = errors.New("overflow")
	ErrInvalidPrincipal    = model.ErrInvalidPrincipal

	ErrCustodyFailed = errors.New("custody transfer failed")
	ErrStoreFailure  = errors.New("store failure")
)

const (
	KindOk                  = "Ok"
	KindInvalidAmount       = "InvalidAmount"
	KindInsufficientBalance = "InsufficientBalance"
	KindNotAuthorized       = "NotAuthorized"
	KindOverflow            = "Overflow"
	KindInvalidPrincipal    = "InvalidPrincipal"
	KindCustodyFailed       = "CustodyFailed"
	KindStoreFailure        = "StoreFailure"
	KindUnknown             = "Unknown"
)

// Kind names the error kind carried by err, for responses and metric labels
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOk
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrNotAuthorized):
		return KindNotAuthorized
	case errors.Is(err, ErrOverflow):
		return KindOverflow
	case errors.Is(err, ErrInvalidPrincipal):
		return KindInvalidPrincipal
	case errors.Is(err, ErrCustodyFailed):
		return KindCustodyFailed
	case errors.Is(err, ErrStoreFailure):
		return KindStoreFailure
	}
	return KindUnknown
}
