package model

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const MicroStxPerStx = 1_000_000 // multiplier from stx to the base unit stored in the ledger

var ErrInvalidStxAmount = errors.New("invalid stx amount")

var microPerStx = decimal.NewFromInt(MicroStxPerStx)

// StxToMicro converts a display amount ("12.5") into base units, rounding
// half away from zero at the sixth decimal.
func StxToMicro(stx string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(stx))
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidStxAmount, "%q is not a number", stx)
	}
	if d.IsNegative() {
		return 0, errors.Wrapf(ErrInvalidStxAmount, "%q is negative", stx)
	}
	micro := d.Mul(microPerStx).Round(0).BigInt()
	if !micro.IsUint64() {
		return 0, errors.Wrapf(ErrInvalidStxAmount, "%q exceeds the representable range", stx)
	}
	return micro.Uint64(), nil
}

func MicroToStx(micro uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(micro), -6)
}

// FormatStx renders base units as stx with between 2 and 6 fraction digits
func FormatStx(micro uint64) string {
	s := MicroToStx(micro).StringFixed(6)
	dot := strings.IndexByte(s, '.')
	end := len(s)
	for end > dot+3 && s[end-1] == '0' {
		end--
	}
	return s[:end]
}
