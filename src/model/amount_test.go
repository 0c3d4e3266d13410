package model

import (
	"testing"

	"github.com/pkg/errors"
)

func TestStxToMicro(t *testing.T) {
	cases := map[string]uint64{
		"0":          0,
		"1":          1_000_000,
		"0.000001":   1,
		"12.5":       12_500_000,
		"0.0000005":  1, // rounds half away from zero
		"0.00000049": 0,
		" 3.25 ":     3_250_000,
	}
	for in, expected := range cases {
		got, err := StxToMicro(in)
		if err != nil {
			t.Fatalf("unexpected error converting %q: %s", in, err)
		}
		if got != expected {
			t.Fatalf("incorrect conversion of %q, expected %d, got %d", in, expected, got)
		}
	}

	for _, bad := range []string{"", "abc", "-1", "99999999999999999999"} {
		if _, err := StxToMicro(bad); !errors.Is(err, ErrInvalidStxAmount) {
			t.Fatalf("expected ErrInvalidStxAmount for %q, got %v", bad, err)
		}
	}
}

func TestFormatStx(t *testing.T) {
	cases := map[uint64]string{
		0:             "0.00",
		1:             "0.000001",
		1_000_000:     "1.00",
		1_500_000:     "1.50",
		1_234_567:     "1.234567",
		1_000_000_010: "1000.00001",
	}
	for in, expected := range cases {
		if got := FormatStx(in); got != expected {
			t.Fatalf("incorrect format of %d, expected %s, got %s", in, expected, got)
		}
	}
	if MicroToStx(2_500_000).String() != "2.5" {
		t.Fatalf("unexpected stx value %s", MicroToStx(2_500_000))
	}
}
