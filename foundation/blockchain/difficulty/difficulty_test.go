package difficulty_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/difficulty"
)

// expect computes mantissa * 256^(exponent-3) independently of the
// codec under test.
func expect(mantissa int64, exponent int64) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(256), big.NewInt(exponent-3), nil)
	return new(big.Int).Mul(big.NewInt(mantissa), scale)
}

func Test_ToTarget(t *testing.T) {
	type table struct {
		compact  [4]byte
		mantissa int64
		exponent int64
	}

	tt := []table{
		{[4]byte{0x03, 0x00, 0x00, 0x01}, 0x000001, 0x03},
		{[4]byte{0x03, 0xff, 0xff, 0xff}, 0xffffff, 0x03},
		{[4]byte{0x04, 0x00, 0x00, 0x01}, 0x000001, 0x04},
		{[4]byte{0x1d, 0x00, 0xff, 0xff}, 0x00ffff, 0x1d},
		{[4]byte{0x20, 0xff, 0xff, 0xff}, 0xffffff, 0x20},
		{[4]byte{0x22, 0x00, 0x00, 0xff}, 0x0000ff, 0x22},
	}

	for i, tst := range tt {
		target, err := difficulty.ToTarget(tst.compact)
		if err != nil {
			t.Errorf("[case:%d] error: unexpected error: %v", i, err)
			continue
		}

		expected := expect(tst.mantissa, tst.exponent)
		if target.Cmp(expected) != 0 {
			t.Errorf("[case:%d] error: expected target %x got %x", i, expected, target)
		}
	}
}

func Test_ToTargetInvalid(t *testing.T) {
	type table struct {
		compact [4]byte
		err     error
	}

	tt := []table{
		{[4]byte{0x03, 0x00, 0x00, 0x00}, difficulty.ErrInvalidEncoding}, // zero mantissa
		{[4]byte{0x02, 0x00, 0x00, 0x01}, difficulty.ErrInvalidEncoding}, // exponent below 3
		{[4]byte{0x00, 0xff, 0xff, 0xff}, difficulty.ErrInvalidEncoding},
		{[4]byte{0x23, 0x00, 0x00, 0x01}, difficulty.ErrInvalidEncoding}, // exponent above 34
		{[4]byte{0xff, 0xff, 0xff, 0xff}, difficulty.ErrInvalidEncoding},
		{[4]byte{0x22, 0x00, 0x01, 0x00}, difficulty.ErrTargetRange}, // 2^256 exactly
		{[4]byte{0x22, 0xff, 0xff, 0xff}, difficulty.ErrTargetRange},
	}

	for i, tst := range tt {
		if _, err := difficulty.ToTarget(tst.compact); !errors.Is(err, tst.err) {
			t.Errorf("[case:%d] error: expected %v got %v", i, tst.err, err)
		}
	}
}

func Test_ParseHex(t *testing.T) {
	target, err := difficulty.ParseHex("1D00FFFF")
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	if expected := expect(0x00ffff, 0x1d); target.Cmp(expected) != 0 {
		t.Errorf("error: expected target %x got %x", expected, target)
	}

	bad := []string{"", "1d00ff", "1d00ffff00", "zz00ffff"}
	for i, s := range bad {
		if _, err := difficulty.ParseHex(s); err == nil {
			t.Errorf("[case:%d] error: expected an error for %q", i, s)
		}
	}
}

func Test_TargetHex(t *testing.T) {
	target, err := difficulty.ParseHex("03000001")
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	expected := "0000000000000000000000000000000000000000000000000000000000000001"
	if got := difficulty.TargetHex(target); got != expected {
		t.Errorf("error: expected %s got %s", expected, got)
	}
}
