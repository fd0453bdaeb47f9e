// Package difficulty decodes the 4 byte compact encoding of the 256 bit
// proof of work target. The wire form is exponent[1] || mantissa[3],
// both plain big endian integers, and the decoded target is
// mantissa * 256^(exponent-3).
package difficulty

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Exponent bounds accepted by the codec.
const (
	minExponent = 3
	maxExponent = 34
)

// ErrInvalidEncoding is returned for a zero mantissa or an exponent
// outside [3,34].
var ErrInvalidEncoding = errors.New("invalid compact target encoding")

// ErrTargetRange is returned when the decoded value is not strictly
// inside (0, 2^256).
var ErrTargetRange = errors.New("decoded target out of 256 bit range")

// maxTarget is 2^256, the exclusive upper bound of a decoded target.
var maxTarget = new(big.Int).Lsh(big.NewInt(1), 256)

// ToTarget decodes a 4 byte compact encoding into the target integer.
func ToTarget(compact [4]byte) (*big.Int, error) {
	exponent := int(compact[0])
	mantissa := int64(compact[1])<<16 | int64(compact[2])<<8 | int64(compact[3])

	if mantissa == 0 {
		return nil, fmt.Errorf("%w: mantissa is zero", ErrInvalidEncoding)
	}
	if exponent < minExponent || exponent > maxExponent {
		return nil, fmt.Errorf("%w: exponent %d outside [%d,%d]", ErrInvalidEncoding, exponent, minExponent, maxExponent)
	}

	target := new(big.Int).Lsh(big.NewInt(mantissa), uint(8*(exponent-minExponent)))

	if target.Sign() <= 0 || target.Cmp(maxTarget) >= 0 {
		return nil, ErrTargetRange
	}

	return target, nil
}

// ParseHex decodes the 8 hex character wire form into the target.
func ParseHex(s string) (*big.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("compact target is not valid hex: %w", err)
	}
	if len(raw) != 4 {
		return nil, fmt.Errorf("compact target must be 4 bytes (8 hex chars), got %d bytes", len(raw))
	}

	var compact [4]byte
	copy(compact[:], raw)

	return ToTarget(compact)
}

// TargetHex renders a target as its full 32 byte big endian hex form
// for reports.
func TargetHex(target *big.Int) string {
	return fmt.Sprintf("%064x", target)
}
