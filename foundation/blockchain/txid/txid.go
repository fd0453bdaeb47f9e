// Package txid provides the 32 byte transaction identifier used through
// the blockchain packages. The display form is a 64 character lowercase
// hex string and the internal form is the literal decoding of that string.
// No byte order reversal happens anywhere, so encoding a decoded value
// always round-trips.
package txid

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Size is the number of bytes in a transaction identifier.
const Size = 32

// TxID represents the internal form of a transaction identifier.
type TxID [Size]byte

// Parse converts the display hex form into a TxID. The input must be
// exactly 64 hex characters. Case is normalized, nothing is reversed.
func Parse(s string) (TxID, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if len(s) != Size*2 {
		return TxID{}, fmt.Errorf("txid must be %d hex chars, got %d", Size*2, len(s))
	}

	var id TxID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return TxID{}, fmt.Errorf("txid is not valid hex: %w", err)
	}

	return id, nil
}

// FromBytes converts a raw 32 byte buffer into a TxID.
func FromBytes(b []byte) (TxID, error) {
	if len(b) != Size {
		return TxID{}, fmt.Errorf("txid must be %d bytes, got %d", Size, len(b))
	}

	var id TxID
	copy(id[:], b)

	return id, nil
}

// String returns the display hex form of the identifier.
func (id TxID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns the internal form as a byte slice.
func (id TxID) Bytes() []byte {
	return id[:]
}

// Equals tests two identifiers for equality.
func (id TxID) Equals(other TxID) bool {
	return id == other
}

// MarshalText implements the encoding.TextMarshaler interface so the
// identifier can live inside JSON payloads in its display form.
func (id TxID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (id *TxID) UnmarshalText(data []byte) error {
	v, err := Parse(string(data))
	if err != nil {
		return err
	}

	*id = v
	return nil
}
