// Package block provides the fixed width block header record and its
// hex serialization. The layout is 80 bytes:
// version[4] || prevhash[32] || merkleroot[32] || time[4] || nonce[8],
// integers fixed width big endian at the encoding boundary and the hash
// fields copied verbatim, never byte swapped.
package block

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// HeaderSize is the number of bytes in an encoded header.
const HeaderSize = 80

// headerHexSize is the number of hex characters in an encoded header.
const headerHexSize = HeaderSize * 2

// LengthError reports a header record whose encoding is not exactly 160
// hex characters over 80 bytes.
type LengthError struct {
	HexChars int
}

// Error implements the error interface.
func (le *LengthError) Error() string {
	return fmt.Sprintf("header must be %d hex chars (%d bytes), got %d", headerHexSize, HeaderSize, le.HexChars)
}

// =============================================================================

// Header represents the five fields of the block header record. The
// nonce field is 8 bytes wide on the wire even though only its low 32
// bits are ever produced; the high bytes stay zero.
type Header struct {
	Version    int32
	PrevHash   txid.TxID
	MerkleRoot txid.TxID
	Time       uint32
	Nonce      uint64
}

// Marshal encodes the header into its 80 byte wire form.
func (h Header) Marshal() [HeaderSize]byte {
	var buf [HeaderSize]byte

	binary.BigEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevHash[:])
	copy(buf[36:68], h.MerkleRoot[:])
	binary.BigEndian.PutUint32(buf[68:72], h.Time)
	binary.BigEndian.PutUint64(buf[72:80], h.Nonce)

	return buf
}

// MarshalHex encodes the header into its 160 character hex form.
func (h Header) MarshalHex() string {
	buf := h.Marshal()
	return hex.EncodeToString(buf[:])
}

// UnmarshalHex decodes a 160 character hex string back into a header.
func UnmarshalHex(s string) (Header, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if len(s) != headerHexSize {
		return Header{}, &LengthError{HexChars: len(s)}
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Header{}, fmt.Errorf("header is not valid hex: %w", err)
	}
	if len(raw) != HeaderSize {
		return Header{}, &LengthError{HexChars: len(raw) * 2}
	}

	var h Header
	h.Version = int32(binary.BigEndian.Uint32(raw[0:4]))
	copy(h.PrevHash[:], raw[4:36])
	copy(h.MerkleRoot[:], raw[36:68])
	h.Time = binary.BigEndian.Uint32(raw[68:72])
	h.Nonce = binary.BigEndian.Uint64(raw[72:80])

	return h, nil
}

// Hash computes the digest of the encoded header with one application
// of sha256. The checking side replays this same single hash
// convention, so there is no double hashing anywhere.
func (h Header) Hash() txid.TxID {
	buf := h.Marshal()
	return txid.TxID(sha256.Sum256(buf[:]))
}
