package block_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/block"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

func mustTxID(t *testing.T, s string) txid.TxID {
	t.Helper()

	id, err := txid.Parse(s)
	if err != nil {
		t.Fatalf("error: parsing txid: %v", err)
	}
	return id
}

func Test_Layout(t *testing.T) {
	prev := mustTxID(t, strings.Repeat("11", 32))
	root := mustTxID(t, strings.Repeat("22", 32))

	h := block.Header{
		Version:    2,
		PrevHash:   prev,
		MerkleRoot: root,
		Time:       0x01020304,
		Nonce:      0x05060708,
	}

	buf := h.Marshal()

	expected := "00000002" +
		strings.Repeat("11", 32) +
		strings.Repeat("22", 32) +
		"01020304" +
		"0000000005060708"

	if got := hex.EncodeToString(buf[:]); got != expected {
		t.Errorf("error: wire layout mismatch:\nexp %s\ngot %s", expected, got)
	}

	if h.MarshalHex() != expected {
		t.Errorf("error: MarshalHex disagrees with Marshal")
	}
}

func Test_RoundTrip(t *testing.T) {
	h := block.Header{
		Version:    1,
		PrevHash:   mustTxID(t, strings.Repeat("ab", 32)),
		MerkleRoot: mustTxID(t, strings.Repeat("cd", 32)),
		Time:       1_700_000_000,
		Nonce:      4_294_967_295,
	}

	enc := h.MarshalHex()
	if len(enc) != 160 {
		t.Fatalf("error: expected 160 hex chars got %d", len(enc))
	}

	dec, err := block.UnmarshalHex(enc)
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}
	if dec != h {
		t.Errorf("error: round trip changed the header:\nexp %+v\ngot %+v", h, dec)
	}

	// A decoded record re-encodes to the identical string.
	if dec.MarshalHex() != enc {
		t.Errorf("error: re-encoding changed the record")
	}
}

func Test_UnmarshalHexCase(t *testing.T) {
	h := block.Header{Version: 7, Time: 42, Nonce: 9}

	upper := strings.ToUpper(h.MarshalHex())
	dec, err := block.UnmarshalHex("  " + upper + "\n")
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}
	if dec != h {
		t.Errorf("error: case and whitespace normalization failed")
	}
}

func Test_UnmarshalHexLength(t *testing.T) {
	bad := []string{
		"",
		strings.Repeat("ab", 79),
		strings.Repeat("ab", 81),
		strings.Repeat("a", 159),
	}

	for i, s := range bad {
		_, err := block.UnmarshalHex(s)

		var le *block.LengthError
		if !errors.As(err, &le) {
			t.Errorf("[case:%d] error: expected *LengthError got %v", i, err)
			continue
		}
		if le.HexChars != len(s) {
			t.Errorf("[case:%d] error: expected reported length %d got %d", i, len(s), le.HexChars)
		}
	}
}

func Test_UnmarshalHexInvalid(t *testing.T) {
	s := strings.Repeat("zz", 80)
	if _, err := block.UnmarshalHex(s); err == nil {
		t.Errorf("error: expected a hex decoding error")
	}
}

func Test_Hash(t *testing.T) {
	h := block.Header{
		Version:    1,
		PrevHash:   mustTxID(t, strings.Repeat("00", 32)),
		MerkleRoot: mustTxID(t, strings.Repeat("ff", 32)),
		Time:       100,
		Nonce:      200,
	}

	buf := h.Marshal()
	expected := txid.TxID(sha256.Sum256(buf[:]))

	if !h.Hash().Equals(expected) {
		t.Errorf("error: expected single sha256 of the 80 byte record: exp %s got %s", expected, h.Hash())
	}
}
