package txid_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

func Test_ParseRoundTrip(t *testing.T) {
	s := "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

	id, err := txid.Parse(s)
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	// The internal form is the literal decoding, nothing reversed.
	if id[0] != 0x00 || id[1] != 0x11 || id[31] != 0xff {
		t.Errorf("error: bytes not in literal order: % x", id[:4])
	}

	if id.String() != s {
		t.Errorf("error: round trip changed the value: %s", id)
	}
}

func Test_ParseNormalizes(t *testing.T) {
	s := strings.Repeat("AB", 32)

	id, err := txid.Parse("  " + s + "\n")
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}
	if id.String() != strings.ToLower(s) {
		t.Errorf("error: expected lowercased form got %s", id)
	}
}

func Test_ParseInvalid(t *testing.T) {
	bad := []string{
		"",
		strings.Repeat("ab", 31),
		strings.Repeat("ab", 33),
		strings.Repeat("zz", 32),
	}

	for i, s := range bad {
		if _, err := txid.Parse(s); err == nil {
			t.Errorf("[case:%d] error: expected an error for %q", i, s)
		}
	}
}

func Test_FromBytes(t *testing.T) {
	raw := make([]byte, 32)
	raw[0] = 0xde
	raw[31] = 0xad

	id, err := txid.FromBytes(raw)
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}
	if id[0] != 0xde || id[31] != 0xad {
		t.Errorf("error: bytes changed: % x", id.Bytes()[:2])
	}

	if _, err := txid.FromBytes(raw[:31]); err == nil {
		t.Errorf("error: expected an error for a short buffer")
	}
}

func Test_JSON(t *testing.T) {
	s := strings.Repeat("cd", 32)

	id, err := txid.Parse(s)
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	enc, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}
	if string(enc) != `"`+s+`"` {
		t.Errorf("error: expected display form in JSON got %s", enc)
	}

	var dec txid.TxID
	if err := json.Unmarshal(enc, &dec); err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}
	if !dec.Equals(id) {
		t.Errorf("error: JSON round trip changed the value")
	}

	if err := json.Unmarshal([]byte(`"nothex"`), &dec); err == nil {
		t.Errorf("error: expected an error for a malformed value")
	}
}
