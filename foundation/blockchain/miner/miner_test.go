package miner_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/block"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/miner"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// easyTarget accepts any digest.
func easyTarget() *big.Int {
	one := big.NewInt(1)
	return new(big.Int).Sub(new(big.Int).Lsh(one, 256), one)
}

func testTemplate() miner.Template {
	return miner.Template{
		Version:    1,
		PrevHash:   txid.TxID(sha256.Sum256([]byte("prev"))),
		MerkleRoot: txid.TxID(sha256.Sum256([]byte("root"))),
		Time:       1_700_000_000,
		StartNonce: 7,
		MaxTries:   100,
	}
}

func TestSearchSolves(t *testing.T) {
	t.Log("Given the need to find a nonce under a permissive target.")
	{
		tpl := testTemplate()

		var msgs []string
		ev := func(v string, args ...any) {
			msgs = append(msgs, fmt.Sprintf(v, args...))
		}

		result, err := miner.Search(context.Background(), tpl, easyTarget(), ev)
		if err != nil {
			t.Fatalf("\t%s\tShould solve on the first attempt: %v", failed, err)
		}
		t.Logf("\t%s\tShould solve on the first attempt.", success)

		if result.Attempts != 1 {
			t.Fatalf("\t%s\tShould report one attempt: got %d", failed, result.Attempts)
		}
		t.Logf("\t%s\tShould report one attempt.", success)

		if result.Header.Nonce != uint64(tpl.StartNonce) {
			t.Fatalf("\t%s\tShould keep the starting nonce: exp[%d] got[%d]", failed, tpl.StartNonce, result.Header.Nonce)
		}
		t.Logf("\t%s\tShould keep the starting nonce.", success)

		if !result.Digest.Equals(result.Header.Hash()) {
			t.Fatalf("\t%s\tShould report the digest of the found header.", failed)
		}
		t.Logf("\t%s\tShould report the digest of the found header.", success)

		var started, solved bool
		for _, m := range msgs {
			if strings.Contains(m, "started") {
				started = true
			}
			if strings.Contains(m, "SOLVED") {
				solved = true
			}
		}
		if !started || !solved {
			t.Fatalf("\t%s\tShould emit started and solved events: %v", failed, msgs)
		}
		t.Logf("\t%s\tShould emit started and solved events.", success)
	}
}

func TestSearchExhausts(t *testing.T) {
	t.Log("Given the need to stop when the attempt budget runs out.")
	{
		tpl := testTemplate()
		tpl.MaxTries = 10

		var msgs []string
		ev := func(v string, args ...any) {
			msgs = append(msgs, fmt.Sprintf(v, args...))
		}

		// No digest is ever at or below zero.
		_, err := miner.Search(context.Background(), tpl, big.NewInt(0), ev)
		if !errors.Is(err, miner.ErrSearchExhausted) {
			t.Fatalf("\t%s\tShould return ErrSearchExhausted: %v", failed, err)
		}
		t.Logf("\t%s\tShould return ErrSearchExhausted.", success)

		var exhausted string
		for _, m := range msgs {
			if strings.Contains(m, "EXHAUSTED") {
				exhausted = m
			}
		}
		if !strings.Contains(exhausted, "attempts[10]") {
			t.Fatalf("\t%s\tShould spend exactly the budgeted attempts: %q", failed, exhausted)
		}
		t.Logf("\t%s\tShould spend exactly the budgeted attempts.", success)
	}
}

func TestSearchTimeShift(t *testing.T) {
	t.Log("Given the need to advance the timestamp when the budget runs out.")
	{
		tpl := testTemplate()
		tpl.StartNonce = 0
		tpl.MaxTries = 3
		tpl.AllowTimeShift = true

		// Replay the exact search order by hand: three nonces per
		// timestamp, nonce rolling across the bump. The target is the
		// minimum digest over the first two timestamps, so the search
		// must stop exactly there.
		expected := struct {
			header   block.Header
			attempts uint64
		}{}
		min := new(big.Int)

		hdr := block.Header{
			Version:    tpl.Version,
			PrevHash:   tpl.PrevHash,
			MerkleRoot: tpl.MerkleRoot,
			Time:       tpl.Time,
		}
		for i := 0; i < 6; i++ {
			hdr.Nonce = uint64(i)
			if i >= 3 {
				hdr.Time = tpl.Time + 1
			}

			digest := hdr.Hash()
			v := new(big.Int).SetBytes(digest[:])
			if i == 0 || v.Cmp(min) < 0 {
				min.Set(v)
				expected.header = hdr
				expected.attempts = uint64(i + 1)
			}
		}

		result, err := miner.Search(context.Background(), tpl, min, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould find the minimal header: %v", failed, err)
		}
		t.Logf("\t%s\tShould find the minimal header.", success)

		if result.Header != expected.header {
			t.Fatalf("\t%s\tShould stop on the expected header:\n\texp %+v\n\tgot %+v", failed, expected.header, result.Header)
		}
		t.Logf("\t%s\tShould stop on the expected header.", success)

		if result.Attempts != expected.attempts {
			t.Fatalf("\t%s\tShould report the attempt count: exp[%d] got[%d]", failed, expected.attempts, result.Attempts)
		}
		t.Logf("\t%s\tShould report the attempt count.", success)
	}
}

func TestSearchCancel(t *testing.T) {
	t.Log("Given the need to abandon a search when the context is done.")
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := miner.Search(ctx, testTemplate(), big.NewInt(0), nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould return the context error: %v", failed, err)
		}
		t.Logf("\t%s\tShould return the context error.", success)
	}
}

func TestSearchValidation(t *testing.T) {
	t.Log("Given the need to refuse unusable search parameters.")
	{
		if _, err := miner.Search(context.Background(), testTemplate(), nil, nil); err == nil {
			t.Fatalf("\t%s\tShould refuse a nil target.", failed)
		}
		t.Logf("\t%s\tShould refuse a nil target.", success)

		tpl := testTemplate()
		tpl.MaxTries = 0
		if _, err := miner.Search(context.Background(), tpl, easyTarget(), nil); err == nil {
			t.Fatalf("\t%s\tShould refuse a zero attempt budget.", failed)
		}
		t.Logf("\t%s\tShould refuse a zero attempt budget.", success)
	}
}
