// Package miner performs the brute force nonce search that makes a
// block header's digest satisfy the numeric difficulty target. The
// search is a tight single threaded scan; the only suspension point is
// a context check once per iteration.
package miner

import (
	"context"
	"errors"
	"math/big"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/block"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
)

// ErrSearchExhausted is returned when the per timestamp attempt budget
// runs out and advancing the timestamp is not permitted.
var ErrSearchExhausted = errors.New("search exhausted: attempt budget reached")

// =============================================================================

// Template carries the header fields and search limits for one run.
// Only the low 32 bits of the nonce field are ever produced; the high
// bytes of the 8 byte wire field stay zero.
type Template struct {
	Version        int32
	PrevHash       txid.TxID
	MerkleRoot     txid.TxID
	Time           uint32
	StartNonce     uint32
	MaxTries       uint64
	AllowTimeShift bool
}

// Result carries the found header, its digest and how many headers were
// hashed to get there.
type Result struct {
	Header   block.Header
	Digest   txid.TxID
	Attempts uint64
}

// Search mutates the nonce, and on budget exhaustion the timestamp,
// until the header digest interpreted as a big endian 256 bit integer
// is at or below the target. The nonce keeps rolling across a timestamp
// bump so no header is ever tried twice.
func Search(ctx context.Context, tpl Template, target *big.Int, ev func(v string, args ...any)) (Result, error) {
	if target == nil {
		return Result{}, errors.New("nil target")
	}
	if tpl.MaxTries == 0 {
		return Result{}, errors.New("attempt budget must be greater than zero")
	}
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	hdr := block.Header{
		Version:    tpl.Version,
		PrevHash:   tpl.PrevHash,
		MerkleRoot: tpl.MerkleRoot,
		Time:       tpl.Time,
		Nonce:      uint64(tpl.StartNonce),
	}

	ev("miner: search: started: time[%d] nonce[%d] budget[%d]", hdr.Time, hdr.Nonce, tpl.MaxTries)

	var tries uint64
	var attempts uint64
	hashInt := new(big.Int)

	for {
		if ctx.Err() != nil {
			ev("miner: search: CANCELLED")
			return Result{}, ctx.Err()
		}

		digest := hdr.Hash()
		attempts++

		hashInt.SetBytes(digest[:])
		if hashInt.Cmp(target) <= 0 {
			ev("miner: search: SOLVED: time[%d] nonce[%d] attempts[%d]", hdr.Time, hdr.Nonce, attempts)
			return Result{Header: hdr, Digest: digest, Attempts: attempts}, nil
		}

		// Nonce advances modulo 2^32, never touching the high bytes.
		hdr.Nonce = uint64(uint32(hdr.Nonce) + 1)
		tries++

		if attempts%1_000_000 == 0 {
			ev("miner: search: attempts[%d]", attempts)
		}

		if tries >= tpl.MaxTries {
			if !tpl.AllowTimeShift {
				ev("miner: search: EXHAUSTED: attempts[%d]", attempts)
				return Result{}, ErrSearchExhausted
			}

			hdr.Time++
			tries = 0
			ev("miner: search: time shifted to [%d]", hdr.Time)
		}
	}
}
