// Package gradegrp maintains the group of handlers for checking and
// building proof of work exercise artifacts.
package gradegrp

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/business/web/errs"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/block"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/mempool"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/miner"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/policy"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/verify"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/events"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of grading endpoints.
type Handlers struct {
	Log        *zap.SugaredLogger
	Leafs      []txid.TxID
	Policy     policy.Policy
	Target     *big.Int
	RequiredTx *txid.TxID
	Mempool    *mempool.Mempool
	Digests    []txid.TxID
	WS         websocket.Upgrader
	Evts       *events.Events
}

// Events handles a web socket to provide progress events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// TreeRoot returns the root of the hash tree over the configured leaf
// list.
func (h Handlers) TreeRoot(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tree, err := merkle.NewTree(h.Leafs)
	if err != nil {
		return err
	}

	h.Log.Infow("treeroot", "traceid", web.GetTraceID(ctx), "root", tree.RootHex())

	resp := rootResponse{
		Root:   tree.Root(),
		Height: tree.Height(),
		Leafs:  len(h.Leafs),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifyProof checks a submitted root and inclusion proof by replaying
// the walk against the configured leaf list.
func (h Handlers) VerifyProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req proofRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	vrf, err := verify.NewVerifier(verify.ModeReplay)
	if err != nil {
		return err
	}

	ref := verify.Reference{Leafs: h.Leafs, Target: req.TxID}
	sub := verify.Submission{Root: req.Root, Siblings: req.Proof}

	if err := vrf.Check(ref, sub); err != nil {
		return rejectOrFail(err)
	}

	resp := acceptResponse{
		Accepted: true,
		Root:     req.Root,
		Depth:    len(req.Proof),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifyCommitted checks a submitted root and proof against the
// committed digest reference list, reporting every failing position.
func (h Handlers) VerifyCommitted(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if len(h.Digests) == 0 {
		return errs.NewTrusted(errors.New("no committed digest reference configured"), http.StatusConflict)
	}

	var req committedRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	vrf, err := verify.NewVerifier(verify.ModeCommitted)
	if err != nil {
		return err
	}

	ref := verify.Reference{Digests: h.Digests}
	sub := verify.Submission{Root: req.Root, Siblings: req.Proof}

	if err := vrf.Check(ref, sub); err != nil {
		return rejectOrFail(err)
	}

	resp := acceptResponse{
		Accepted: true,
		Root:     req.Root,
		Depth:    len(req.Proof),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifyBlock checks a submitted header record: the tree root must
// match the configured leaf list and the header digest must satisfy
// the policy target.
func (h Handlers) VerifyBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req blockRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	hdr, err := block.UnmarshalHex(req.Header)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tree, err := merkle.NewTree(h.Leafs)
	if err != nil {
		return err
	}

	digest, err := verify.CheckHeader(hdr, tree.Root(), h.Target)
	if err != nil {
		return errs.NewTrusted(err, http.StatusUnprocessableEntity)
	}

	resp := blockResponse{
		Accepted: true,
		Hash:     digest,
		Time:     hdr.Time,
		Nonce:    hdr.Nonce,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// CheckCandidate validates a candidate transaction list against the
// mempool table and the policy rules.
func (h Handlers) CheckCandidate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Mempool == nil {
		return errs.NewTrusted(errors.New("no mempool table configured"), http.StatusConflict)
	}

	var req candidateRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	rules := mempool.Rules{
		WeightLimit: h.Policy.WeightLimit,
		RequiredTx:  h.RequiredTx,
	}

	report, err := h.Mempool.CheckCandidate(req.TxIDs, rules)
	if err != nil {
		return errs.NewTrusted(err, http.StatusUnprocessableEntity)
	}

	resp := candidateResponse{
		Accepted:    true,
		TxCount:     report.TxCount,
		TotalWeight: report.TotalWeight,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// MempoolTx returns the table row for the identifier in the request
// path.
func (h Handlers) MempoolTx(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Mempool == nil {
		return errs.NewTrusted(errors.New("no mempool table configured"), http.StatusConflict)
	}

	id, err := txid.Parse(web.Param(r, "txid"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, exists := h.Mempool.Lookup(id)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("txid not found in mempool: %s", id), http.StatusNotFound)
	}

	resp := mempoolTxResponse{
		TxID:    tx.ID,
		Fee:     tx.Fee,
		Weight:  tx.Weight,
		Parents: tx.Parents,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine runs the nonce search under the request context using the
// policy template and the root over the configured leaf list. Progress
// flows to any connected events client.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	tree, err := merkle.NewTree(h.Leafs)
	if err != nil {
		return err
	}

	prevHash, err := h.Policy.Template.PrevHashID()
	if err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	tpl := miner.Template{
		Version:        h.Policy.Template.Version,
		PrevHash:       prevHash,
		MerkleRoot:     tree.Root(),
		Time:           h.Policy.Template.Time,
		StartNonce:     h.Policy.Template.StartNonce,
		MaxTries:       h.Policy.Template.MaxTries,
		AllowTimeShift: h.Policy.Template.AllowTimeShift,
	}

	ev := func(v string, args ...any) {
		h.Log.Infow("mine", "traceid", web.GetTraceID(ctx), "message", formatEvent(v, args...))
		h.Evts.Send(formatEvent(v, args...))
	}

	result, err := miner.Search(ctx, tpl, h.Target, ev)
	if err != nil {
		if errors.Is(err, miner.ErrSearchExhausted) {
			return errs.NewTrusted(err, http.StatusUnprocessableEntity)
		}
		return err
	}

	resp := mineResponse{
		Header:   result.Header.MarshalHex(),
		Hash:     result.Digest,
		Time:     result.Header.Time,
		Nonce:    result.Header.Nonce,
		Attempts: result.Attempts,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// rejectOrFail maps a verification failure to a trusted reject with its
// structured reason, while a consistency error stays untrusted so it
// surfaces as an internal failure.
func rejectOrFail(err error) error {
	var ce *merkle.ConsistencyError
	if errors.As(err, &ce) {
		return err
	}

	return errs.NewTrusted(err, http.StatusUnprocessableEntity)
}
