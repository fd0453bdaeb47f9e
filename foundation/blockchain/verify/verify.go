// Package verify checks a submitted root and inclusion proof against an
// authoritative reference. Two modes exist behind the one Verifier: a
// replay against the full leaf sequence, and a replay against committed
// digests of the correct answer so the checker never holds the answer in
// readable form.
package verify

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/block"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/merkle"
	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"go.uber.org/multierr"
)

// Set of verification modes.
const (
	ModeReplay = iota
	ModeCommitted
)

// =============================================================================

// ProofMismatchError reports a submitted sibling that disagrees with the
// true sibling at some level of the tree.
type ProofMismatchError struct {
	Level     int
	Expected  txid.TxID
	Submitted txid.TxID
}

// Error implements the error interface.
func (pe *ProofMismatchError) Error() string {
	return fmt.Sprintf("proof mismatch at level %d: expected sibling %s, submitted %s", pe.Level, pe.Expected, pe.Submitted)
}

// ProofTooShortError reports a proof that runs out of siblings before
// the walk reaches the root.
type ProofTooShortError struct {
	Submitted int
	Expected  int
}

// Error implements the error interface.
func (pe *ProofTooShortError) Error() string {
	return fmt.Sprintf("proof too short: %d sibling(s) submitted, tree height is %d", pe.Submitted, pe.Expected)
}

// ProofTooLongError reports siblings left over after the walk reached
// the root.
type ProofTooLongError struct {
	Submitted int
	Expected  int
}

// Error implements the error interface.
func (pe *ProofTooLongError) Error() string {
	return fmt.Sprintf("proof too long: %d sibling(s) submitted, tree height is %d", pe.Submitted, pe.Expected)
}

// RootMismatchError reports a recomputed root that disagrees with a root
// derived by another path.
type RootMismatchError struct {
	Computed txid.TxID
	Claimed  txid.TxID
}

// Error implements the error interface.
func (re *RootMismatchError) Error() string {
	return fmt.Sprintf("root mismatch: computed %s, claimed %s", re.Computed, re.Claimed)
}

// WorkError reports a header digest above the difficulty target.
type WorkError struct {
	Digest txid.TxID
	Target *big.Int
}

// Error implements the error interface.
func (we *WorkError) Error() string {
	return fmt.Sprintf("insufficient proof of work: digest %s above target %064x", we.Digest, we.Target)
}

// DigestMismatchError reports one position of a committed digest check
// whose submitted value does not hash to the reference digest. Position
// zero is the root, position k is proof entry k-1.
type DigestMismatchError struct {
	Position  int
	Reference txid.TxID
	Computed  txid.TxID
}

// Error implements the error interface.
func (de *DigestMismatchError) Error() string {
	return fmt.Sprintf("commitment mismatch at position %d: reference digest %s, submitted value hashes to %s", de.Position, de.Reference, de.Computed)
}

// =============================================================================

// Submission carries the root and leaf to root sibling sequence claimed
// by the party being checked.
type Submission struct {
	Root     txid.TxID
	Siblings []txid.TxID
}

// Reference carries the authoritative side of a check. Replay mode uses
// the leaf sequence and target leaf; committed mode uses the digest
// list, root digest first then one digest per proof level.
type Reference struct {
	Leafs   []txid.TxID
	Target  txid.TxID
	Digests []txid.TxID
}

// Verifier checks submissions under the configured mode.
type Verifier struct {
	mode         int
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default of sha256 for both the
// tree pairing and the committed digests.
func WithHashStrategy(hashStrategy func() hash.Hash) func(v *Verifier) {
	return func(v *Verifier) {
		v.hashStrategy = hashStrategy
	}
}

// NewVerifier constructs a verifier for the specified mode.
func NewVerifier(mode int, options ...func(v *Verifier)) (*Verifier, error) {
	if mode != ModeReplay && mode != ModeCommitted {
		return nil, fmt.Errorf("unknown verification mode %d", mode)
	}

	v := Verifier{
		mode:         mode,
		hashStrategy: sha256.New,
	}

	for _, option := range options {
		option(&v)
	}

	return &v, nil
}

// Check validates the submission against the reference under the
// verifier's mode. A nil return means accept. Verification failures come
// back as the typed errors of this package; a *merkle.ConsistencyError
// means the checker itself is defective.
func (v *Verifier) Check(ref Reference, sub Submission) error {
	if v.mode == ModeCommitted {
		return v.checkCommitted(ref, sub)
	}

	return v.checkReplay(ref, sub)
}

// checkReplay rebuilds the tree from the authoritative leaf sequence and
// replays the walk from the target leaf, comparing the submitted sibling
// against the true one at every level.
func (v *Verifier) checkReplay(ref Reference, sub Submission) error {
	tree, err := merkle.NewTree(ref.Leafs, merkle.WithHashStrategy(v.hashStrategy))
	if err != nil {
		return err
	}

	w, err := tree.Walk(ref.Target)
	if err != nil {
		return err
	}

	var step int
	for !w.Done() {
		if step >= len(sub.Siblings) {
			return &ProofTooShortError{Submitted: len(sub.Siblings), Expected: tree.Height()}
		}

		expected := w.Sibling()
		if !sub.Siblings[step].Equals(expected) {
			return &ProofMismatchError{Level: step, Expected: expected, Submitted: sub.Siblings[step]}
		}

		if err := w.Step(); err != nil {
			return err
		}
		step++
	}

	if step < len(sub.Siblings) {
		return &ProofTooLongError{Submitted: len(sub.Siblings), Expected: tree.Height()}
	}

	// The walk already cross-checks every parent, but the root must
	// still agree with the independent full rebuild.
	if !w.Node().Equals(tree.Root()) {
		return &RootMismatchError{Computed: w.Node(), Claimed: tree.Root()}
	}

	if !sub.Root.Equals(w.Node()) {
		return &RootMismatchError{Computed: w.Node(), Claimed: sub.Root}
	}

	return nil
}

// checkCommitted hashes every submitted value and compares it against
// the reference digest list. Every failing position is reported, not
// just the first.
func (v *Verifier) checkCommitted(ref Reference, sub Submission) error {
	if len(ref.Digests) == 0 {
		return fmt.Errorf("reference digest list is empty")
	}

	var failures error

	if d := v.digest(sub.Root); !d.Equals(ref.Digests[0]) {
		failures = multierr.Append(failures, &DigestMismatchError{Position: 0, Reference: ref.Digests[0], Computed: d})
	}

	want := len(ref.Digests) - 1
	if len(sub.Siblings) != want {
		switch {
		case len(sub.Siblings) < want:
			failures = multierr.Append(failures, &ProofTooShortError{Submitted: len(sub.Siblings), Expected: want})
		default:
			failures = multierr.Append(failures, &ProofTooLongError{Submitted: len(sub.Siblings), Expected: want})
		}
	}

	for i := 0; i < len(sub.Siblings) && i < want; i++ {
		if d := v.digest(sub.Siblings[i]); !d.Equals(ref.Digests[i+1]) {
			failures = multierr.Append(failures, &DigestMismatchError{Position: i + 1, Reference: ref.Digests[i+1], Computed: d})
		}
	}

	return failures
}

// digest computes the commitment digest of a single 32 byte value.
func (v *Verifier) digest(value txid.TxID) txid.TxID {
	h := v.hashStrategy()
	h.Write(value[:])

	var d txid.TxID
	copy(d[:], h.Sum(nil))

	return d
}

// CheckHeader validates a mined header record against the
// authoritative tree root and the difficulty target: the committed
// root must match and the header digest interpreted as a big endian
// integer must be at or below the target. The digest comes back so the
// caller can report it.
func CheckHeader(hdr block.Header, root txid.TxID, target *big.Int) (txid.TxID, error) {
	if !hdr.MerkleRoot.Equals(root) {
		return txid.TxID{}, &RootMismatchError{Computed: root, Claimed: hdr.MerkleRoot}
	}

	digest := hdr.Hash()
	if new(big.Int).SetBytes(digest.Bytes()).Cmp(target) > 0 {
		return txid.TxID{}, &WorkError{Digest: digest, Target: target}
	}

	return digest, nil
}

// Commitment produces the reference digest list for a correct root and
// proof, root digest first. Publishing these instead of the answer lets
// a third party check a submission without learning the answer.
func (v *Verifier) Commitment(root txid.TxID, siblings []txid.TxID) []txid.TxID {
	digests := make([]txid.TxID, 0, 1+len(siblings))
	digests = append(digests, v.digest(root))
	for _, sib := range siblings {
		digests = append(digests, v.digest(sib))
	}

	return digests
}
