// Package merkle provides the binary hash tree used to commit to an
// ordered list of transaction identifiers, along with inclusion proof
// generation. Parents are a single hash application over the
// concatenation of two 32 byte nodes, and a level with an odd number of
// nodes duplicates its last node before pairing.
package merkle

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/edilmedeiros/cde2025.3-proof-of-work/foundation/blockchain/txid"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrEmptyInput is returned when a tree is requested over zero leaves.
var ErrEmptyInput = errors.New("cannot construct tree with no leaves")

// ErrLeafNotFound is returned when a proof is requested for a leaf that
// is not part of the tree.
var ErrLeafNotFound = errors.New("leaf not found in tree")

// ConsistencyError reports a disagreement between the per-node walk and
// the independently rebuilt parent level. It signals a defect in this
// package, never a bad submission.
type ConsistencyError struct {
	Level     int
	FromWalk  txid.TxID
	FromLevel txid.TxID
}

// Error implements the error interface.
func (ce *ConsistencyError) Error() string {
	return fmt.Sprintf("internal mismatch ascending the tree at level %d: walk %s, rebuild %s", ce.Level, ce.FromWalk, ce.FromLevel)
}

// =============================================================================

// Tree represents the full set of levels of a binary hash tree, leaves
// at level 0 and the root alone at the top. Levels are stored as built,
// before the duplication rule is applied.
type Tree struct {
	levels       [][]txid.TxID
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default hash strategy of using
// sha256 when constructing a new tree.
func WithHashStrategy(hashStrategy func() hash.Hash) func(t *Tree) {
	return func(t *Tree) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a tree over the specified ordered leaf sequence,
// materializing every level up to the root.
func NewTree(leafs []txid.TxID, options ...func(t *Tree)) (*Tree, error) {
	t := Tree{
		hashStrategy: sha256.New,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.generate(leafs); err != nil {
		return nil, err
	}

	return &t, nil
}

// generate builds all the levels of the tree from the leaf sequence. A
// previously generated tree is rebuilt from scratch.
func (t *Tree) generate(leafs []txid.TxID) error {
	if len(leafs) == 0 {
		return ErrEmptyInput
	}

	level := make([]txid.TxID, len(leafs))
	copy(level, leafs)

	t.levels = [][]txid.TxID{level}
	for len(level) > 1 {
		level = t.parentLevel(level)
		t.levels = append(t.levels, level)
	}

	return nil
}

// parentLevel applies the duplication rule to the specified level and
// hashes each consecutive pair into the next level up.
func (t *Tree) parentLevel(level []txid.TxID) []txid.TxID {
	nodes := make([]txid.TxID, len(level))
	copy(nodes, level)

	if len(nodes)%2 == 1 {
		nodes = append(nodes, nodes[len(nodes)-1])
	}

	parents := make([]txid.TxID, 0, len(nodes)/2)
	for i := 0; i < len(nodes); i += 2 {
		parents = append(parents, t.hashPair(nodes[i], nodes[i+1]))
	}

	return parents
}

// hashPair computes the parent of two nodes with a single application of
// the configured hash over the raw 64 byte concatenation.
func (t *Tree) hashPair(left, right txid.TxID) txid.TxID {
	h := t.hashStrategy()
	h.Write(left[:])
	h.Write(right[:])

	var parent txid.TxID
	copy(parent[:], h.Sum(nil))

	return parent
}

// Root returns the single node at the top of the tree. For a one leaf
// tree the root is the leaf itself.
func (t *Tree) Root() txid.TxID {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// RootHex returns the root in 0x prefixed display form for logs.
func (t *Tree) RootHex() string {
	root := t.Root()
	return hexutil.Encode(root[:])
}

// Height returns the number of pairing levels above the leaves.
func (t *Tree) Height() int {
	return len(t.levels) - 1
}

// Leafs returns a copy of the level 0 nodes in insertion order.
func (t *Tree) Leafs() []txid.TxID {
	leafs := make([]txid.TxID, len(t.levels[0]))
	copy(leafs, t.levels[0])

	return leafs
}

// Level returns the nodes of the specified level as built, before the
// duplication rule is applied.
func (t *Tree) Level(k int) []txid.TxID {
	nodes := make([]txid.TxID, len(t.levels[k]))
	copy(nodes, t.levels[k])

	return nodes
}

// Proof returns the root and the leaf to root sequence of siblings for
// the specified leaf.
func (t *Tree) Proof(leaf txid.TxID) (txid.TxID, []txid.TxID, error) {
	w, err := t.Walk(leaf)
	if err != nil {
		return txid.TxID{}, nil, err
	}

	siblings := make([]txid.TxID, 0, t.Height())
	for !w.Done() {
		siblings = append(siblings, w.Sibling())
		if err := w.Step(); err != nil {
			return txid.TxID{}, nil, err
		}
	}

	return w.Node(), siblings, nil
}

// =============================================================================

// Walker ascends the tree from a target leaf one level at a time,
// exposing the sibling needed to recompute each parent. Both proof
// generation and proof checking replay the same walk.
type Walker struct {
	tree  *Tree
	level int
	index int
	node  txid.TxID
}

// Walk locates the leaf in the tree and returns a walker positioned on
// it at level 0.
func (t *Tree) Walk(leaf txid.TxID) (*Walker, error) {
	for i, node := range t.levels[0] {
		if node.Equals(leaf) {
			return &Walker{tree: t, index: i, node: node}, nil
		}
	}

	return nil, ErrLeafNotFound
}

// Done reports whether the walker has reached the single node level.
func (w *Walker) Done() bool {
	return len(w.tree.levels[w.level]) == 1
}

// Node returns the node the walker currently sits on. After the walk
// completes this is the root.
func (w *Walker) Node() txid.TxID {
	return w.node
}

// Level returns the level the walker currently sits on.
func (w *Walker) Level() int {
	return w.level
}

// Sibling returns the node that pairs with the current node at this
// level. When the level is odd sized and the current node is last, the
// sibling is the node itself per the duplication rule.
func (w *Walker) Sibling() txid.TxID {
	level := w.tree.levels[w.level]
	size := len(level)

	if size%2 == 1 && w.index == size-1 {
		return level[w.index]
	}

	return level[w.index^1]
}

// Step computes the parent from the current node and its sibling and
// advances the walker one level up. The computed parent is checked
// against the independently built parent level; a disagreement is a
// defect in this package and returns a *ConsistencyError.
func (w *Walker) Step() error {
	level := w.tree.levels[w.level]
	size := len(level)
	sib := w.Sibling()

	var parent txid.TxID
	switch {
	case size%2 == 1 && w.index == size-1:
		parent = w.tree.hashPair(w.node, sib)
	case w.index%2 == 0:
		parent = w.tree.hashPair(w.node, sib)
	default:
		parent = w.tree.hashPair(sib, w.node)
	}

	parentLevel := w.tree.levels[w.level+1]
	parentIndex := w.index / 2

	if !parent.Equals(parentLevel[parentIndex]) {
		return &ConsistencyError{
			Level:     w.level,
			FromWalk:  parent,
			FromLevel: parentLevel[parentIndex],
		}
	}

	w.level++
	w.index = parentIndex
	w.node = parent

	return nil
}
