// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

// Node is the tagged union of the five shapes an MPT node can take. Unlike
// the teacher's database/mpt package, which keeps a single mutable graph
// of nodes addressed through a NodeManager and handle locking (because its
// nodes are paged to disk and shared across an Archive's many roots), this
// package's Node values are immutable: every mutating trie operation
// returns a new Node rather than editing one in place. That is sufficient
// here because the engine is single-owner per spec.md's concurrency model,
// and it avoids carrying the teacher's handle/lock machinery into a
// structure that does not need it.
type Node interface {
	isNode()
}

// emptyNode represents the absence of a subtrie. It is a zero-size value
// type so an empty child costs nothing to store in a branch's array.
type emptyNode struct{}

func (emptyNode) isNode() {}

// leafNode is a terminal node carrying a value at key. key.IsLeaf() is
// always true for a well-formed leafNode (invariant 3).
type leafNode struct {
	key   Nibbles
	value []byte
}

func (*leafNode) isNode() {}

// extensionNode shares prefix across all keys reachable through child.
// prefix.IsLeaf() is always false, and after normalization child is never
// emptyNode, *leafNode, or *extensionNode (invariant 1).
type extensionNode struct {
	prefix Nibbles
	child  Node
}

func (*extensionNode) isNode() {}

// branchNode fans out on the next nibble. value holds the payload stored
// at this exact path, if the remaining key is empty here; it is nil when
// absent. After normalization a branchNode always has at least two of
// {>=1 non-empty child, value set} (invariant 2).
type branchNode struct {
	children [16]Node
	value    []byte
}

func (*branchNode) isNode() {}

// newBranchNode returns a *branchNode with every slot explicitly set to
// emptyNode{}. Go's zero value for an interface-typed array element is
// nil, not emptyNode{}, so every branchNode literal must be built through
// this constructor rather than `&branchNode{}` — a nil slot would be
// indistinguishable from a live child to every switch that type-asserts
// on children[i], and would be miscounted as non-empty by countChildren.
func newBranchNode() *branchNode {
	b := &branchNode{}
	for i := range b.children {
		b.children[i] = emptyNode{}
	}
	return b
}

// hashNode is a placeholder for a persisted subtrie that has not yet been
// loaded from the store.
type hashNode struct {
	hash Hash
}

func (*hashNode) isNode() {}

// countChildren returns the number of non-empty entries in children,
// along with the index of the last one found (meaningful only when the
// count is exactly 1).
func countChildren(children [16]Node) (count int, lastIndex int) {
	for i, c := range children {
		if _, empty := c.(emptyNode); !empty {
			count++
			lastIndex = i
		}
	}
	return count, lastIndex
}
