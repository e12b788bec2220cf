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

import (
	"github.com/arsenron/cita-trie/kvstore"
)

// GetProof returns the ordered list of encoded nodes (root first) along
// the search path toward key, sufficient for an independent verifier to
// recompute the root hash and learn key's value or its absence.
//
// Only nodes that were actually loaded from the store (Hash-node
// transitions) are emitted: inline children are already contained in
// their parent's own encoding and would be redundant in the proof. This
// mirrors get_path_at in the implementation this package is ported
// from, and is the behavior the cmd/mpt-tool cross-check command
// verifies against an independent implementation.
func (t *Trie) GetProof(key []byte) ([][]byte, error) {
	// path accumulates deepest-loaded-node first, root last; the proof
	// below reverses it into the root-first order callers expect.
	path, err := t.getPathAt(t.root, nibblesFromRaw(key, true))
	if err != nil {
		return nil, err
	}
	if _, empty := t.root.(emptyNode); !empty {
		path = append(path, t.root)
	}

	proof := make([][]byte, len(path))
	for i, n := range path {
		enc, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		proof[len(path)-1-i] = enc
	}
	return proof, nil
}

// getPathAt returns every node recovered from the store while walking
// toward partial starting at n, deepest-loaded-node first. The walk
// stops descending once it reaches an Empty or Leaf node, or once the
// search diverges from an Extension or Branch's stored shape.
func (t *Trie) getPathAt(n Node, partial Nibbles) ([]Node, error) {
	switch v := n.(type) {
	case emptyNode, *leafNode:
		return nil, nil

	case *branchNode:
		if partial.IsEmpty() || partial.At(0) == terminatorNibble {
			return nil, nil
		}
		return t.getPathAt(v.children[partial.At(0)], partial.Offset(1))

	case *extensionNode:
		m := partial.CommonPrefix(v.prefix)
		if m != v.prefix.Len() {
			return nil, nil
		}
		return t.getPathAt(v.child, partial.Offset(m))

	case *hashNode:
		expanded, err := t.cache.expand(v.hash)
		if err != nil {
			return nil, err
		}
		rest, err := t.getPathAt(expanded, partial)
		if err != nil {
			return nil, err
		}
		return append(rest, expanded), nil

	default:
		return nil, newError(KindInvalidData, "unknown node type while building proof path")
	}
}

// VerifyProof checks that proof is a valid Merkle proof of key's value
// (or absence) under rootHash, returning the value when present. Any
// failure — a missing intermediate hash, a malformed encoding, or a
// root mismatch — is reported as ErrInvalidProof without further
// detail, per spec.md §7.
func VerifyProof(rootHash Hash, key []byte, proof [][]byte) (value []byte, ok bool, err error) {
	scratch := kvstore.NewMemory()
	for _, encoded := range proof {
		hash := Keccak256(encoded)
		if hash == rootHash || len(encoded) >= HashLength {
			if err := scratch.Put(hash.Bytes(), encoded); err != nil {
				return nil, false, ErrInvalidProof
			}
		}
	}

	scratchTrie, err := Open(scratch, rootHash)
	if err != nil {
		return nil, false, ErrInvalidProof
	}
	value, ok, err = scratchTrie.Get(key)
	if err != nil {
		return nil, false, ErrInvalidProof
	}
	return value, ok, nil
}
