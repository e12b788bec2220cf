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

// Trie is a persistent Merkle Patricia Trie over an arbitrary
// kvstore.Database. A Trie is not safe for concurrent mutation: callers
// must serialize Insert/Remove/Commit against a single instance, matching
// the single-owner write discipline described by this package's design.
// Concurrent Get calls on one Trie are safe, since its nodeCache is
// internally locked. Each Trie built by New or Open has its own nodeCache;
// Trie values from separate New or Open calls do not share cached nodes.
type Trie struct {
	root     Node
	rootHash Hash

	db    kvstore.Database
	cache *nodeCache

	// recoveredHashes tracks every Hash node expanded while servicing a
	// write since the last Commit. At Commit time, any hash in this set
	// that is no longer reachable from the new root is garbage.
	recoveredHashes map[Hash]struct{}
}

// New returns an empty trie backed by db, with the canonical empty-root
// hash keccak256(rlp(emptyString)).
func New(db kvstore.Database) *Trie {
	return newTrie(db, newNodeCache(db, defaultCacheSize))
}

// Open reopens a trie at a previously committed root. It fails with
// ErrInvalidStateRoot if root is absent from db.
func Open(db kvstore.Database, root Hash) (*Trie, error) {
	return openTrie(db, newNodeCache(db, defaultCacheSize), root)
}

// openTrie and newTrie accept an explicit cache so that multiple Trie
// values opened against different roots of the same underlying Database
// can share one read-through node cache, per spec.md §5's "shared across
// reader copies" requirement.
func newTrie(db kvstore.Database, cache *nodeCache) *Trie {
	return &Trie{
		root:            emptyNode{},
		rootHash:        EmptyNodeHash,
		db:              db,
		cache:           cache,
		recoveredHashes: make(map[Hash]struct{}),
	}
}

func openTrie(db kvstore.Database, cache *nodeCache, root Hash) (*Trie, error) {
	data, ok, err := db.Get(root.Bytes())
	if err != nil {
		return nil, wrapError(KindDB, "failed to load root node", err)
	}
	if !ok {
		return nil, ErrInvalidStateRoot
	}
	n, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	t := newTrie(db, cache)
	t.root = n
	t.rootHash = root
	return t, nil
}

// Root returns the trie's last-committed root hash. It does not commit
// pending mutations; call Commit first to persist them.
func (t *Trie) Root() Hash {
	return t.rootHash
}

// Get returns the value stored for key, or ok=false if key is absent.
func (t *Trie) Get(key []byte) (value []byte, ok bool, err error) {
	return t.getAt(t.root, nibblesFromRaw(key, true))
}

// Contains reports whether key is present in the trie.
func (t *Trie) Contains(key []byte) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

func (t *Trie) getAt(n Node, partial Nibbles) ([]byte, bool, error) {
	switch v := n.(type) {
	case emptyNode:
		return nil, false, nil

	case *leafNode:
		if v.key.Equal(partial) {
			return v.value, true, nil
		}
		return nil, false, nil

	case *branchNode:
		if partial.IsEmpty() || partial.At(0) == terminatorNibble {
			if v.value == nil {
				return nil, false, nil
			}
			return v.value, true, nil
		}
		idx := partial.At(0)
		return t.getAt(v.children[idx], partial.Offset(1))

	case *extensionNode:
		m := partial.CommonPrefix(v.prefix)
		if m == v.prefix.Len() {
			return t.getAt(v.child, partial.Offset(m))
		}
		return nil, false, nil

	case *hashNode:
		expanded, err := t.cache.expand(v.hash)
		if err != nil {
			return nil, false, err
		}
		return t.getAt(expanded, partial)

	default:
		return nil, false, newError(KindInvalidData, "unknown node type during get")
	}
}

// Insert stores value under key, replacing any existing value. An empty
// value is defined as Remove(key), matching spec.md §4.5.
func (t *Trie) Insert(key, value []byte) error {
	if len(value) == 0 {
		_, err := t.Remove(key)
		return err
	}
	n, err := t.insertAt(t.root, nibblesFromRaw(key, true), value)
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) insertAt(n Node, partial Nibbles, value []byte) (Node, error) {
	switch v := n.(type) {
	case emptyNode:
		return &leafNode{key: partial.Clone(), value: cloneBytes(value)}, nil

	case *leafNode:
		m := partial.CommonPrefix(v.key)
		if m == v.key.Len() && m == partial.Len() {
			return &leafNode{key: v.key, value: cloneBytes(value)}, nil
		}

		branch := newBranchNode()
		oldLeafIdx := v.key.At(m)
		if oldLeafIdx == terminatorNibble {
			branch.value = v.value
		} else {
			branch.children[oldLeafIdx] = &leafNode{key: v.key.Offset(m + 1).Clone(), value: v.value}
		}

		newLeafIdx := partial.At(m)
		if newLeafIdx == terminatorNibble {
			branch.value = cloneBytes(value)
		} else {
			branch.children[newLeafIdx] = &leafNode{key: partial.Offset(m + 1).Clone(), value: cloneBytes(value)}
		}

		if m == 0 {
			return branch, nil
		}
		return &extensionNode{prefix: partial.Slice(0, m).Clone().WithTerminator(false), child: branch}, nil

	case *branchNode:
		if partial.IsEmpty() || partial.At(0) == terminatorNibble {
			cp := *v
			cp.value = cloneBytes(value)
			return &cp, nil
		}
		idx := partial.At(0)
		newChild, err := t.insertAt(v.children[idx], partial.Offset(1), value)
		if err != nil {
			return nil, err
		}
		cp := *v
		cp.children[idx] = newChild
		return &cp, nil

	case *extensionNode:
		m := partial.CommonPrefix(v.prefix)

		if m == 0 {
			branch := newBranchNode()
			idx := v.prefix.At(0)
			if v.prefix.Len() == 1 {
				branch.children[idx] = v.child
			} else {
				branch.children[idx] = &extensionNode{prefix: v.prefix.Offset(1).Clone().WithTerminator(false), child: v.child}
			}
			return t.insertAt(branch, partial, value)
		}

		if m == v.prefix.Len() {
			newChild, err := t.insertAt(v.child, partial.Offset(m), value)
			if err != nil {
				return nil, err
			}
			return &extensionNode{prefix: v.prefix, child: newChild}, nil
		}

		splitExt := &extensionNode{prefix: v.prefix.Offset(m).Clone().WithTerminator(false), child: v.child}
		newNode, err := t.insertAt(splitExt, partial.Offset(m), value)
		if err != nil {
			return nil, err
		}
		return &extensionNode{prefix: v.prefix.Slice(0, m).Clone().WithTerminator(false), child: newNode}, nil

	case *hashNode:
		t.recoveredHashes[v.hash] = struct{}{}
		expanded, err := t.cache.expand(v.hash)
		if err != nil {
			return nil, err
		}
		return t.insertAt(expanded, partial, value)

	default:
		return nil, newError(KindInvalidData, "unknown node type during insert")
	}
}

// Remove deletes key from the trie, reporting whether it was present.
func (t *Trie) Remove(key []byte) (bool, error) {
	n, removed, err := t.deleteAt(t.root, nibblesFromRaw(key, true))
	if err != nil {
		return false, err
	}
	t.root = n
	return removed, nil
}

func (t *Trie) deleteAt(n Node, partial Nibbles) (Node, bool, error) {
	newN, removed, err := t.deleteAtRaw(n, partial)
	if err != nil {
		return nil, false, err
	}
	if !removed {
		return newN, false, nil
	}
	degenerated, err := t.degenerate(newN)
	if err != nil {
		return nil, false, err
	}
	return degenerated, true, nil
}

func (t *Trie) deleteAtRaw(n Node, partial Nibbles) (Node, bool, error) {
	switch v := n.(type) {
	case emptyNode:
		return emptyNode{}, false, nil

	case *leafNode:
		if v.key.Equal(partial) {
			return emptyNode{}, true, nil
		}
		return v, false, nil

	case *branchNode:
		idx := partial.At(0)
		if idx == terminatorNibble {
			if v.value == nil {
				return v, false, nil
			}
			cp := *v
			cp.value = nil
			return &cp, true, nil
		}
		newChild, removed, err := t.deleteAt(v.children[idx], partial.Offset(1))
		if err != nil {
			return nil, false, err
		}
		if !removed {
			return v, false, nil
		}
		cp := *v
		cp.children[idx] = newChild
		return &cp, true, nil

	case *extensionNode:
		m := partial.CommonPrefix(v.prefix)
		if m != v.prefix.Len() {
			return v, false, nil
		}
		newChild, removed, err := t.deleteAt(v.child, partial.Offset(m))
		if err != nil {
			return nil, false, err
		}
		if !removed {
			return v, false, nil
		}
		return &extensionNode{prefix: v.prefix, child: newChild}, true, nil

	case *hashNode:
		t.recoveredHashes[v.hash] = struct{}{}
		expanded, err := t.cache.expand(v.hash)
		if err != nil {
			return nil, false, err
		}
		return t.deleteAtRaw(expanded, partial)

	default:
		return nil, false, newError(KindInvalidData, "unknown node type during remove")
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
