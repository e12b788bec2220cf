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
	"golang.org/x/exp/maps"

	"github.com/arsenron/cita-trie/trie/rlp"
)

// nodeStore accumulates hash->encoding pairs discovered while walking a
// node graph for persistence. It is the Go stand-in for the teacher's
// habit of threading a scratch map through a recursive encode pass
// (compare database/mpt/hasher.go's own staged-write batches).
type nodeStore struct {
	staged map[Hash][]byte
}

func newNodeStore() *nodeStore {
	return &nodeStore{staged: make(map[Hash][]byte)}
}

func (s *nodeStore) stage(hash Hash, encoding []byte) {
	if _, ok := s.staged[hash]; ok {
		return
	}
	buf := make([]byte, len(encoding))
	copy(buf, encoding)
	s.staged[hash] = buf
}

// Commit persists every node reachable from the in-memory root, computes
// the new root hash, garbage-collects nodes that were expanded during
// writes but are no longer reachable, and reloads the root as a freshly
// decoded node. It implements spec.md §4.7 exactly.
func (t *Trie) Commit() (Hash, error) {
	store := newNodeStore()

	rootHash, err := t.encodeRootForCommit(store)
	if err != nil {
		return Hash{}, err
	}

	stale := make([][]byte, 0, len(t.recoveredHashes))
	for _, hash := range maps.Keys(t.recoveredHashes) {
		if _, kept := store.staged[hash]; !kept {
			stale = append(stale, hash.Bytes())
		}
	}

	kvs := make(map[string][]byte, len(store.staged))
	for hash, encoding := range store.staged {
		kvs[string(hash.Bytes())] = encoding
	}
	if err := t.db.PutBatch(kvs); err != nil {
		return Hash{}, wrapError(KindDB, "failed to persist committed nodes", err)
	}
	if err := t.db.RemoveBatch(stale); err != nil {
		return Hash{}, wrapError(KindDB, "failed to remove stale nodes", err)
	}

	t.rootHash = rootHash
	maps.Clear(t.recoveredHashes)

	n, err := t.cache.expand(rootHash)
	if err != nil {
		return Hash{}, err
	}
	t.root = n
	return rootHash, nil
}

// encodeRootForCommit returns the root's persisted hash, staging its
// encoding (and, transitively, every descendant long enough to need its
// own hash reference) along the way. A root that is already an
// unexpanded Hash node is untouched: its subtree never changed since the
// last commit, so its existing store entry is still valid and is not
// restaged.
func (t *Trie) encodeRootForCommit(store *nodeStore) (Hash, error) {
	if hn, ok := t.root.(*hashNode); ok {
		return hn.hash, nil
	}
	item, err := nodeRLPItem(t.root, store)
	if err != nil {
		return Hash{}, err
	}
	encoding := rlp.Encode(item)
	hash := Keccak256(encoding)
	store.stage(hash, encoding)
	return hash, nil
}
