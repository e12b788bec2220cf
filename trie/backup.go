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

import "github.com/arsenron/cita-trie/kvstore"

// ExtractBackup opens src at rootHash, enumerates every live key via its
// iterator, and writes the full node graph's encoding into dst keyed by
// hash (including the root's own encoding under rootHash), flushing dst
// before returning. It is used to snapshot a state subtree into a
// separate store, e.g. for a lightweight peer sync payload.
func ExtractBackup(src, dst kvstore.Database, rootHash Hash) (*Trie, []string, error) {
	t, err := Open(src, rootHash)
	if err != nil {
		return nil, nil, err
	}

	keys := make([]string, 0, 64)
	it := t.Iterator()
	for {
		key, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, string(key))
	}
	if it.Err() != nil {
		return nil, nil, it.Err()
	}

	cache := make(map[Hash][]byte)
	rootEncoding, err := cacheNode(t, t.root, cache)
	if err != nil {
		return nil, nil, err
	}
	cache[rootHash] = rootEncoding

	kvs := make(map[string][]byte, len(cache))
	for hash, encoding := range cache {
		kvs[string(hash.Bytes())] = encoding
	}
	if err := dst.PutBatch(kvs); err != nil {
		return nil, nil, wrapError(KindDB, "failed to write backup nodes", err)
	}
	if err := dst.Flush(); err != nil {
		return nil, nil, wrapError(KindDB, "failed to flush backup store", err)
	}

	return t, keys, nil
}

// cacheNode is the backup-specific twin of encodeNode: like encodeNode
// it returns a node's own encoding, but it additionally expands every
// Hash child reachable from n (recovering it from t's store) and
// records its encoding in cache under its hash, so that the entire
// subtree — not just the nodes already resident in memory — ends up
// staged for the destination store.
func cacheNode(t *Trie, n Node, cache map[Hash][]byte) ([]byte, error) {
	switch v := n.(type) {
	case emptyNode:
		return []byte{0x80}, nil

	case *leafNode, *extensionNode, *branchNode:
		return encodeAndCacheChildren(t, v, cache)

	case *hashNode:
		expanded, err := t.cache.expand(v.hash)
		if err != nil {
			return nil, err
		}
		data, err := cacheNode(t, expanded, cache)
		if err != nil {
			return nil, err
		}
		cache[v.hash] = data
		return data, nil

	default:
		return nil, newError(KindInvalidData, "unknown node type while caching backup")
	}
}

// encodeAndCacheChildren rebuilds n's own encoding the same way
// encodeNode does, but recurses through cacheNode for every child
// rather than encodeNode, so Hash-node descendants get expanded and
// staged instead of being left as bare hash references.
func encodeAndCacheChildren(t *Trie, n Node, cache map[Hash][]byte) ([]byte, error) {
	switch v := n.(type) {
	case *leafNode:
		return encodeNode(v)

	case *extensionNode:
		if _, err := cacheNode(t, v.child, cache); err != nil {
			return nil, err
		}
		return encodeNode(v)

	case *branchNode:
		for i := 0; i < 16; i++ {
			if _, err := cacheNode(t, v.children[i], cache); err != nil {
				return nil, err
			}
		}
		return encodeNode(v)

	default:
		return nil, newError(KindInvalidData, "unexpected node type")
	}
}
