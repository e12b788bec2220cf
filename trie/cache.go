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
	lru "github.com/hashicorp/golang-lru"

	"github.com/arsenron/cita-trie/kvstore"
)

// defaultCacheSize is the number of expanded nodes kept resident per
// cache before the least-recently-used entry is evicted.
const defaultCacheSize = 4096

// nodeCache is a read-through cache from a node's hash to its decoded
// form. New and Open each build a fresh nodeCache for the Trie they
// return, so it is not shared between Trie values from separate calls.
// golang-lru's Cache is internally mutex-guarded, so concurrent readers
// of one Trie can use it without this package adding its own locking.
//
// A cache miss is always recoverable from the store: the cache is
// advisory, matching the teacher's own stance on its hashtree and
// page caches in backend/store.
type nodeCache struct {
	db    kvstore.Database
	cache *lru.Cache
}

// newNodeCache builds a cache backed by db, holding up to size decoded
// nodes.
func newNodeCache(db kvstore.Database, size int) *nodeCache {
	c, err := lru.New(size)
	if err != nil {
		// Only returns an error for a non-positive size, which never
		// happens for the constant this package passes.
		panic(err)
	}
	return &nodeCache{db: db, cache: c}
}

// expand resolves hash to its decoded node, consulting the cache before
// falling back to the store. A hash absent from the store decodes to
// emptyNode, matching recover_from_db's behavior in the implementation
// this package is ported from: a dangling Hash reference is treated as
// pointing at nothing rather than as an error.
func (c *nodeCache) expand(hash Hash) (Node, error) {
	if v, ok := c.cache.Get(hash); ok {
		return v.(Node), nil
	}
	data, ok, err := c.db.Get(hash.Bytes())
	if err != nil {
		return nil, wrapError(KindDB, "failed to load node from store", err)
	}
	if !ok {
		return emptyNode{}, nil
	}
	n, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	c.cache.Add(hash, n)
	return n, nil
}
