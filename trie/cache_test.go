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
	"bytes"
	"testing"

	"github.com/arsenron/cita-trie/kvstore"
)

func TestNodeCache_ExpandMissingHashYieldsEmptyNode(t *testing.T) {
	cache := newNodeCache(kvstore.NewMemory(), defaultCacheSize)
	n, err := cache.expand(Keccak256([]byte("never written")))
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if _, ok := n.(emptyNode); !ok {
		t.Errorf("expected a dangling hash to expand to emptyNode, got %T", n)
	}
}

func TestNodeCache_ExpandResolvesFromStore(t *testing.T) {
	db := kvstore.NewMemory()
	leaf := &leafNode{key: nibblesFromRaw([]byte{0x12}, true), value: []byte("value")}
	encoded, err := encodeNode(leaf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	hash := Keccak256(encoded)
	if err := db.Put(hash.Bytes(), encoded); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	cache := newNodeCache(db, defaultCacheSize)
	n, err := cache.expand(hash)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	got, ok := n.(*leafNode)
	if !ok {
		t.Fatalf("expected *leafNode, got %T", n)
	}
	if !bytes.Equal(got.value, leaf.value) {
		t.Errorf("got %q, wanted %q", got.value, leaf.value)
	}
}

func TestNodeCache_ExpandIsMemoizedAcrossCalls(t *testing.T) {
	db := kvstore.NewMemory()
	leaf := &leafNode{key: nibblesFromRaw([]byte{0x12}, true), value: []byte("value")}
	encoded, err := encodeNode(leaf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	hash := Keccak256(encoded)
	if err := db.Put(hash.Bytes(), encoded); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	cache := newNodeCache(db, defaultCacheSize)
	first, err := cache.expand(hash)
	if err != nil {
		t.Fatalf("first expand failed: %v", err)
	}

	// Removing the backing entry proves a second expand is served from
	// the cache rather than re-reading the store.
	if err := db.RemoveBatch([][]byte{hash.Bytes()}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	second, err := cache.expand(hash)
	if err != nil {
		t.Fatalf("second expand failed: %v", err)
	}
	if first != second {
		t.Errorf("expected the cached node to be returned verbatim on the second call")
	}
}
