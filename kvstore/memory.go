// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kvstore

import "sync"

// emptyNodeRLP is the one-byte RLP encoding of the empty string, the
// canonical encoding of an Empty trie node.
var emptyNodeRLP = []byte{0x80}

// Memory is a map-backed Database, safe for concurrent use. When light is
// enabled, Get short-circuits the well-known empty-trie hash (the key
// under which nodeRLP(Empty) would be stored) without ever having that
// key actually written to the map, since every trie commits it anyway.
type Memory struct {
	mu    sync.RWMutex
	data  map[string][]byte
	light bool

	// emptyHashKey is the string form of the well-known empty-trie node
	// hash; set by the caller so this package does not need to depend on
	// the trie package's hashing.
	emptyHashKey string
}

// NewMemory returns an empty in-memory Database.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// NewMemoryLight returns an in-memory Database that answers Get for
// emptyHash without requiring it to be present in the map, matching
// spec.md §4.3's "light" reference-store mode.
func NewMemoryLight(emptyHash []byte) *Memory {
	return &Memory{
		data:         make(map[string][]byte),
		light:        true,
		emptyHashKey: string(emptyHash),
	}
}

func (m *Memory) Get(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[string(key)]; ok {
		out := make([]byte, len(v))
		copy(out, v)
		return out, true, nil
	}
	if m.light && string(key) == m.emptyHashKey {
		return append([]byte(nil), emptyNodeRLP...), true, nil
	}
	return nil, false, nil
}

func (m *Memory) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.data[string(key)]; ok {
		return true, nil
	}
	return m.light && string(key) == m.emptyHashKey, nil
}

func (m *Memory) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(value))
	copy(buf, value)
	m.data[string(key)] = buf
	return nil
}

func (m *Memory) PutBatch(kvs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kvs {
		buf := make([]byte, len(v))
		copy(buf, v)
		m.data[k] = buf
	}
	return nil
}

func (m *Memory) RemoveBatch(keys [][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, string(k))
	}
	return nil
}

func (m *Memory) Flush() error { return nil }

func (m *Memory) Close() error { return nil }
