// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package kvstore defines the byte-keyed, batched storage contract the
// trie package persists its nodes through, and provides two
// implementations: an in-memory reference store and a syndtr/goleveldb
// backed one.
package kvstore

// Database is a byte-keyed store with batched writes, matching the
// contract the trie engine consumes: every key is the 32-byte keccak-256
// of its value, and every value is an RLP node encoding.
type Database interface {
	// Get returns the value stored under key, or ok=false if absent.
	Get(key []byte) (value []byte, ok bool, err error)

	// Has reports whether key is present, without reading its value.
	Has(key []byte) (bool, error)

	// Put stores a single key/value pair.
	Put(key, value []byte) error

	// PutBatch stores every pair in kvs in a single atomic write.
	PutBatch(kvs map[string][]byte) error

	// RemoveBatch deletes every key in keys in a single atomic write. It
	// is not an error for a key to already be absent.
	RemoveBatch(keys [][]byte) error

	// Flush forces any buffered writes to durable storage. Implementations
	// that are already durable on every call may make this a no-op.
	Flush() error

	// Close releases any resources held by the store.
	Close() error
}
