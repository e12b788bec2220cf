// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

/*
Package trie implements a persistent, hash-addressed, prefix-compressed
Merkle Patricia Trie of the shape used by Ethereum-family state tries.

Keys and values are arbitrary byte slices. The trie supports point
lookups, insertion, deletion, a deterministic 32-byte root hash
committing to the full key/value set, and Merkle proofs of inclusion
and exclusion for any key.

Todos:
  - parallelize hashing during commit
  - support bulk insertion
  - iterative (non-recursive) get/insert/delete
*/
package trie
