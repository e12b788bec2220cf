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
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/arsenron/cita-trie/trie/rlp"
)

// HashLength is the size in bytes of a node hash.
const HashLength = 32

// Hash is a 32-byte keccak256 digest identifying a persisted node.
type Hash [HashLength]byte

// IsZero reports whether h is the all-zero hash. The root of an empty
// trie is EmptyNodeHash, not the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of h's contents as a plain byte slice, suitable for
// use as a Database key.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashLength)
	copy(out, h[:])
	return out
}

// HashFromBytes builds a Hash from a 32-byte slice, as read back from a
// Database.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, fmt.Errorf("invalid hash length: got %d, want %d", len(b), HashLength)
	}
	copy(h[:], b)
	return h, nil
}

// Keccak256 hashes data with the Keccak-256 function used throughout
// Ethereum-family tries (note: not the NIST-standardized SHA3-256).
func Keccak256(data []byte) Hash {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	var out Hash
	hasher.Sum(out[:0])
	return out
}

// EmptyNodeHash is the hash of the RLP encoding of an empty string, the
// canonical root hash of a trie containing no key/value pairs.
var EmptyNodeHash = Keccak256(rlp.Encode(rlp.String{}))
