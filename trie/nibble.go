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

import "fmt"

// terminatorNibble is the sentinel value returned by Nibbles.At when the
// index addresses the position right after the last real nibble of a
// path whose terminator flag is set. It is never stored inside the
// nibbles slice itself; it signals "the key ends here" to callers
// navigating a Branch node.
const terminatorNibble = 16

// Nibbles is an ordered sequence of 4-bit values (0..15), paired with a
// terminator flag distinguishing a full key (terminator=true, "this path
// ends at a value") from an internal prefix (terminator=false).
//
// Nibbles is a view: Offset and Slice return slices of the same backing
// array, matching the teacher's own Nibble-slice helpers in
// database/mpt/nibble.go. Callers that intend to retain a Nibbles beyond
// the lifetime of the buffer it was derived from must call Clone.
type Nibbles struct {
	nibbles    []byte
	terminator bool
}

// nibblesFromRaw splits each input byte into two nibbles (high, low),
// preserving order, and attaches the given terminator flag.
func nibblesFromRaw(data []byte, terminator bool) Nibbles {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = append(out, b>>4, b&0x0f)
	}
	return Nibbles{nibbles: out, terminator: terminator}
}

// nibblesFromCompact decodes the Ethereum hex-prefix ("compact")
// encoding of a Nibbles value: the first byte's high nibble carries the
// terminator bit (0x20) and the odd-length bit (0x10); if the length is
// odd, the first data nibble is packed into the low nibble of that same
// byte.
func nibblesFromCompact(data []byte) (Nibbles, error) {
	if len(data) == 0 {
		return Nibbles{}, fmt.Errorf("compact nibble path must have at least one byte")
	}
	h := data[0]
	terminator := h&0x20 != 0
	odd := h&0x10 != 0

	nibbles := make([]byte, 0, 2*len(data))
	if odd {
		nibbles = append(nibbles, h&0x0f)
	}
	for _, b := range data[1:] {
		nibbles = append(nibbles, b>>4, b&0x0f)
	}
	return Nibbles{nibbles: nibbles, terminator: terminator}, nil
}

// extensionPath builds a Nibbles value suitable for use as an Extension
// prefix or a Branch-merge path: terminator is always false, per
// invariant 3 of the trie's node shapes.
func extensionPath(nibbles []byte) Nibbles {
	return Nibbles{nibbles: nibbles, terminator: false}
}

// Len returns the number of real (stored) nibbles, excluding the virtual
// terminator slot.
func (n Nibbles) Len() int {
	return len(n.nibbles)
}

// IsEmpty reports whether the path carries no real nibbles.
func (n Nibbles) IsEmpty() bool {
	return len(n.nibbles) == 0
}

// IsLeaf reports the terminator flag: true means this path denotes a
// full key, ending at a value rather than continuing into a subtrie.
func (n Nibbles) IsLeaf() bool {
	return n.terminator
}

// At returns the nibble at index i. If i equals Len() and the path is
// terminated, it returns the sentinel terminatorNibble (16) representing
// "key ends here" rather than panicking, so callers can uniformly test
// partial.At(0) == terminatorNibble at a Branch without special-casing
// the exhausted-path case.
func (n Nibbles) At(i int) byte {
	if i < len(n.nibbles) {
		return n.nibbles[i]
	}
	if i == len(n.nibbles) && n.terminator {
		return terminatorNibble
	}
	panic(fmt.Sprintf("nibble index %d out of range for path of length %d", i, len(n.nibbles)))
}

// CommonPrefix returns the number of leading nibbles equal in both
// paths. The terminator flags play no role in the comparison.
func (n Nibbles) CommonPrefix(other Nibbles) int {
	limit := len(n.nibbles)
	if len(other.nibbles) < limit {
		limit = len(other.nibbles)
	}
	i := 0
	for i < limit && n.nibbles[i] == other.nibbles[i] {
		i++
	}
	return i
}

// Offset returns the suffix of n starting at nibble k, sharing the
// underlying array and retaining n's terminator flag.
func (n Nibbles) Offset(k int) Nibbles {
	return Nibbles{nibbles: n.nibbles[k:], terminator: n.terminator}
}

// Slice returns the half-open range [a, b) of n, sharing the underlying
// array and retaining n's terminator flag.
func (n Nibbles) Slice(a, b int) Nibbles {
	return Nibbles{nibbles: n.nibbles[a:b], terminator: n.terminator}
}

// Join concatenates n with other; the terminator of the result is that
// of other, matching the way an Extension's prefix absorbs the
// terminator of whatever node it is merged with during degeneration.
func (n Nibbles) Join(other Nibbles) Nibbles {
	out := make([]byte, 0, len(n.nibbles)+len(other.nibbles))
	out = append(out, n.nibbles...)
	out = append(out, other.nibbles...)
	return Nibbles{nibbles: out, terminator: other.terminator}
}

// WithTerminator returns n's nibbles paired with a different terminator
// flag, sharing the underlying array. It is how an Extension's prefix is
// built out of a Leaf's key or another path fragment, which always
// arrive carrying terminator=true.
func (n Nibbles) WithTerminator(terminator bool) Nibbles {
	return Nibbles{nibbles: n.nibbles, terminator: terminator}
}

// Clone returns a copy of n that does not alias its backing array, safe
// to retain independently of whatever buffer n was derived from.
func (n Nibbles) Clone() Nibbles {
	out := make([]byte, len(n.nibbles))
	copy(out, n.nibbles)
	return Nibbles{nibbles: out, terminator: n.terminator}
}

// Equal reports whether n and other carry the same nibbles and
// terminator flag.
func (n Nibbles) Equal(other Nibbles) bool {
	if n.terminator != other.terminator || len(n.nibbles) != len(other.nibbles) {
		return false
	}
	for i := range n.nibbles {
		if n.nibbles[i] != other.nibbles[i] {
			return false
		}
	}
	return true
}

// Bytes packs the nibble sequence back into bytes, two nibbles per byte.
// It requires an even number of nibbles; it is only ever called on paths
// reconstructed at a value (Leaf key or Branch value slot), which are
// guaranteed to be byte-aligned by construction.
func (n Nibbles) Bytes() []byte {
	if len(n.nibbles)%2 != 0 {
		panic("cannot pack an odd number of nibbles into bytes")
	}
	out := make([]byte, len(n.nibbles)/2)
	for i := 0; i < len(out); i++ {
		out[i] = n.nibbles[2*i]<<4 | n.nibbles[2*i+1]
	}
	return out
}

// EncodeCompact produces the canonical Ethereum hex-prefix encoding of n.
// This governs hash stability: the parity bit and terminator bit must be
// exactly reproduced by nibblesFromCompact on read-back.
func (n Nibbles) EncodeCompact() []byte {
	odd := len(n.nibbles)%2 == 1

	size := len(n.nibbles)/2 + 1
	out := make([]byte, size)

	out[0] = 0
	if n.terminator {
		out[0] |= 0x20
	}
	rest := n.nibbles
	if odd {
		out[0] |= 0x10
		out[0] |= rest[0] & 0x0f
		rest = rest[1:]
	}
	for i := 0; i < len(rest); i += 2 {
		out[1+i/2] = rest[i]<<4 | rest[i+1]
	}
	return out
}
