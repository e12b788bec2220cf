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

import "testing"

func TestNibbles_FromRaw(t *testing.T) {
	n := nibblesFromRaw([]byte{0x12, 0xab}, true)
	if got, want := n.Len(), 4; got != want {
		t.Fatalf("wrong length, got %d, wanted %d", got, want)
	}
	want := []byte{1, 2, 0xa, 0xb}
	for i, w := range want {
		if got := n.At(i); got != w {
			t.Errorf("nibble %d: got %d, wanted %d", i, got, w)
		}
	}
	if !n.IsLeaf() {
		t.Errorf("expected terminator flag to be set")
	}
}

func TestNibbles_At_Terminator(t *testing.T) {
	n := nibblesFromRaw([]byte{0x12}, true)
	if got, want := n.At(2), byte(terminatorNibble); got != want {
		t.Errorf("got %d, wanted sentinel %d", got, want)
	}
}

func TestNibbles_At_OutOfRangePanicsWithoutTerminator(t *testing.T) {
	n := nibblesFromRaw([]byte{0x12}, false)
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic reading past the end of a non-terminated path")
		}
	}()
	n.At(2)
}

func TestNibbles_CommonPrefix(t *testing.T) {
	tests := []struct {
		a, b []byte
		res  int
	}{
		{[]byte{}, []byte{}, 0},
		{[]byte{}, []byte{0x01}, 0},
		{[]byte{0x01}, []byte{}, 0},
		{[]byte{0x12}, []byte{0x12}, 2},
		{[]byte{0x12, 0x34}, []byte{0x12, 0x34}, 4},
		{[]byte{0x12, 0x34}, []byte{0x12, 0x56}, 2},
		{[]byte{0x12, 0x34}, []byte{0x13, 0x34}, 1},
	}
	for _, test := range tests {
		a := nibblesFromRaw(test.a, true)
		b := nibblesFromRaw(test.b, true)
		if got := a.CommonPrefix(b); got != test.res {
			t.Errorf("common prefix of %x and %x: got %d, wanted %d", test.a, test.b, got, test.res)
		}
	}
}

func TestNibbles_OffsetAndSlice(t *testing.T) {
	n := nibblesFromRaw([]byte{0x12, 0x34}, true)
	offset := n.Offset(1)
	if got, want := offset.Len(), 3; got != want {
		t.Fatalf("wrong offset length, got %d, wanted %d", got, want)
	}
	if got, want := offset.At(0), byte(2); got != want {
		t.Errorf("got %d, wanted %d", got, want)
	}

	slice := n.Slice(1, 3)
	if got, want := slice.Len(), 2; got != want {
		t.Fatalf("wrong slice length, got %d, wanted %d", got, want)
	}
	if got, want := slice.At(0), byte(2); got != want {
		t.Errorf("got %d, wanted %d", got, want)
	}
	if got, want := slice.At(1), byte(3); got != want {
		t.Errorf("got %d, wanted %d", got, want)
	}
}

func TestNibbles_Join(t *testing.T) {
	a := extensionPath([]byte{1, 2})
	b := nibblesFromRaw([]byte{0x34}, true)
	joined := a.Join(b)
	if got, want := joined.Len(), 4; got != want {
		t.Fatalf("wrong length, got %d, wanted %d", got, want)
	}
	if !joined.IsLeaf() {
		t.Errorf("expected joined path to carry the terminator of the second operand")
	}
	want := []byte{1, 2, 3, 4}
	for i, w := range want {
		if got := joined.At(i); got != w {
			t.Errorf("nibble %d: got %d, wanted %d", i, got, w)
		}
	}
}

func TestNibbles_WithTerminator(t *testing.T) {
	n := nibblesFromRaw([]byte{0x12}, true)
	other := n.WithTerminator(false)
	if other.IsLeaf() {
		t.Errorf("expected terminator flag to be cleared")
	}
	if n.Len() != other.Len() {
		t.Errorf("WithTerminator should not change the nibble count")
	}
}

func TestNibbles_CloneIsIndependent(t *testing.T) {
	buf := []byte{0x12, 0x34}
	n := nibblesFromRaw(buf, true)
	c := n.Clone()
	buf[0] = 0xff
	if got, want := c.At(0), byte(1); got != want {
		t.Errorf("clone should not alias the source buffer, got %d, wanted %d", got, want)
	}
}

func TestNibbles_Equal(t *testing.T) {
	a := nibblesFromRaw([]byte{0x12}, true)
	b := nibblesFromRaw([]byte{0x12}, true)
	c := nibblesFromRaw([]byte{0x12}, false)
	d := nibblesFromRaw([]byte{0x13}, true)

	if !a.Equal(b) {
		t.Errorf("expected equal paths to compare equal")
	}
	if a.Equal(c) {
		t.Errorf("expected differing terminator flags to compare unequal")
	}
	if a.Equal(d) {
		t.Errorf("expected differing nibbles to compare unequal")
	}
}

func TestNibbles_Bytes(t *testing.T) {
	n := nibblesFromRaw([]byte{0x12, 0xab}, true)
	got := n.Bytes()
	want := []byte{0x12, 0xab}
	if len(got) != len(want) {
		t.Fatalf("wrong length, got %d, wanted %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %02x, wanted %02x", i, got[i], want[i])
		}
	}
}

func TestNibbles_Bytes_PanicsOnOddLength(t *testing.T) {
	n := extensionPath([]byte{1, 2, 3})
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic packing an odd number of nibbles")
		}
	}()
	n.Bytes()
}

// TestNibbles_CompactRoundTrip exercises every combination of parity and
// terminator flag, since the compact encoding's hash stability depends on
// nibblesFromCompact being the exact inverse of EncodeCompact.
func TestNibbles_CompactRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		raw        []byte
		terminator bool
	}{
		{"even-no-terminator", []byte{0x01, 0x23}, false},
		{"even-terminator", []byte{0x01, 0x23}, true},
		{"odd-no-terminator", []byte{0x01, 0x23, 0x4}, false},
		{"odd-terminator", []byte{0x01, 0x23, 0x4}, true},
		{"empty-no-terminator", []byte{}, false},
		{"empty-terminator", []byte{}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var n Nibbles
			if len(test.raw)%2 == 0 {
				n = nibblesFromRaw(test.raw, test.terminator)
			} else {
				full := nibblesFromRaw(append(test.raw, 0), test.terminator)
				n = full.Slice(0, full.Len()-1)
			}

			encoded := n.EncodeCompact()
			decoded, err := nibblesFromCompact(encoded)
			if err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if !n.Equal(decoded) {
				t.Errorf("round-trip mismatch: original %v (terminator=%t), decoded %v (terminator=%t)",
					n.nibbles, n.IsLeaf(), decoded.nibbles, decoded.IsLeaf())
			}
		})
	}
}

func TestNibbles_EncodeCompact_KnownVectors(t *testing.T) {
	// These mirror the canonical hex-prefix test vectors from the
	// Ethereum yellow paper appendix: leading nibble carries the parity
	// and terminator bits, with the terminator bit only set on a leaf
	// path.
	tests := []struct {
		nibbles    []byte
		terminator bool
		want       []byte
	}{
		{[]byte{1, 2, 3, 4, 5}, false, []byte{0x11, 0x23, 0x45}},
		{[]byte{0, 1, 2, 3, 4, 5}, false, []byte{0x00, 0x01, 0x23, 0x45}},
		{[]byte{0, 15, 1, 12, 11, 8}, true, []byte{0x20, 0x0f, 0x1c, 0xb8}},
		{[]byte{15, 1, 12, 11, 8}, true, []byte{0x3f, 0x1c, 0xb8}},
	}

	for _, test := range tests {
		n := extensionPath(test.nibbles).WithTerminator(test.terminator)
		got := n.EncodeCompact()
		if len(got) != len(test.want) {
			t.Fatalf("wrong length for %v: got %x, wanted %x", test.nibbles, got, test.want)
		}
		for i := range test.want {
			if got[i] != test.want[i] {
				t.Errorf("byte %d for %v: got %02x, wanted %02x", i, test.nibbles, got[i], test.want[i])
			}
		}
	}
}
