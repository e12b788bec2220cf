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

// traceStatus tracks how far a stack frame's node has been visited.
type traceStatus int

const (
	traceStart traceStatus = iota
	traceDoing
	traceChild
	traceEnd
)

// traceNode is one frame of the iterator's explicit depth-first stack.
// child additionally tracks which Branch slot traceChild is currently
// pointed at, since Go has no payload-carrying enum constant like the
// Rust Child(u8) variant this is ported from.
type traceNode struct {
	node   Node
	status traceStatus
	child  int
}

func (f *traceNode) advance() {
	switch f.status {
	case traceStart:
		f.status = traceDoing
	case traceDoing:
		if _, ok := f.node.(*branchNode); ok {
			f.status = traceChild
			f.child = 0
		} else {
			f.status = traceEnd
		}
	case traceChild:
		if f.child < 15 {
			f.child++
		} else {
			f.status = traceEnd
		}
	default:
		f.status = traceEnd
	}
}

// Iterator yields every (key, value) pair reachable from a Trie's root
// in ascending nibble order. It is a single-pass, stateful cursor: call
// Next repeatedly until it returns ok=false.
type Iterator struct {
	trie   *Trie
	nibble []byte
	stack  []*traceNode
	err    error
}

// Iterator returns a fresh cursor over t's current in-memory root.
func (t *Trie) Iterator() *Iterator {
	return &Iterator{
		trie:  t,
		stack: []*traceNode{{node: t.root, status: traceStart}},
	}
}

// Err returns the first error encountered by Next, if any. Once Next
// has returned an error it always returns ok=false on every subsequent
// call.
func (it *Iterator) Err() error {
	return it.err
}

// Next advances the cursor and returns the next (key, value) pair. It
// returns ok=false once the traversal is exhausted or an error occurred;
// check Err to distinguish the two.
func (it *Iterator) Next() (key, value []byte, ok bool) {
	if it.err != nil {
		return nil, nil, false
	}
	for len(it.stack) > 0 {
		frame := it.stack[len(it.stack)-1]
		frame.advance()

		switch n := frame.node.(type) {
		case emptyNode:
			it.stack = it.stack[:len(it.stack)-1]

		case *leafNode:
			switch frame.status {
			case traceDoing:
				it.nibble = append(it.nibble, n.key.nibbles...)
				key := packKey(it.nibble)
				return key, n.value, true
			case traceEnd:
				it.nibble = it.nibble[:len(it.nibble)-n.key.Len()]
				it.stack = it.stack[:len(it.stack)-1]
			}

		case *extensionNode:
			switch frame.status {
			case traceDoing:
				it.nibble = append(it.nibble, n.prefix.nibbles...)
				it.stack = append(it.stack, &traceNode{node: n.child, status: traceStart})
			case traceEnd:
				it.nibble = it.nibble[:len(it.nibble)-n.prefix.Len()]
				it.stack = it.stack[:len(it.stack)-1]
			}

		case *branchNode:
			switch frame.status {
			case traceDoing:
				if n.value != nil {
					key := packKey(it.nibble)
					return key, n.value, true
				}
			case traceChild:
				if frame.child == 0 {
					it.nibble = append(it.nibble, byte(0))
				} else {
					it.nibble[len(it.nibble)-1] = byte(frame.child)
				}
				it.stack = append(it.stack, &traceNode{node: n.children[frame.child], status: traceStart})
			case traceEnd:
				it.nibble = it.nibble[:len(it.nibble)-1]
				it.stack = it.stack[:len(it.stack)-1]
			}

		case *hashNode:
			if frame.status == traceDoing {
				expanded, err := it.trie.cache.expand(n.hash)
				if err != nil {
					it.err = err
					return nil, nil, false
				}
				it.stack[len(it.stack)-1] = &traceNode{node: expanded, status: traceStart}
			} else {
				it.stack = it.stack[:len(it.stack)-1]
			}

		default:
			it.err = newError(KindInvalidData, "unknown node type during iteration")
			return nil, nil, false
		}
	}
	return nil, nil, false
}

// packKey reassembles a full nibble path (including its trailing
// terminator, which is virtual and therefore not present in nibbles
// itself) into packed bytes. It requires the buffer's length to be
// even, which holds for every key emitted above: values only live at
// Leaves and at Branch value slots, both reached at an even nibble
// depth from the root.
func packKey(nibbles []byte) []byte {
	out := make([]byte, len(nibbles)/2)
	for i := range out {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return out
}
