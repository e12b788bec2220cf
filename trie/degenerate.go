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

// degenerate restores the node-shape invariants after a deletion changed
// the subtree rooted at n:
//
//   - a Branch with no children and a value collapses to a Leaf
//   - a Branch with exactly one child and no value collapses to an
//     Extension over that child (and is degenerated again, since the
//     child may itself now be mergeable)
//   - an Extension whose child is itself an Extension or a Leaf is
//     merged into a single node
//   - an Extension whose child is a Hash node is expanded first so the
//     rules above can see its true shape
//
// Every other shape is already normalized and returned unchanged.
func (t *Trie) degenerate(n Node) (Node, error) {
	switch v := n.(type) {
	case *branchNode:
		count, lastIndex := countChildren(v.children)
		switch {
		case count == 0 && v.value != nil:
			return &leafNode{key: Nibbles{terminator: true}, value: v.value}, nil
		case count == 1 && v.value == nil:
			merged := &extensionNode{
				prefix: extensionPath([]byte{byte(lastIndex)}),
				child:  v.children[lastIndex],
			}
			return t.degenerate(merged)
		default:
			return v, nil
		}

	case *extensionNode:
		switch child := v.child.(type) {
		case *extensionNode:
			merged := &extensionNode{prefix: v.prefix.Join(child.prefix), child: child.child}
			return t.degenerate(merged)

		case *leafNode:
			return &leafNode{key: v.prefix.Join(child.key), value: child.value}, nil

		case *hashNode:
			t.recoveredHashes[child.hash] = struct{}{}
			expanded, err := t.cache.expand(child.hash)
			if err != nil {
				return nil, err
			}
			return t.degenerate(&extensionNode{prefix: v.prefix, child: expanded})

		default:
			return v, nil
		}

	default:
		return n, nil
	}
}
