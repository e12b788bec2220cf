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
	"fmt"

	"github.com/arsenron/cita-trie/trie/rlp"
)

// childItem returns the RLP item representing child as it should appear
// inside its parent's own encoding: inlined verbatim when child's own
// encoding is shorter than a hash, or replaced by a 32-byte hash reference
// otherwise. When store is non-nil, child (if hashed) and every hashed
// descendant of child are staged in it; a nil store only computes the
// item and stages nothing.
func childItem(child Node, store *nodeStore) (rlp.Item, error) {
	switch c := child.(type) {
	case emptyNode:
		return rlp.String{}, nil
	case *hashNode:
		return rlp.String{Str: c.hash.Bytes()}, nil
	default:
		item, err := nodeRLPItem(child, store)
		if err != nil {
			return nil, err
		}
		enc := rlp.Encode(item)
		if len(enc) < HashLength {
			return rlp.Encoded{Data: enc}, nil
		}
		hash := Keccak256(enc)
		if store != nil {
			store.stage(hash, enc)
		}
		return rlp.String{Str: hash.Bytes()}, nil
	}
}

// nodeRLPItem builds the rlp.Item describing n's own encoding, per
// spec.md's node layouts:
//
//	Leaf:      [compact(key, terminator=true), value]
//	Extension: [compact(prefix, terminator=false), childItem]
//	Branch:    [childItem(0), ..., childItem(15), value-or-empty-string]
//	Empty:     the empty string
//
// store receives any child subtrie whose encoding is long enough to be
// replaced by a hash reference, so that by the time nodeRLPItem returns,
// every such child has already been staged for persistence. It may be nil
// when the caller only needs the encoding (e.g. to measure its length)
// and does not intend to persist n's children.
func nodeRLPItem(n Node, store *nodeStore) (rlp.Item, error) {
	switch v := n.(type) {
	case emptyNode:
		return rlp.String{}, nil

	case *leafNode:
		key := v.key
		if !key.IsLeaf() {
			return nil, fmt.Errorf("leaf node key is missing its terminator flag")
		}
		return rlp.List{Items: []rlp.Item{
			rlp.String{Str: key.EncodeCompact()},
			rlp.String{Str: v.value},
		}}, nil

	case *extensionNode:
		item, err := childItem(v.child, store)
		if err != nil {
			return nil, err
		}
		return rlp.List{Items: []rlp.Item{
			rlp.String{Str: v.prefix.EncodeCompact()},
			item,
		}}, nil

	case *branchNode:
		items := make([]rlp.Item, 0, 17)
		for i := 0; i < 16; i++ {
			item, err := childItem(v.children[i], store)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if v.value != nil {
			items = append(items, rlp.String{Str: v.value})
		} else {
			items = append(items, rlp.String{})
		}
		return rlp.List{Items: items}, nil

	case *hashNode:
		// A bare hashNode is never encoded on its own; its parent embeds a
		// hash reference to it directly via childItem.
		return nil, fmt.Errorf("cannot encode an unresolved hash node directly")

	default:
		return nil, fmt.Errorf("unknown node type %T", n)
	}
}

// encodeNode returns the RLP encoding of n's own fields. Children that
// are long enough to be replaced by a hash reference are assumed already
// persisted (or are themselves hashNode placeholders); encodeNode never
// writes to a store itself.
func encodeNode(n Node) ([]byte, error) {
	item, err := nodeRLPItem(n, nil)
	if err != nil {
		return nil, err
	}
	return rlp.Encode(item), nil
}

// decodeNode parses the RLP encoding of a single node, as produced by
// encodeNode. Children are decoded as hashNode (for 32-byte string
// references) or recursively as their own node value (for inlined
// encodings embedded as sub-lists).
func decodeNode(data []byte) (Node, error) {
	item, err := rlp.Decode(data)
	if err != nil {
		return nil, wrapError(KindDecoder, "failed to parse node RLP", err)
	}
	return nodeFromItem(item)
}

// nodeFromItem reconstructs a Node from an already-parsed RLP item,
// dispatching on its shape per spec.md's layouts:
//
//   - the empty string decodes to emptyNode
//   - a two-element list decodes to a Leaf or an Extension, distinguished
//     by the terminator bit of the compact-encoded first element
//   - a seventeen-element list decodes to a Branch
func nodeFromItem(item rlp.Item) (Node, error) {
	switch v := item.(type) {
	case rlp.String:
		if len(v.Str) == 0 {
			return emptyNode{}, nil
		}
		return nil, newError(KindInvalidData, "unexpected non-empty string at node position")

	case rlp.List:
		switch len(v.Items) {
		case 2:
			return decodeShortNode(v.Items)
		case 17:
			return decodeBranchNode(v.Items)
		default:
			return nil, newError(KindInvalidData, fmt.Sprintf("node list has %d items, want 2 or 17", len(v.Items)))
		}

	default:
		return nil, newError(KindInvalidData, fmt.Sprintf("unexpected RLP item type %T at node position", item))
	}
}

func decodeShortNode(items []rlp.Item) (Node, error) {
	pathStr, ok := items[0].(rlp.String)
	if !ok {
		return nil, newError(KindInvalidData, "node path must be an RLP string")
	}
	path, err := nibblesFromCompact(pathStr.Str)
	if err != nil {
		return nil, wrapError(KindInvalidData, "failed to parse compact nibble path", err)
	}

	if path.IsLeaf() {
		valStr, ok := items[1].(rlp.String)
		if !ok {
			return nil, newError(KindInvalidData, "leaf value must be an RLP string")
		}
		value := make([]byte, len(valStr.Str))
		copy(value, valStr.Str)
		return &leafNode{key: path, value: value}, nil
	}

	child, err := childFromItem(items[1])
	if err != nil {
		return nil, err
	}
	return &extensionNode{prefix: path, child: child}, nil
}

func decodeBranchNode(items []rlp.Item) (Node, error) {
	branch := newBranchNode()
	for i := 0; i < 16; i++ {
		child, err := childFromItem(items[i])
		if err != nil {
			return nil, err
		}
		branch.children[i] = child
	}
	valStr, ok := items[16].(rlp.String)
	if !ok {
		return nil, newError(KindInvalidData, "branch value slot must be an RLP string")
	}
	if len(valStr.Str) > 0 {
		value := make([]byte, len(valStr.Str))
		copy(value, valStr.Str)
		branch.value = value
	}
	return branch, nil
}

// childFromItem interprets a child slot of a decoded Extension or Branch:
// a 32-byte string is a hash reference, the empty string is emptyNode,
// and anything else (an inlined sub-list, or a short inlined string) is
// recursively decoded as a node in its own right.
func childFromItem(item rlp.Item) (Node, error) {
	if s, ok := item.(rlp.String); ok {
		if len(s.Str) == 0 {
			return emptyNode{}, nil
		}
		if len(s.Str) == HashLength {
			hash, err := HashFromBytes(s.Str)
			if err != nil {
				return nil, wrapError(KindInvalidData, "malformed child hash reference", err)
			}
			return &hashNode{hash: hash}, nil
		}
	}
	return nodeFromItem(item)
}
