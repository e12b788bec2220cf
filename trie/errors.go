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

// Kind classifies the cause of a Error.
type Kind int

const (
	// KindDB indicates the underlying Database failed to service a request.
	KindDB Kind = iota
	// KindDecoder indicates a persisted node could not be parsed as RLP.
	KindDecoder
	// KindInvalidData indicates a decoded RLP item does not match any valid
	// node shape.
	KindInvalidData
	// KindInvalidStateRoot indicates Open was called with a root hash that
	// is absent from the store.
	KindInvalidStateRoot
	// KindInvalidProof indicates proof verification failed.
	KindInvalidProof
)

func (k Kind) String() string {
	switch k {
	case KindDB:
		return "DB"
	case KindDecoder:
		return "Decoder"
	case KindInvalidData:
		return "InvalidData"
	case KindInvalidStateRoot:
		return "InvalidStateRoot"
	case KindInvalidProof:
		return "InvalidProof"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by all trie operations. It carries a
// Kind so callers can distinguish store failures from malformed data
// without string matching, and wraps the underlying cause when there is
// one.
type Error struct {
	Kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, msg: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, msg: msg, cause: cause}
}

// ErrInvalidStateRoot is returned by Open when the requested root hash is
// not present in the store.
var ErrInvalidStateRoot = newError(KindInvalidStateRoot, "root hash not found in store")

// ErrInvalidProof is returned by VerifyProof whenever the proof fails to
// reconstruct the requested root, regardless of the underlying reason
// (missing node, decode failure, hash mismatch) so that callers never
// learn more about the internal cause than "the proof is invalid".
var ErrInvalidProof = newError(KindInvalidProof, "proof verification failed")
