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
	"errors"
	"testing"
)

func TestError_UnwrapsToCause(t *testing.T) {
	cause := errors.New("disk is on fire")
	err := wrapError(KindDB, "failed to read node", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to find the wrapped cause")
	}
}

func TestError_WithoutCauseHasNoUnwrapTarget(t *testing.T) {
	err := newError(KindInvalidData, "bad shape")
	if errors.Unwrap(err) != nil {
		t.Errorf("expected no wrapped cause for a bare error")
	}
}

func TestError_MessageIncludesKind(t *testing.T) {
	err := newError(KindInvalidProof, "mismatch")
	if got, want := err.Error(), "InvalidProof: mismatch"; got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindDB, "DB"},
		{KindDecoder, "Decoder"},
		{KindInvalidData, "InvalidData"},
		{KindInvalidStateRoot, "InvalidStateRoot"},
		{KindInvalidProof, "InvalidProof"},
		{Kind(999), "Unknown"},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.want {
			t.Errorf("Kind(%d): got %q, wanted %q", test.kind, got, test.want)
		}
	}
}
