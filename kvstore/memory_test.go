// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kvstore

import (
	"bytes"
	"testing"
)

func TestMemory_Implements(t *testing.T) {
	var _ Database = (*Memory)(nil)
}

func TestMemory_GetOnEmptyIsAbsent(t *testing.T) {
	db := NewMemory()
	if _, ok, err := db.Get([]byte("key")); err != nil || ok {
		t.Errorf("expected absent, got ok=%t, err=%v", ok, err)
	}
	if ok, err := db.Has([]byte("key")); err != nil || ok {
		t.Errorf("expected absent, got ok=%t, err=%v", ok, err)
	}
}

func TestMemory_PutAndGet(t *testing.T) {
	db := NewMemory()
	if err := db.Put([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	got, ok, err := db.Get([]byte("key"))
	if err != nil || !ok {
		t.Fatalf("expected present, got ok=%t, err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("got %q, wanted %q", got, "value")
	}
	if ok, err := db.Has([]byte("key")); err != nil || !ok {
		t.Errorf("expected has to report true, got ok=%t, err=%v", ok, err)
	}
}

func TestMemory_GetReturnsACopy(t *testing.T) {
	db := NewMemory()
	value := []byte("value")
	if err := db.Put([]byte("key"), value); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	value[0] = 'X'

	got, ok, err := db.Get([]byte("key"))
	if err != nil || !ok {
		t.Fatalf("expected present, got ok=%t, err=%v", ok, err)
	}
	if string(got) != "value" {
		t.Errorf("stored value was mutated through the caller's buffer: got %q", got)
	}

	got[0] = 'Y'
	second, _, _ := db.Get([]byte("key"))
	if string(second) != "value" {
		t.Errorf("stored value was mutated through a previously returned buffer: got %q", second)
	}
}

func TestMemory_PutBatchAndRemoveBatch(t *testing.T) {
	db := NewMemory()
	if err := db.PutBatch(map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
		"c": []byte("3"),
	}); err != nil {
		t.Fatalf("put batch failed: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, err := db.Get([]byte(k)); err != nil || !ok {
			t.Errorf("key %q should be present, got ok=%t, err=%v", k, ok, err)
		}
	}

	if err := db.RemoveBatch([][]byte{[]byte("a"), []byte("c")}); err != nil {
		t.Fatalf("remove batch failed: %v", err)
	}
	if _, ok, _ := db.Get([]byte("a")); ok {
		t.Errorf("key a should have been removed")
	}
	if _, ok, _ := db.Get([]byte("c")); ok {
		t.Errorf("key c should have been removed")
	}
	if _, ok, err := db.Get([]byte("b")); err != nil || !ok {
		t.Errorf("key b should remain present, got ok=%t, err=%v", ok, err)
	}
}

func TestMemory_Light_ServesWellKnownEmptyHashWithoutBeingWritten(t *testing.T) {
	emptyHash := []byte("empty-hash-key")
	db := NewMemoryLight(emptyHash)

	value, ok, err := db.Get(emptyHash)
	if err != nil || !ok {
		t.Fatalf("expected the empty hash to resolve without being written, ok=%t, err=%v", ok, err)
	}
	if !bytes.Equal(value, emptyNodeRLP) {
		t.Errorf("got %x, wanted the empty-string RLP encoding %x", value, emptyNodeRLP)
	}
	if has, err := db.Has(emptyHash); err != nil || !has {
		t.Errorf("expected Has to report true for the empty hash, got %t, err=%v", has, err)
	}
}

func TestMemory_Light_OrdinaryKeysStillRequireAWrite(t *testing.T) {
	db := NewMemoryLight([]byte("empty-hash-key"))
	if _, ok, err := db.Get([]byte("other-key")); err != nil || ok {
		t.Errorf("expected an unwritten, non-empty-hash key to be absent, got ok=%t, err=%v", ok, err)
	}
}

func TestMemory_CloseAndFlushAreNoOps(t *testing.T) {
	db := NewMemory()
	if err := db.Put([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := db.Flush(); err != nil {
		t.Errorf("flush failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if _, ok, err := db.Get([]byte("key")); err != nil || !ok {
		t.Errorf("expected data to survive flush/close, got ok=%t, err=%v", ok, err)
	}
}
