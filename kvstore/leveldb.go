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
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is a syndtr/goleveldb-backed Database, persisting node
// encodings to disk. Batched writes use a single leveldb.Batch committed
// with db.Write, the same pattern the teacher's backend/store/ldb and
// backend/multimap/ldb packages use for their own batched operations.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens (creating if absent) a goleveldb database at path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, wrapDBErr("failed to open leveldb store", err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, bool, error) {
	value, err := l.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapDBErr("leveldb get failed", err)
	}
	return value, true, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	ok, err := l.db.Has(key, nil)
	if err != nil {
		return false, wrapDBErr("leveldb has failed", err)
	}
	return ok, nil
}

func (l *LevelDB) Put(key, value []byte) error {
	if err := l.db.Put(key, value, nil); err != nil {
		return wrapDBErr("leveldb put failed", err)
	}
	return nil
}

func (l *LevelDB) PutBatch(kvs map[string][]byte) error {
	if len(kvs) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for k, v := range kvs {
		batch.Put([]byte(k), v)
	}
	if err := l.db.Write(batch, nil); err != nil {
		return wrapDBErr("leveldb batch put failed", err)
	}
	return nil
}

func (l *LevelDB) RemoveBatch(keys [][]byte) error {
	if len(keys) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, k := range keys {
		batch.Delete(k)
	}
	if err := l.db.Write(batch, nil); err != nil {
		return wrapDBErr("leveldb batch delete failed", err)
	}
	return nil
}

// Flush is a no-op: goleveldb writes are durable as soon as Write/Put
// return, mirroring the teacher's own ldb-backed stores.
func (l *LevelDB) Flush() error { return nil }

func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return wrapDBErr("failed to close leveldb store", err)
	}
	return nil
}
