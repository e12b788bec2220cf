// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/arsenron/cita-trie/kvstore"
	"github.com/arsenron/cita-trie/trie"
)

var Check = cli.Command{
	Action:    check,
	Name:      "check",
	Usage:     "verifies that every key in a trie round-trips through its own Merkle proof",
	Flags:     []cli.Flag{&rootFlag},
	ArgsUsage: "<directory>",
}

func check(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing directory storing the trie")
	}
	dir := ctx.Args().Get(0)

	rootHash, err := parseRootFlag(ctx)
	if err != nil {
		return err
	}

	db, err := kvstore.NewLevelDB(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	defer db.Close()

	t, err := trie.Open(db, rootHash)
	if err != nil {
		return fmt.Errorf("failed to open trie: %w", err)
	}

	checked := 0
	it := t.Iterator()
	for {
		key, value, ok := it.Next()
		if !ok {
			break
		}

		proof, err := t.GetProof(key)
		if err != nil {
			return fmt.Errorf("failed to build proof for key %x: %w", key, err)
		}
		verified, present, err := trie.VerifyProof(rootHash, key, proof)
		if err != nil {
			return fmt.Errorf("proof for key %x failed to verify: %w", key, err)
		}
		if !present {
			return fmt.Errorf("proof for key %x claims absence, but the key is live", key)
		}
		if !bytes.Equal(verified, value) {
			return fmt.Errorf("proof for key %x returned a mismatched value", key)
		}
		checked++
	}
	if it.Err() != nil {
		return it.Err()
	}

	fmt.Printf("OK: %d keys under root %s all verify against their own proofs\n", checked, hex.EncodeToString(rootHash[:]))
	return nil
}
