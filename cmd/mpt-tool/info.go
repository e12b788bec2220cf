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
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/arsenron/cita-trie/kvstore"
	"github.com/arsenron/cita-trie/trie"
)

var Info = cli.Command{
	Action:    info,
	Name:      "info",
	Usage:     "lists information about a trie stored in a LevelDB directory",
	Flags:     []cli.Flag{&rootFlag},
	ArgsUsage: "<directory>",
}

func info(ctx *cli.Context) error {
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
		return fmt.Errorf("failed to open trie at root %s: %w", hex.EncodeToString(rootHash[:]), err)
	}

	count := 0
	it := t.Iterator()
	for {
		_, _, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if it.Err() != nil {
		return it.Err()
	}

	fmt.Printf("Trie at %s:\n", dir)
	fmt.Printf("\tRoot hash:  %s\n", hex.EncodeToString(rootHash[:]))
	fmt.Printf("\tLive keys:  %d\n", count)
	return nil
}

func parseRootFlag(ctx *cli.Context) (trie.Hash, error) {
	raw := ctx.String(rootFlag.Name)
	b, err := hex.DecodeString(raw)
	if err != nil {
		return trie.Hash{}, fmt.Errorf("invalid --root %q: %w", raw, err)
	}
	return trie.HashFromBytes(b)
}
