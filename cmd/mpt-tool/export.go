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
	"bufio"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/arsenron/cita-trie/kvstore"
	"github.com/arsenron/cita-trie/trie"
)

var outputFlag = cli.StringFlag{
	Name:     "output",
	Usage:    "file to write the exported key/value pairs to",
	Required: true,
}

var Export = cli.Command{
	Action:    export,
	Name:      "export",
	Usage:     "dumps every key/value pair in a trie as hex-encoded lines",
	Flags:     []cli.Flag{&rootFlag, &outputFlag},
	ArgsUsage: "<directory>",
}

func export(ctx *cli.Context) error {
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

	out, err := os.Create(ctx.String(outputFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	it := t.Iterator()
	count := 0
	for {
		key, value, ok := it.Next()
		if !ok {
			break
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", hex.EncodeToString(key), hex.EncodeToString(value)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
		count++
	}
	if it.Err() != nil {
		return it.Err()
	}

	fmt.Printf("Exported %d key/value pairs to %s\n", count, ctx.String(outputFlag.Name))
	return nil
}
