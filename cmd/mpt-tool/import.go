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
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/arsenron/cita-trie/kvstore"
	"github.com/arsenron/cita-trie/trie"
)

var inputFlag = cli.StringFlag{
	Name:     "input",
	Usage:    "file holding hex-encoded key/value lines, as produced by export",
	Required: true,
}

var Import = cli.Command{
	Action:    doImport,
	Name:      "import",
	Usage:     "rebuilds a trie in a fresh LevelDB directory from an exported key/value file",
	Flags:     []cli.Flag{&inputFlag},
	ArgsUsage: "<directory>",
}

func doImport(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing destination directory for the trie")
	}
	dir := ctx.Args().Get(0)

	in, err := os.Open(ctx.String(inputFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	db, err := kvstore.NewLevelDB(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}
	defer db.Close()

	t := trie.New(db)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return fmt.Errorf("malformed record: %q", line)
		}
		key, err := hex.DecodeString(parts[0])
		if err != nil {
			return fmt.Errorf("malformed key %q: %w", parts[0], err)
		}
		value, err := hex.DecodeString(parts[1])
		if err != nil {
			return fmt.Errorf("malformed value %q: %w", parts[1], err)
		}
		if err := t.Insert(key, value); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	rootHash, err := t.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit imported trie: %w", err)
	}

	fmt.Printf("Imported %d key/value pairs into %s\n", count, dir)
	fmt.Printf("Root hash: %s\n", hex.EncodeToString(rootHash[:]))
	return nil
}
