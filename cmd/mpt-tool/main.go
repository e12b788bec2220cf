// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Run using
//  go run ./cmd/mpt-tool <command> <flags>

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var rootFlag = cli.StringFlag{
	Name:     "root",
	Usage:    "hex-encoded 32-byte root hash of the trie to operate on",
	Required: true,
}

func main() {
	app := &cli.App{
		Name:      "mpt-tool",
		Usage:     "Merkle Patricia Trie inspection toolbox",
		Copyright: "(c) 2024 Fantom Foundation",
		Commands: []*cli.Command{
			&Info,
			&Export,
			&Import,
			&Check,
			&CrossCheck,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
