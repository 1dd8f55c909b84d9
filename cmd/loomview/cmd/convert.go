// seehuhn.de/go/loom - a hand-loom weaving preview
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a draft between YAML, JSON and MessagePack",
	Long: `Read a draft and write it in the format given by the extension of
the output file.  Malformed cells are kept as they are.

Examples:
  loomview convert saved.json draft.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Load(args[0])
		if err != nil {
			return err
		}
		return store.Save(args[1], s)
	},
}

var newCmd = &cobra.Command{
	Use:   "new <output>",
	Short: "Write the default starting draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.Save(args[0], loom.New().Snapshot())
	},
}

// errInvalid signals that validate found problems.
var errInvalid = errors.New("draft has problems")

var validateCmd = &cobra.Command{
	Use:   "validate <draft-file>",
	Short: "Check a draft for inconsistencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		err = doc.Draft.Validate()
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return errInvalid
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(validateCmd)
	addDraftFlags(validateCmd)
}
