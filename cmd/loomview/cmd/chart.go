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
	"github.com/spf13/cobra"

	"seehuhn.de/go/loom/chart"
)

var chartOpts chart.Options

var chartCmd = &cobra.Command{
	Use:   "chart <draft-file> <pdf-file>",
	Short: "Write the draft as a printable PDF chart",
	Long: `Write the threading, lift plan and drawdown of a draft as a PDF chart.

Examples:
  loomview chart twill.yaml twill.pdf
  loomview chart twill.yaml big.pdf --cell 12 --threads 48 --picks 48`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}
		return chart.Write(args[1], doc, &chartOpts)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	f := chartCmd.Flags()
	f.Float64Var(&chartOpts.Cell, "cell", 8, "cell size in points")
	f.IntVar(&chartOpts.Threads, "threads", 0, "number of warp threads shown (default one repeat)")
	f.IntVar(&chartOpts.Picks, "picks", 0, "number of picks shown (default the lift plan)")
	addDraftFlags(chartCmd)
}
