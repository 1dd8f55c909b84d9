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
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/fabric"
	"seehuhn.de/go/loom/weave"
)

var densityZoom float64

var densityCmd = &cobra.Command{
	Use:   "density <draft-file>",
	Short: "Show the thread density of a draft",
	Long: `Show the ends and picks per inch of a draft, and the size of one
thread in a preview at the given zoom.

Examples:
  loomview density twill.yaml
  loomview density twill.yaml --zoom 6 --denting "[1 2 3 4]x4"`,
	Args: cobra.ExactArgs(1),
	RunE: runDensity,
}

func init() {
	rootCmd.AddCommand(densityCmd)
	densityCmd.Flags().Float64Var(&densityZoom, "zoom", loom.ZoomDetail, "zoom factor")
	addDraftFlags(densityCmd)
}

func runDensity(cmd *cobra.Command, args []string) error {
	if !(densityZoom > 0) {
		return fmt.Errorf("--zoom must be positive")
	}
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	res := doc.Resolve()
	warpStep, weftStep := res.Density.Steps(densityZoom)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "mode:\t%s\n", doc.Draft.Loom.Density.Mode)
	fmt.Fprintf(w, "chain:\t%s\n", doc.Draft.Loom.Chain)
	threads := len(res.Threads)
	if doc.Draft.Loom.Chain == weave.ChainDirect {
		threads = len(doc.Draft.Threading)
	}
	fmt.Fprintf(w, "threads:\t%d\n", threads)
	fmt.Fprintf(w, "ends per inch:\t%g\n", res.Density.EPI)
	fmt.Fprintf(w, "picks per inch:\t%g\n", res.Density.PPI)
	if res.Density.DentsPerInch > 0 {
		fmt.Fprintf(w, "dents per inch:\t%g\n", res.Density.DentsPerInch)
	}
	fmt.Fprintf(w, "warp step:\t%.2f px\n", warpStep)
	fmt.Fprintf(w, "weft step:\t%.2f px\n", weftStep)
	fmt.Fprintf(w, "quality:\t%s\n", fabric.QualityAuto.Resolve(warpStep, weftStep))
	if res.Empty {
		fmt.Fprintf(w, "note:\tnothing to draw\n")
	}
	return w.Flush()
}
