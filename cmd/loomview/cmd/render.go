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
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/fabric"
)

var (
	renderWidth   int
	renderHeight  int
	renderZoom    float64
	renderQuality string
	renderScale   string
	renderGuides  bool
	renderRounded bool
	renderThumb   int
)

var renderCmd = &cobra.Command{
	Use:   "render <draft-file> <png-file>",
	Short: "Render a fabric preview as a PNG image",
	Long: `Render the fabric described by a draft and write it as a PNG image.

At zoom z, one inch of fabric covers 96*z pixels.  Quality "auto" picks
the fine renderer when every thread is at least 16 pixels wide.

Examples:
  loomview render twill.yaml twill.png
  loomview render twill.yaml thumb.png --zoom 6 --thumb 200
  loomview render plain.yaml out.png --threading "1 2 1 2 1 2 2 1"`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.IntVar(&renderWidth, "width", loom.DefaultWidth, "image width in pixels")
	f.IntVar(&renderHeight, "height", loom.DefaultHeight, "image height in pixels")
	f.Float64Var(&renderZoom, "zoom", loom.ZoomDetail, "zoom factor")
	f.StringVar(&renderQuality, "quality", "auto", `renderer: "auto", "coarse" or "fine"`)
	f.StringVar(&renderScale, "scale", "auto", `inch rulers: "auto", "show" or "hide"`)
	f.BoolVar(&renderGuides, "guides", false, "draw dashed guides at every inch")
	f.BoolVar(&renderRounded, "rounded", false, "rounded yarn ends (coarse renderer)")
	f.IntVar(&renderThumb, "thumb", 0, "write a thumbnail of this width instead")
	addDraftFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderWidth <= 0 || renderHeight <= 0 || renderWidth > loom.MaxSide || renderHeight > loom.MaxSide {
		return fmt.Errorf("image size %dx%d out of range", renderWidth, renderHeight)
	}
	if !(renderZoom > 0) {
		return errors.New("--zoom must be positive")
	}
	q, ok := fabric.ParseQuality(renderQuality)
	if !ok {
		return fmt.Errorf("unknown quality %q", renderQuality)
	}
	sm, ok := loom.ParseScaleMode(renderScale)
	if !ok {
		return fmt.Errorf("unknown scale mode %q", renderScale)
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, renderWidth, renderHeight))
	stats, err := doc.Render(img, loom.RenderOptions{
		Zoom:    renderZoom,
		Quality: q,
		Scale:   sm,
		Guides:  renderGuides,
		Rounded: renderRounded,
	})
	if err != nil {
		return err
	}

	var out image.Image = img
	if renderThumb > 0 {
		out = loom.Thumbnail(img, renderThumb)
	}
	if err := writePNG(args[1], out); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s quality, %d cells, %.0f epi, %.0f ppi\n",
			args[1], stats.Quality, stats.Cells, stats.Density.EPI, stats.Density.PPI)
	}
	return nil
}

func writePNG(fname string, img image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fname, err)
	}
	return f.Close()
}
