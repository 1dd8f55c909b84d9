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

// Command genpdf generates reference images.
//
// For every reference draft it writes the PDF chart, and for every
// rasterizer shape a PDF showing the shape in white on black.  All PDFs
// are then rendered to PNGs using Ghostscript, for visual comparison
// with the output of the rasterizer and the fabric renderer.
package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/chart"
	"seehuhn.de/go/loom/testcases"
)

const refDir = "testdata/reference"

func main() {
	if err := os.MkdirAll(refDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			name := "chart_" + category + "_" + tc.Name
			pdfPath := filepath.Join(refDir, name+".pdf")
			err := chart.Write(pdfPath, &loom.Document{Draft: tc.Draft()}, nil)
			if errors.Is(err, chart.ErrNothingToDraw) {
				continue
			} else if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := renderPNG(pdfPath, filepath.Join(refDir, name+".png"), "png16m"); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.Shapes)) {
		for _, s := range testcases.Shapes[category] {
			name := "shape_" + category + "_" + s.Name
			pdfPath := filepath.Join(refDir, name+".pdf")
			if err := shapePDF(s, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := renderPNG(pdfPath, filepath.Join(refDir, name+".png"), "pnggray"); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
		}
	}
}

func shapePDF(s testcases.Shape, pdfPath string) error {
	// 1 point = 1 pixel at 72 DPI
	paper := &pdf.Rectangle{
		URx: float64(s.Width),
		URy: float64(s.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// black background, so that gray levels are coverage values
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, float64(s.Width), float64(s.Height))
	page.Fill()

	// shapes use a top-left origin
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(s.Height)})
	if s.CTM != (matrix.Matrix{}) && s.CTM != matrix.Identity {
		page.Transform(s.CTM)
	}

	page.SetFillColor(color.DeviceGray(1))
	page.SetStrokeColor(color.DeviceGray(1))

	// stroke parameters must be set before the path is built
	op, isStroke := s.Op.(testcases.Stroke)
	if isStroke {
		page.SetLineWidth(op.Width)
		page.SetLineCap(op.Cap)
		page.SetLineJoin(op.Join)
		page.SetMiterLimit(op.MiterLimit)
		if len(op.Dash) > 0 {
			page.SetLineDash(op.Dash, op.DashPhase)
		}
	}

	// PDF has no quadratic curves
	for cmd, pts := range s.Path.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}

	if isStroke {
		page.Stroke()
	} else {
		page.Fill()
	}
	return page.Close()
}

// renderPNG renders a PDF file with Ghostscript at 72 DPI, using 4x
// supersampling for anti-aliasing.
func renderPNG(pdfPath, pngPath, device string) error {
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE="+device,
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
