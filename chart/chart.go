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

// Package chart writes a weaving draft as a printable PDF chart.
//
// The chart uses the traditional layout: the threading at the top, the
// lift plan to the right and the drawdown below the threading.  Cells of
// the drawdown are shaded by the brightness of the thread which lies on
// top, so that the chart prints well in black and white.
package chart

import (
	"errors"
	"image/color"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/weave"
)

// Options control the chart layout.  Zero fields take their defaults.
type Options struct {
	// Cell is the side length of a grid cell, in PDF points.
	Cell float64

	// Margin is the space around the chart, in PDF points.
	Margin float64

	// Threads and Picks give the size of the drawdown.  By default one
	// repeat of the threading and the lift plan is shown.
	Threads, Picks int
}

const (
	defaultCell   = 8
	defaultMargin = 36
	maxCells      = 400
	gap           = 1 // cells between the grids
)

// ErrNothingToDraw is returned for drafts without threads or picks.
var ErrNothingToDraw = errors.New("draft has no threads or picks")

// Layout is the size of the chart, in cells.
type Layout struct {
	Threads, Picks, Harnesses int

	// shaft gives the 0-based harness of every shown thread, or -1.
	shaft []int
}

// Width returns the chart width in cells, excluding the margin.
func (l *Layout) Width() int {
	return l.Threads + gap + l.Harnesses
}

// Height returns the chart height in cells, excluding the margin.
func (l *Layout) Height() int {
	return l.Harnesses + gap + l.Picks
}

// NewLayout computes the chart layout for the current state of doc.
func NewLayout(doc *loom.Document, opts *Options) (*Layout, error) {
	if opts == nil {
		opts = &Options{}
	}
	dr := doc.Draft
	res := doc.Resolve()

	harnesses := 0
	for _, row := range dr.Lift {
		harnesses = max(harnesses, len(row))
	}

	var shafts []int
	if dr.Loom.Chain == weave.ChainDirect {
		for _, h := range dr.Threading {
			shafts = append(shafts, h-1)
		}
	} else {
		// the denting chain looks shafts up relative to the viewport
		for _, s := range res.Threads {
			if s >= 0 && !res.View.Empty() {
				s = res.View.MinHarness + s%res.View.Harnesses()
			}
			shafts = append(shafts, s)
		}
	}

	l := &Layout{
		Threads:   opts.Threads,
		Picks:     opts.Picks,
		Harnesses: harnesses,
	}
	if l.Threads <= 0 {
		l.Threads = len(shafts)
	}
	if l.Picks <= 0 {
		l.Picks = len(dr.Lift)
	}
	l.Threads = min(l.Threads, maxCells)
	l.Picks = min(l.Picks, maxCells)
	if l.Threads == 0 || l.Picks == 0 || harnesses == 0 {
		return nil, ErrNothingToDraw
	}

	l.shaft = make([]int, l.Threads)
	for i := range l.shaft {
		l.shaft[i] = -1
		if len(shafts) > 0 {
			l.shaft[i] = shafts[i%len(shafts)]
		}
	}
	return l, nil
}

// Write creates a single page PDF file showing the chart of doc.
func Write(fname string, doc *loom.Document, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	l, err := NewLayout(doc, opts)
	if err != nil {
		return err
	}
	cell := opts.Cell
	if !(cell > 0) {
		cell = defaultCell
	}
	margin := opts.Margin
	if !(margin > 0) {
		margin = defaultMargin
	}

	width := 2*margin + cell*float64(l.Width())
	height := 2*margin + cell*float64(l.Height())
	paper := &pdf.Rectangle{URx: width, URy: height}

	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// Work in cell units with the origin at the top left.
	page.Transform(matrix.Matrix{cell, 0, 0, -cell, margin, height - margin})

	res := doc.Resolve()
	dr := doc.Draft
	threadX := 0.0
	liftX := float64(l.Threads + gap)
	downY := float64(l.Harnesses + gap)

	// threading
	page.SetFillColor(pdfcolor.DeviceGray(0))
	for i, s := range l.shaft {
		if s >= 0 && s < l.Harnesses {
			page.Rectangle(threadX+float64(i), float64(s), 1, 1)
		}
	}
	page.Fill()

	// lift plan
	for p := range l.Picks {
		if p >= len(dr.Lift) {
			break
		}
		for h, up := range dr.Lift[p] {
			if up {
				page.Rectangle(liftX+float64(h), downY+float64(p), 1, 1)
			}
		}
	}
	page.Fill()

	// drawdown
	if !res.Empty {
		for p := range l.Picks {
			for i := range l.Threads {
				var c color.RGBA
				if res.Weave.IsWarpOver(i, p) {
					c = res.Warp[i%len(res.Warp)]
				} else {
					c = res.Weft[p%len(res.Weft)]
				}
				page.SetFillColor(pdfcolor.DeviceGray(Luminance(c)))
				page.Rectangle(threadX+float64(i), downY+float64(p), 1, 1)
				page.Fill()
			}
		}
	}

	// grid lines
	page.SetStrokeColor(pdfcolor.DeviceGray(0.5))
	page.SetLineWidth(0.5 / cell)
	grid(page, threadX, 0, l.Threads, l.Harnesses)
	grid(page, liftX, downY, l.Harnesses, l.Picks)
	grid(page, threadX, downY, l.Threads, l.Picks)
	page.Stroke()

	return page.Close()
}

// grid adds the lines of a w by h grid with top left corner (x, y).
func grid(page *document.Page, x, y float64, w, h int) {
	for i := range w + 1 {
		page.MoveTo(x+float64(i), y)
		page.LineTo(x+float64(i), y+float64(h))
	}
	for j := range h + 1 {
		page.MoveTo(x, y+float64(j))
		page.LineTo(x+float64(w), y+float64(j))
	}
}

// Luminance returns the relative brightness of c, between 0 and 1, using
// the Rec. 601 weights.
func Luminance(c color.RGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}
