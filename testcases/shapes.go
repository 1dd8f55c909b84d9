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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"
)

var fillShapes = []Shape{
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 44, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{},
		Area:   34 * 34,
	},
	{
		Name:   "triangle",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Op:     Fill{},
		Area:   880,
	},
	{
		Name:   "star_nonzero",
		Path:   fivePointStar(32, 32, 25),
		Width:  64,
		Height: 64,
		Op:     Fill{},
	},
	{
		Name:   "yarn",
		Path:   rectangle(3.5, 0, 16.5, 20),
		Width:  20,
		Height: 20,
		Op:     Fill{},
		Area:   13 * 20,
	},
	{
		Name:   "yarn_offset",
		Path:   rectangle(23.4, 1.7, 30.55, 12.7),
		Width:  40,
		Height: 20,
		Op:     Fill{},
		Area:   7.15 * 11,
	},
	{
		Name:   "yarn_rounded",
		Path:   roundedRectangle(10, 4, 13, 40, 6.5),
		Width:  32,
		Height: 48,
		Op:     Fill{},
		Area:   13*40 - (4-math.Pi)*6.5*6.5,
	},
	{
		Name:   "circle",
		Path:   circle(32, 32, 20),
		Width:  64,
		Height: 64,
		Op:     Fill{},
		Area:   math.Pi * 20 * 20,
	},
	{
		Name:   "diamond",
		Path:   diamond(32, 32, 20),
		Width:  64,
		Height: 64,
		Op:     Fill{},
		Area:   800,
	},
	{
		Name:   "ctm_scaled",
		Path:   rectangle(5, 5, 15, 15),
		Width:  40,
		Height: 40,
		Op:     Fill{},
		CTM:    matrix.Matrix{2, 0, 0, 2, 0, 0},
		Area:   400,
	},
	{
		Name:   "ctm_swapped",
		Path:   rectangle(2, 4, 30, 10),
		Width:  40,
		Height: 40,
		Op:     Fill{},
		CTM:    matrix.Matrix{0, 1, 1, 0, 0, 0},
		Area:   28 * 6,
	},
}

var strokeShapes = []Shape{
	{
		Name:   "line_butt",
		Path:   horizontalLine(10, 32, 54),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      8,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
		Area: 44 * 8,
	},
	{
		Name:   "line_round",
		Path:   horizontalLine(10, 32, 54),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      8,
			Cap:        graphics.LineCapRound,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
		Area: 44*8 + math.Pi*16,
	},
	{
		Name:   "line_square",
		Path:   horizontalLine(10, 32, 54),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      8,
			Cap:        graphics.LineCapSquare,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
		Area: 52 * 8,
	},
	{
		Name:   "corner_miter",
		Path:   corner(10, 50, 32, 14, 54, 50),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
	},
	{
		Name:   "corner_round",
		Path:   corner(10, 50, 32, 14, 54, 50),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinRound,
			MiterLimit: 10,
		},
	},
	{
		Name:   "corner_bevel",
		Path:   corner(10, 50, 32, 14, 54, 50),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      6,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinBevel,
			MiterLimit: 10,
		},
	},
	{
		Name:   "closed_square",
		Path:   rectangle(20, 20, 40, 40),
		Width:  64,
		Height: 64,
		Op: Stroke{
			Width:      4,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
		Area: 24*24 - 16*16,
	},
	{
		Name:   "ruler_tick",
		Path:   verticalLine(10.5, 0, 12),
		Width:  20,
		Height: 20,
		Op: Stroke{
			Width:      1,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
		},
		Area: 12,
	},
	{
		Name:   "dashed_guide",
		Path:   horizontalLine(0, 20, 60),
		Width:  64,
		Height: 40,
		Op: Stroke{
			Width:      2,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
			Dash:       []float64{4, 4},
		},
		Area: 8 * 4 * 2,
	},
	{
		Name:   "dashed_phase",
		Path:   horizontalLine(0, 20, 60),
		Width:  64,
		Height: 40,
		Op: Stroke{
			Width:      2,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 10,
			Dash:       []float64{4, 4},
			DashPhase:  2,
		},
		Area: (2 + 7*4) * 2,
	},
}

// largeShapes have bounding boxes above 65536 pixels, which selects the
// active edge list sweep in the rasterizer.
var largeShapes = []Shape{
	{
		Name:   "large_rectangle",
		Path:   rectangle(50, 50, 462, 462),
		Width:  512,
		Height: 512,
		Op:     Fill{},
		Area:   412 * 412,
	},
	{
		Name:   "large_diamond",
		Path:   diamond(256, 256, 180),
		Width:  512,
		Height: 512,
		Op:     Fill{},
		Area:   2 * 180 * 180,
	},
	{
		Name:   "large_grid",
		Path:   rectangleGrid(8, 8, 512, 512, 4),
		Width:  512,
		Height: 512,
		Op:     Fill{},
		Area:   64 * 60 * 60,
	},
	{
		Name:   "large_clipped",
		Path:   rectangle(-100, 100, 612, 400),
		Width:  512,
		Height: 512,
		Op:     Fill{},
		Area:   512 * 300,
	},
}

// triangle builds a triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}

// fivePointStar builds a five-pointed star (self-intersecting).
func fivePointStar(cx, cy, r float64) *path.Data {
	p := &path.Data{}
	// connect every second point: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	for k, i := range []int{0, 2, 4, 1, 3} {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		v := pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
		if k == 0 {
			p.MoveTo(v)
		} else {
			p.LineTo(v)
		}
	}
	return p.Close()
}

// rectangle builds a rectangular path.
func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// roundedRectangle builds a rectangle whose corners are quarter circles
// of radius r, approximated by cubic Bézier curves.
func roundedRectangle(x, y, w, h, r float64) *path.Data {
	const k = 0.5522847498
	kr := r * k
	x1, y1 := x+w, y+h
	return (&path.Data{}).
		MoveTo(pt(x+r, y)).
		LineTo(pt(x1-r, y)).
		CubeTo(pt(x1-r+kr, y), pt(x1, y+r-kr), pt(x1, y+r)).
		LineTo(pt(x1, y1-r)).
		CubeTo(pt(x1, y1-r+kr), pt(x1-r+kr, y1), pt(x1-r, y1)).
		LineTo(pt(x+r, y1)).
		CubeTo(pt(x+r-kr, y1), pt(x, y1-r+kr), pt(x, y1-r)).
		LineTo(pt(x, y+r)).
		CubeTo(pt(x, y+r-kr), pt(x+r-kr, y), pt(x+r, y)).
		Close()
}

// circle builds a circle from four cubic Bézier curves.
func circle(cx, cy, r float64) *path.Data {
	return roundedRectangle(cx-r, cy-r, 2*r, 2*r, r)
}

// diamond builds a square rotated by 45 degrees.
func diamond(cx, cy, r float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(cx, cy-r)).
		LineTo(pt(cx+r, cy)).
		LineTo(pt(cx, cy+r)).
		LineTo(pt(cx-r, cy)).
		Close()
}

// rectangleGrid builds a grid of rectangles, separated by gap.
func rectangleGrid(rows, cols, width, height int, gap float64) *path.Data {
	p := &path.Data{}
	w := float64(width) / float64(cols)
	h := float64(height) / float64(rows)
	for i := range rows {
		for j := range cols {
			x := float64(j)*w + gap/2
			y := float64(i)*h + gap/2
			p.MoveTo(pt(x, y)).
				LineTo(pt(x+w-gap, y)).
				LineTo(pt(x+w-gap, y+h-gap)).
				LineTo(pt(x, y+h-gap)).
				Close()
		}
	}
	return p
}

func horizontalLine(x1, y, x2 float64) *path.Data {
	return (&path.Data{}).MoveTo(pt(x1, y)).LineTo(pt(x2, y))
}

func verticalLine(x, y1, y2 float64) *path.Data {
	return (&path.Data{}).MoveTo(pt(x, y1)).LineTo(pt(x, y2))
}

func corner(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).MoveTo(pt(x1, y1)).LineTo(pt(x2, y2)).LineTo(pt(x3, y3))
}
