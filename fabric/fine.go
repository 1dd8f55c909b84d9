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

package fabric

import (
	"image"
	"image/color"
	"math"
)

// Fine computes every pixel of the fabric directly.  Each pixel shows
// the upper thread of its cell if it lies on the upper thread's band,
// otherwise the lower thread if it lies on that band, and otherwise it
// is left clear.
//
// Threads are shaded with a light ramp across their width, a dark line
// along both edges, and a small deterministic per-pixel jitter.
type Fine struct {
	over []bool // IsWarpOver for every column of the current row of cells
}

// NewFine returns a new Fine strategy.
func NewFine() *Fine {
	return &Fine{}
}

// band describes where a pixel lies across one thread.
type band struct {
	in   bool
	t    float64 // position across the thread, in [0, 1]
	edge float64 // distance to the nearest thread edge, in pixels
}

func findBand(u, step, thickness float64) band {
	yarn := step * thickness
	lo := (step - yarn) / 2
	d := u - lo
	if d < 0 || d > yarn {
		return band{}
	}
	return band{in: true, t: d / yarn, edge: min(d, yarn-d)}
}

// Paint implements the Strategy interface.
func (f *Fine) Paint(dst *image.RGBA, p *Params) Stats {
	Clear(dst)
	b := dst.Bounds()
	cols, rows, ok := p.grid(b)
	if !ok {
		return Stats{}
	}
	stats := Stats{Cells: cols * rows}
	if cap(f.over) < cols {
		f.over = make([]bool, cols)
	}
	f.over = f.over[:cols]

	row := -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		v := float64(y-b.Min.Y) + 0.5
		j := int(v / p.WeftStep)
		if j != row {
			for i := range f.over {
				f.over[i] = p.Weave.IsWarpOver(i, j)
			}
			row = j
		}
		weft := findBand(v-float64(j)*p.WeftStep, p.WeftStep, p.Thickness)
		weftCol := p.Weft[j%len(p.Weft)]

		pix := dst.Pix[dst.PixOffset(b.Min.X, y):]
		for x := b.Min.X; x < b.Max.X; x++ {
			u := float64(x-b.Min.X) + 0.5
			i := int(u / p.WarpStep)
			if i >= cols {
				i = cols - 1
			}
			warp := findBand(u-float64(i)*p.WarpStep, p.WarpStep, p.Thickness)

			var col color.RGBA
			var at band
			switch {
			case f.over[i] && warp.in, !f.over[i] && !weft.in && warp.in:
				col, at = p.Warp[i%len(p.Warp)], warp
			case weft.in:
				col, at = weftCol, weft
			default:
				continue
			}

			delta := 255 * p.Curvature * (2*math.Sin(math.Pi*at.t) - 1)
			if at.edge < 1 {
				delta -= p.EdgeDarken
			}
			delta += p.Noise * jitter(x-b.Min.X, y-b.Min.Y)

			k := 4 * (x - b.Min.X)
			pix[k] = clamp(float64(col.R) + delta)
			pix[k+1] = clamp(float64(col.G) + delta)
			pix[k+2] = clamp(float64(col.B) + delta)
			pix[k+3] = 0xff
			stats.Pixels++
		}
	}
	return stats
}

// jitter returns a deterministic pseudo-random value in [-1, 1).  The
// phase sin(x*0.1 + y*0.1) alone varies smoothly along diagonals and
// shows as stripes, so it is scrambled by taking the fractional part of
// a large multiple.
func jitter(x, y int) float64 {
	v := math.Sin(float64(x)*0.1+float64(y)*0.1) * 43758.5453
	return 2*(v-math.Floor(v)) - 1
}

func clamp(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
