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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/loom/raster"
)

// edgeShade is the darkening at both edges of a yarn segment.
// It falls off linearly to zero at the center line.
const edgeShade = 0.6

// Coarse paints each crossing as two yarn segments.  The first pass
// paints the lower thread of every cell.  The second pass paints the
// upper thread, at full cell length and with a drop shadow, so that it
// covers the ends of its neighbours' lower threads.
type Coarse struct {
	r    *raster.Rasterizer
	path path.Data
	emit raster.EmitFunc

	// the segment being drawn, read by fillRow
	dst      *image.RGBA
	col      color.RGBA
	vertical bool
	lo, w    float64 // extent across the thread

	shadowX, shadowY []float32
}

// NewCoarse returns a new Coarse strategy.
func NewCoarse() *Coarse {
	c := &Coarse{
		r: raster.NewRasterizer(rect.Rect{}),
	}
	c.emit = c.fillRow
	return c
}

// Paint implements the Strategy interface.
func (c *Coarse) Paint(dst *image.RGBA, p *Params) Stats {
	Clear(dst)
	b := dst.Bounds()
	cols, rows, ok := p.grid(b)
	if !ok {
		return Stats{}
	}
	if c.r == nil {
		c.r = raster.NewRasterizer(rect.Rect{})
		c.emit = c.fillRow
	}

	c.r.Reset(rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	})
	c.dst = dst
	defer func() { c.dst = nil }()

	stats := Stats{Cells: cols * rows}
	for pass := range 2 {
		upper := pass == 1
		for i := range cols {
			warpCol := p.Warp[i%len(p.Warp)]
			for j := range rows {
				weftCol := p.Weft[j%len(p.Weft)]
				// the warp is drawn in the pass where it is on the
				// matching side of the crossing
				warp := p.Weave.IsWarpOver(i, j) == upper
				if warp {
					c.segment(b, p, i, j, true, warpCol, upper)
				} else {
					c.segment(b, p, i, j, false, weftCol, upper)
				}
				stats.Segments++
			}
		}
	}
	return stats
}

// segment draws one yarn segment of cell (i, j).
func (c *Coarse) segment(b image.Rectangle, p *Params, i, j int, vertical bool, col color.RGBA, shadow bool) {
	x := float64(b.Min.X) + float64(i)*p.WarpStep
	y := float64(b.Min.Y) + float64(j)*p.WeftStep
	w, h := p.WarpStep, p.WeftStep
	if vertical {
		yarn := w * p.Thickness
		x += (w - yarn) / 2
		w = yarn
		c.lo, c.w = x, w
	} else {
		yarn := h * p.Thickness
		y += (h - yarn) / 2
		h = yarn
		c.lo, c.w = y, h
	}
	c.col = col
	c.vertical = vertical

	if shadow && p.ShadowBlur > 0 {
		c.dropShadow(b, x, y, x+w, y+h, p.ShadowBlur/2)
	}

	radius := 0.0
	if p.Rounded {
		radius = min(w, h) / 2
	}
	c.yarnPath(x, y, w, h, radius)
	c.r.Fill(&c.path, c.emit)
}

// yarnPath stores a rectangle with optionally rounded corners in c.path.
func (c *Coarse) yarnPath(x, y, w, h, radius float64) {
	p := &c.path
	p.Cmds = p.Cmds[:0]
	p.Coords = p.Coords[:0]

	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
	if radius <= 0 {
		p.MoveTo(pt(x, y)).
			LineTo(pt(x+w, y)).
			LineTo(pt(x+w, y+h)).
			LineTo(pt(x, y+h)).
			Close()
		return
	}

	const k = 0.5522847498 // cubic approximation of a quarter circle
	r, kr := radius, radius*k
	x1, y1 := x+w, y+h
	p.MoveTo(pt(x+r, y)).
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

// fillRow composites one row of the current segment onto c.dst.  The
// yarn color is darkened towards both edges of the thread.
func (c *Coarse) fillRow(y, xMin int, coverage []float32) {
	pix := c.dst.Pix[c.dst.PixOffset(xMin, y):]
	dark := float32(0)
	if !c.vertical {
		dark = c.shade(float64(y) + 0.5)
	}
	for k, cov := range coverage {
		if cov <= 0 {
			continue
		}
		if c.vertical {
			dark = c.shade(float64(xMin+k) + 0.5)
		}
		over(pix[4*k:4*k+4], c.col, 1-dark, cov)
	}
}

// shade returns the darkening at position u across the thread.
func (c *Coarse) shade(u float64) float32 {
	t := (u - c.lo) / c.w
	t = min(max(t, 0), 1)
	return float32(edgeShade * math.Abs(2*t-1))
}

// over composites the opaque color col, scaled by light, with coverage
// cov onto the premultiplied pixel px.
func over(px []uint8, col color.RGBA, light, cov float32) {
	inv := 1 - cov
	px[0] = uint8(float32(col.R)*light*cov + float32(px[0])*inv + 0.5)
	px[1] = uint8(float32(col.G)*light*cov + float32(px[1])*inv + 0.5)
	px[2] = uint8(float32(col.B)*light*cov + float32(px[2])*inv + 0.5)
	px[3] = uint8(float32(col.A)*cov + float32(px[3])*inv + 0.5)
}

// dropShadow darkens dst with the Gaussian blur, of standard deviation
// sigma, of the rectangle [x0, x1] × [y0, y1].  The blur of a rectangle
// separates into the product of two error function profiles.
func (c *Coarse) dropShadow(b image.Rectangle, x0, y0, x1, y1, sigma float64) {
	reach := 3 * sigma
	ix0 := max(int(math.Floor(x0-reach)), b.Min.X)
	ix1 := min(int(math.Ceil(x1+reach)), b.Max.X)
	iy0 := max(int(math.Floor(y0-reach)), b.Min.Y)
	iy1 := min(int(math.Ceil(y1+reach)), b.Max.Y)
	if ix0 >= ix1 || iy0 >= iy1 {
		return
	}

	c.shadowX = profile(c.shadowX[:0], ix0, ix1, x0, x1, sigma)
	c.shadowY = profile(c.shadowY[:0], iy0, iy1, y0, y1, sigma)

	for j, ay := range c.shadowY {
		if ay <= 0 {
			continue
		}
		pix := c.dst.Pix[c.dst.PixOffset(ix0, iy0+j):]
		for i, ax := range c.shadowX {
			a := ax * ay
			if a <= 1.0/512 {
				continue
			}
			px := pix[4*i : 4*i+4]
			inv := 1 - a
			px[0] = uint8(float32(px[0])*inv + 0.5)
			px[1] = uint8(float32(px[1])*inv + 0.5)
			px[2] = uint8(float32(px[2])*inv + 0.5)
			px[3] = uint8(255*a + float32(px[3])*inv + 0.5)
		}
	}
}

// profile appends the blurred indicator of [lo, hi], sampled at the
// pixel centers from i0 to i1-1.
func profile(buf []float32, i0, i1 int, lo, hi, sigma float64) []float32 {
	s := 1 / (sigma * math.Sqrt2)
	for i := i0; i < i1; i++ {
		u := float64(i) + 0.5
		v := 0.5 * (math.Erf((u-lo)*s) - math.Erf((u-hi)*s))
		buf = append(buf, float32(v))
	}
	return buf
}
