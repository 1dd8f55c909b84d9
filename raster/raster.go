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

// Package raster turns yarn outlines and ruler strokes into anti-aliased
// pixel coverage.
//
// Coverage is reported row by row through an [EmitFunc]; the caller decides
// how to composite it. This keeps the package free of any color model, so
// the same Rasterizer serves the fabric painter and the scale overlay.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one pixel row. Coverage values lie in
// [0, 1] and start at pixel xMin. The slice is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a non-horizontal line segment in device space.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

// Rasterizer computes pixel coverage for filled and stroked paths.
// Buffers are kept between calls, so a Rasterizer which is reused for
// many small shapes does not allocate once it has warmed up.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. It must be non-singular.
	CTM matrix.Matrix

	// Clip limits output to this device-space rectangle.
	// The coordinates must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the polygon which replaces it.
	Flatness float64

	// Width is the stroke width in user-space units.
	Width float64

	// Cap is the style used at the open ends of stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used where two stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, relative to Width.
	MiterLimit float64

	// Dash lists alternating on/off lengths in user-space units.
	// A nil slice strokes solid lines.
	Dash []float64

	// DashPhase is the distance into the dash pattern at which each
	// subpath starts.
	DashPhase float64

	// smallPathThreshold is the bounding box area, in pixels, below
	// which a path is accumulated into a full 2D buffer instead of being
	// swept with an active edge list.
	smallPathThreshold int

	cover       []float32
	area        []float32
	edges       []edge
	activeIdx   []int
	rowHasEdges []bool

	haveBBox           bool
	bboxXMin, bboxXMax float64
	bboxYMin, bboxYMax float64

	// stroking state, see stroke.go
	lines       []vec.Vec2
	lineStarts  []int
	lineClosed  []bool
	dots        []vec.Vec2
	dashed      []vec.Vec2
	dashedStart []int
	poly        []vec.Vec2
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with
// an identity CTM and PDF default stroke parameters.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores all public fields to their defaults and installs a new
// clip rectangle. Buffer capacity is kept.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
	r.Dash = nil
	r.DashPhase = 0
	r.smallPathThreshold = smallPathThreshold
}

// Fill computes the coverage of the path under the nonzero winding rule.
// Open subpaths are closed implicitly.
func (r *Rasterizer) Fill(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.walkPath(p)
	r.sweep(emit)
}

// beginEdges discards the edges of the previous shape.
func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.haveBBox = false
}

// sweep converts the collected edges into coverage rows.
func (r *Rasterizer) sweep(emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.clippedBBox()
	if !ok {
		return
	}
	if (xMax-xMin)*(yMax-yMin) < r.smallPathThreshold {
		r.sweepSmall(xMin, xMax, yMin, yMax, emit)
	} else {
		r.sweepLarge(xMin, xMax, yMin, yMax, emit)
	}
}

// walkPath flattens a path into device-space edges.
func (r *Rasterizer) walkPath(p *path.Data) {
	var cur, start vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && cur != start {
				r.addEdge(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			k++
		case path.CmdLineTo:
			r.addEdge(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(cur, p.Coords[k], p.Coords[k+1], r.addEdge)
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addEdge)
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if cur != start {
				r.addEdge(cur, start)
			}
			cur = start
			open = false
		}
	}
	if open && cur != start {
		r.addEdge(cur, start)
	}
}

// addPolygon adds the closed polygon pts, given in user space.
func (r *Rasterizer) addPolygon(pts []vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	for i := 1; i < len(pts); i++ {
		r.addEdge(pts[i-1], pts[i])
	}
	r.addEdge(pts[len(pts)-1], pts[0])
}

// addEdge transforms a user-space segment to device space and records it.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	m := &r.CTM
	x0 := m[0]*p0.X + m[2]*p0.Y + m[4]
	y0 := m[1]*p0.X + m[3]*p0.Y + m[5]
	x1 := m[0]*p1.X + m[2]*p1.Y + m[4]
	y1 := m[1]*p1.X + m[3]*p1.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if !r.haveBBox {
		r.bboxXMin, r.bboxXMax = min(x0, x1), max(x0, x1)
		r.bboxYMin, r.bboxYMax = min(y0, y1), max(y0, y1)
		r.haveBBox = true
		return
	}
	r.bboxXMin = min(r.bboxXMin, x0, x1)
	r.bboxXMax = max(r.bboxXMax, x0, x1)
	r.bboxYMin = min(r.bboxYMin, y0, y1)
	r.bboxYMax = max(r.bboxYMax, y0, y1)
}

// clippedBBox returns the integer pixel range touched by the edges,
// intersected with the clip rectangle.
func (r *Rasterizer) clippedBBox() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bboxXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bboxXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bboxYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bboxYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// transformLinear applies the linear part of the CTM, for tolerances.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic replaces a quadratic Bézier curve by line segments.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(a, b vec.Vec2)) {
	dev := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		emit(prev, q)
		prev = q
	}
}

// flattenCubic replaces a cubic Bézier curve by line segments.
// The number of segments follows Wang's formula.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(a, b vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if f := math.Sqrt(3 * m / (4 * r.Flatness)); f > 1 {
			n = int(math.Ceil(f))
		}
	}
	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		q := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(prev, q)
		prev = q
	}
}

// The sweep keeps two numbers per pixel:
//
//	cover: signed height of all edge pieces inside the pixel column
//	area:  the part of cover which lies to the right of the edge
//
// Running left to right, coverage = carried cover + area of the pixel,
// and the pixel's cover is then carried on to the next pixel.

// accumulate adds the part of e within scanline y to the row buffers,
// whose index 0 corresponds to device x = x0.
func accumulate(e *edge, y int, cover, area []float32, x0, x1 int) {
	top := max(float64(y), min(e.y0, e.y1))
	bot := min(float64(y+1), max(e.y0, e.y1))
	if bot <= top {
		return
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(top-e.y0)
	xb := e.x0 + e.dxdy*(bot-e.y0)
	left, right := min(xa, xb), max(xa, xb)
	pl := int(math.Floor(left))
	pr := int(math.Floor(right))

	if pr < x0 {
		// entirely left of the buffer: carries full cover into column 0
		c := sign * float32(bot-top)
		cover[0] += c
		area[0] += c
		return
	}
	if pl >= x1 {
		return
	}

	if pl == pr {
		deposit(e, top, bot, sign, pl, cover, area, x0, x1)
		return
	}

	dydx := 1 / e.dxdy
	for px := pl; px <= pr; px++ {
		ya := e.y0 + dydx*(float64(px)-e.x0)
		yb := e.y0 + dydx*(float64(px+1)-e.x0)
		lo := max(min(ya, yb), top)
		hi := min(max(ya, yb), bot)
		if hi <= lo {
			continue
		}
		deposit(e, lo, hi, sign, px, cover, area, x0, x1)
	}
}

// deposit records the piece of e between heights lo and hi, which lies
// inside the pixel column px.
func deposit(e *edge, lo, hi float64, sign float32, px int, cover, area []float32, x0, x1 int) {
	c := sign * float32(hi-lo)
	switch {
	case px < x0:
		cover[0] += c
		area[0] += c
	case px < x1:
		xm := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		frac := xm - float64(px)
		i := px - x0
		cover[i] += c
		area[i] += c * float32(1-frac)
	}
}

// integrate turns a row of cover/area values into nonzero coverage,
// in place.
func integrate(cover, area []float32) {
	var carry float32
	for i := range cover {
		v := carry + area[i]
		carry += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// trimZeros strips zero coverage from both ends of a row.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}

// sweepSmall accumulates all edges into a width×height buffer and then
// integrates row by row.
func (r *Rasterizer) sweepSmall(xMin, xMax, yMin, yMax int, emit EmitFunc) {
	w, h := xMax-xMin, yMax-yMin
	n := w * h
	r.cover = slices.Grow(r.cover[:0], n)[:n]
	r.area = slices.Grow(r.area[:0], n)[:n]
	clear(r.cover)
	clear(r.area)
	r.rowHasEdges = slices.Grow(r.rowHasEdges[:0], h)[:h]
	clear(r.rowHasEdges)

	for i := range r.edges {
		e := &r.edges[i]
		lo := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		hi := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := lo; y < hi; y++ {
			row := y - yMin
			off := row * w
			accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			r.rowHasEdges[row] = true
		}
	}

	for row := range h {
		if !r.rowHasEdges[row] {
			continue
		}
		off := row * w
		cov := r.cover[off : off+w]
		integrate(cov, r.area[off:off+w])
		if t, dx := trimZeros(cov); t != nil {
			emit(yMin+row, xMin+dx, t)
		}
	}
}

// sweepLarge processes one scanline at a time, keeping only the edges
// which overlap the current scanline.
func (r *Rasterizer) sweepLarge(xMin, xMax, yMin, yMax int, emit EmitFunc) {
	w := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yTop, yBot := float64(y), float64(y+1)

		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < yBot {
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if max(e.y0, e.y1) <= yTop {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			accumulate(e, y, r.cover, r.area, xMin, xMax)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		integrate(r.cover, r.area)
		if t, dx := trimZeros(r.cover); t != nil {
			emit(y, xMin+dx, t)
		}
	}
}

const (
	defaultFlatness   = 0.25
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which contributes coverage.
	horizontalEdgeThreshold = 1e-10

	// smallPathThreshold separates the two sweep strategies.
	smallPathThreshold = 65536

	// zeroLengthThreshold is the shortest stroke segment which is kept.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the |sin| of the turning angle below which
	// two stroke segments are treated as collinear.
	collinearityThreshold = 1e-6
)
