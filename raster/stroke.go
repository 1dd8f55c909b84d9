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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke computes the coverage of the outline of p, as described by
// Width, Cap, Join, MiterLimit, Dash and DashPhase.
//
// Every segment, cap and join becomes its own positively oriented polygon,
// and all polygons are filled together under the nonzero rule. Overlaps
// are therefore painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.flattenLines(p)

	lines, starts, closed := r.lines, r.lineStarts, r.lineClosed
	if len(r.Dash) > 0 && r.applyDash() {
		lines, starts, closed = r.dashed, r.dashedStart, nil
	}

	r.beginEdges()
	d := r.Width / 2
	for i, s := range starts {
		e := len(lines)
		if i+1 < len(starts) {
			e = starts[i+1]
		}
		r.strokePolyline(lines[s:e], closed != nil && closed[i], d)
	}
	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.dots {
			r.addDisc(pt, d)
		}
	}
	r.sweep(emit)
}

// flattenLines converts p into polylines. Curves are flattened with the
// same tolerance as for filling. Subpaths which do not move away from
// their start point are collected in r.dots.
func (r *Rasterizer) flattenLines(p *path.Data) {
	r.lines = r.lines[:0]
	r.lineStarts = r.lineStarts[:0]
	r.lineClosed = r.lineClosed[:0]
	r.dots = r.dots[:0]

	start := -1
	drawn := false
	finish := func(isClosed bool) {
		if start < 0 {
			return
		}
		pts := r.lines[start:]
		moved := false
		for _, q := range pts[1:] {
			if q != pts[0] {
				moved = true
				break
			}
		}
		switch {
		case moved:
			r.lineStarts = append(r.lineStarts, start)
			r.lineClosed = append(r.lineClosed, isClosed)
		case drawn:
			r.dots = append(r.dots, pts[0])
			r.lines = r.lines[:start]
		default:
			r.lines = r.lines[:start]
		}
		start = -1
		drawn = false
	}
	appendEnd := func(_, b vec.Vec2) {
		r.lines = append(r.lines, b)
	}

	var cur vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			finish(false)
			cur = p.Coords[k]
			start = len(r.lines)
			r.lines = append(r.lines, cur)
			k++
		case path.CmdLineTo:
			if start >= 0 {
				r.lines = append(r.lines, p.Coords[k])
				drawn = true
			}
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			if start >= 0 {
				r.flattenQuadratic(cur, p.Coords[k], p.Coords[k+1], appendEnd)
				drawn = true
			}
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			if start >= 0 {
				r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], appendEnd)
				drawn = true
			}
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if start >= 0 {
				cur = r.lines[start]
				drawn = true
			}
			finish(true)
		}
	}
	finish(false)
}

// applyDash splits the polylines into dashes, stored in r.dashed and
// r.dashedStart. It reports false if the dash pattern has zero length,
// in which case lines are stroked solid.
func (r *Rasterizer) applyDash() bool {
	total := 0.0
	for _, l := range r.Dash {
		total += l
	}
	if len(r.Dash)%2 == 1 {
		total *= 2
	}
	if !(total > 0) {
		return false
	}
	phase := math.Mod(r.DashPhase, total)
	if phase < 0 {
		phase += total
	}

	r.dashed = r.dashed[:0]
	r.dashedStart = r.dashedStart[:0]
	dashLen := func(i int) float64 { return r.Dash[i%len(r.Dash)] }

	for i, s := range r.lineStarts {
		e := len(r.lines)
		if i+1 < len(r.lineStarts) {
			e = r.lineStarts[i+1]
		}
		pts := r.lines[s:e]

		idx := 0
		left := phase
		for left > 0 && left >= dashLen(idx) {
			left -= dashLen(idx)
			idx++
		}
		remaining := dashLen(idx) - left
		on := idx%2 == 0
		if on {
			r.startDash(pts[0])
		}

		n := len(pts)
		if r.lineClosed[i] {
			n++
		}
		for j := 1; j < n; j++ {
			a, b := pts[j-1], pts[j%len(pts)]
			segLen := b.Sub(a).Length()
			pos := 0.0
			for segLen-pos > remaining {
				pos += remaining
				q := a.Add(b.Sub(a).Mul(pos / segLen))
				if on {
					r.dashed = append(r.dashed, q)
					r.endDash()
				} else {
					r.startDash(q)
				}
				idx++
				on = !on
				remaining = dashLen(idx)
			}
			remaining -= segLen - pos
			if on {
				r.dashed = append(r.dashed, b)
			}
		}
		if on {
			r.endDash()
		}
	}
	return true
}

func (r *Rasterizer) startDash(pt vec.Vec2) {
	r.dashedStart = append(r.dashedStart, len(r.dashed))
	r.dashed = append(r.dashed, pt)
}

// endDash drops the current dash again if it consists of a single point.
func (r *Rasterizer) endDash() {
	last := len(r.dashedStart) - 1
	if last < 0 {
		return
	}
	if s := r.dashedStart[last]; len(r.dashed)-s < 2 {
		r.dashed = r.dashed[:s]
		r.dashedStart = r.dashedStart[:last]
	}
}

// strokePolyline adds the outline polygons of one polyline.
// d is half the line width.
func (r *Rasterizer) strokePolyline(pts []vec.Vec2, closed bool, d float64) {
	n := len(pts)
	if n < 2 {
		return
	}
	numSegs := n - 1
	if closed {
		numSegs = n
	}

	var firstT, prevT, lastT vec.Vec2
	var firstA vec.Vec2
	have := false
	for i := range numSegs {
		a, b := pts[i], pts[(i+1)%n]
		delta := b.Sub(a)
		length := delta.Length()
		if length < zeroLengthThreshold {
			continue
		}
		t := delta.Mul(1 / length)
		nrm := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)

		r.poly = append(r.poly[:0], a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
		r.addOriented(r.poly)

		if have {
			r.addJoin(a, prevT, t, d)
		} else {
			firstT, firstA = t, a
			have = true
		}
		prevT, lastT = t, t
	}
	if !have {
		return
	}

	if closed {
		r.addJoin(firstA, lastT, firstT, d)
		return
	}
	r.addCap(pts[0], firstT.Mul(-1), d)
	r.addCap(pts[n-1], lastT, d)
}

// addCap adds the cap at the end point p; t points away from the line.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapSquare:
		nrm := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
		ext := p.Add(t.Mul(d))
		r.poly = append(r.poly[:0], p.Add(nrm), ext.Add(nrm), ext.Sub(nrm), p.Sub(nrm))
		r.addOriented(r.poly)
	case graphics.LineCapRound:
		r.addDisc(p, d)
	}
}

// addJoin fills the wedge on the outer side of the corner at p, where the
// direction changes from t1 to t2.
func (r *Rasterizer) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < collinearityThreshold && t1.Dot(t2) > 0 {
		return
	}
	if r.Join == graphics.LineJoinRound {
		r.addDisc(p, d)
		return
	}

	// outer side: opposite to the direction of the turn
	side := 1.0
	if cross > 0 {
		side = -1
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(side)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(side)
	a := p.Add(n1.Mul(d))
	b := p.Add(n2.Mul(d))

	r.poly = append(r.poly[:0], p, a)
	if r.Join == graphics.LineJoinMiter {
		bis := n1.Add(n2)
		c := bis.Length() / 2 // cos of half the turning angle
		if c > 1e-9 && 1/c <= r.MiterLimit {
			r.poly = append(r.poly, p.Add(bis.Mul(d/(2*c*c))))
		}
	}
	r.poly = append(r.poly, b)
	r.addOriented(r.poly)
}

// addDisc adds a polygonal disc of radius d around p.
func (r *Rasterizer) addDisc(p vec.Vec2, d float64) {
	if !(d > 0) {
		return
	}
	scale := math.Sqrt(math.Abs(r.CTM[0]*r.CTM[3] - r.CTM[1]*r.CTM[2]))
	rDev := d * scale
	n := 8
	if rDev > r.Flatness {
		n = max(n, int(math.Ceil(math.Pi/math.Acos(1-r.Flatness/rDev))))
	}
	r.poly = r.poly[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, vec.Vec2{X: p.X + d*math.Cos(phi), Y: p.Y + d*math.Sin(phi)})
	}
	r.addOriented(r.poly)
}

// addOriented adds pts as a polygon with positive signed area, so that
// overlapping stroke pieces reinforce instead of cancelling.
func (r *Rasterizer) addOriented(pts []vec.Vec2) {
	area := 0.0
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	r.addPolygon(pts)
}
