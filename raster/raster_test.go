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
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// grid collects coverage into a dense w×h buffer.
type grid struct {
	w, h int
	pix  []float32
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, pix: make([]float32, w*h)}
}

func (g *grid) emit(y, xMin int, coverage []float32) {
	copy(g.pix[y*g.w+xMin:], coverage)
}

func (g *grid) at(x, y int) float32 {
	return g.pix[y*g.w+x]
}

func box(x0, y0, x1, y1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y1}).
		Close()
}

func clipRect(w, h int) rect.Rect {
	return rect.Rect{LLx: 0, LLy: 0, URx: float64(w), URy: float64(h)}
}

const eps = 1e-5

// full reports whether a pixel is covered up to rounding.
func full(c float32) bool {
	return c > 1-eps
}

// TestTriangleCoverage checks exact coverage values for a thin triangle.
// The diagonal edge y = x/10 covers (2X+1)/20 of pixel X.
func TestTriangleCoverage(t *testing.T) {
	tri := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	g := newGrid(10, 1)
	r := NewRasterizer(clipRect(10, 1))
	r.Fill(tri, g.emit)

	for x := range 10 {
		want := float32(2*x+1) / 20
		if got := g.at(x, 0); math.Abs(float64(got-want)) > eps {
			t.Errorf("pixel %d: got %.4f, want %.4f", x, got, want)
		}
	}
}

func TestFractionalRectangle(t *testing.T) {
	g := newGrid(6, 2)
	r := NewRasterizer(clipRect(6, 2))
	r.Fill(box(1.5, 0, 4.5, 1), g.emit)

	want := []float32{0, 0.5, 1, 1, 0.5, 0}
	for x, w := range want {
		if got := g.at(x, 0); math.Abs(float64(got-w)) > eps {
			t.Errorf("pixel %d: got %.4f, want %.4f", x, got, w)
		}
		if got := g.at(x, 1); got != 0 {
			t.Errorf("pixel %d of row 1: got %.4f, want 0", x, got)
		}
	}
}

func TestImplicitClose(t *testing.T) {
	open := (&path.Data{}).
		MoveTo(vec.Vec2{X: 1, Y: 1}).
		LineTo(vec.Vec2{X: 7, Y: 1}).
		LineTo(vec.Vec2{X: 7, Y: 7})
	closed := (&path.Data{}).
		MoveTo(vec.Vec2{X: 1, Y: 1}).
		LineTo(vec.Vec2{X: 7, Y: 1}).
		LineTo(vec.Vec2{X: 7, Y: 7}).
		Close()

	a, b := newGrid(8, 8), newGrid(8, 8)
	r := NewRasterizer(clipRect(8, 8))
	r.Fill(open, a.emit)
	r.Fill(closed, b.emit)
	for i := range a.pix {
		if a.pix[i] != b.pix[i] {
			t.Fatalf("pixel %d: open %.4f, closed %.4f", i, a.pix[i], b.pix[i])
		}
	}
}

func TestSweepStrategiesAgree(t *testing.T) {
	const k = 0.5522847498
	circle := func(cx, cy, rad float64) *path.Data {
		c := rad * k
		pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }
		return (&path.Data{}).
			MoveTo(pt(cx+rad, cy)).
			CubeTo(pt(cx+rad, cy-c), pt(cx+c, cy-rad), pt(cx, cy-rad)).
			CubeTo(pt(cx-c, cy-rad), pt(cx-rad, cy-c), pt(cx-rad, cy)).
			CubeTo(pt(cx-rad, cy+c), pt(cx-c, cy+rad), pt(cx, cy+rad)).
			CubeTo(pt(cx+c, cy+rad), pt(cx+rad, cy+c), pt(cx+rad, cy)).
			Close()
	}

	for _, threshold := range []int{0, 1 << 30} {
		g := newGrid(40, 40)
		r := NewRasterizer(clipRect(40, 40))
		r.smallPathThreshold = threshold
		r.Fill(circle(20, 20, 15.3), g.emit)

		ref := newGrid(40, 40)
		r2 := NewRasterizer(clipRect(40, 40))
		r2.smallPathThreshold = 1 << 30
		r2.Fill(circle(20, 20, 15.3), ref.emit)

		for i := range g.pix {
			if math.Abs(float64(g.pix[i]-ref.pix[i])) > eps {
				t.Fatalf("threshold %d: pixel %d differs: %.4f vs %.4f",
					threshold, i, g.pix[i], ref.pix[i])
			}
		}
		if c := g.at(20, 20); !full(c) {
			t.Errorf("threshold %d: center coverage %.4f, want 1", threshold, c)
		}
	}
}

func TestClip(t *testing.T) {
	g := newGrid(4, 4)
	r := NewRasterizer(clipRect(4, 4))
	var rows []int
	r.Fill(box(-10, -10, 20, 2), func(y, xMin int, coverage []float32) {
		rows = append(rows, y)
		if xMin < 0 || xMin+len(coverage) > 4 {
			t.Errorf("row %d: span [%d, %d) leaves the clip", y, xMin, xMin+len(coverage))
		}
		g.emit(y, xMin, coverage)
	})
	if len(rows) != 2 {
		t.Fatalf("got rows %v, want [0 1]", rows)
	}
	for x := range 4 {
		if g.at(x, 0) != 1 || g.at(x, 1) != 1 || g.at(x, 2) != 0 {
			t.Errorf("column %d: unexpected coverage", x)
		}
	}
}

func TestAxisSwapCTM(t *testing.T) {
	g := newGrid(4, 4)
	r := NewRasterizer(clipRect(4, 4))
	r.CTM = matrix.Matrix{0, 1, 1, 0, 0, 0}
	r.Fill(box(0, 0, 4, 1), g.emit)

	for y := range 4 {
		if g.at(0, y) != 1 {
			t.Errorf("(0,%d): got %.4f, want 1", y, g.at(0, y))
		}
		if g.at(1, y) != 0 {
			t.Errorf("(1,%d): got %.4f, want 0", y, g.at(1, y))
		}
	}
}

func TestStrokeCaps(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 5}).
		LineTo(vec.Vec2{X: 8, Y: 5})

	cases := []struct {
		cap        graphics.LineCapStyle
		xMin, xMax int // fully covered columns, inclusive
	}{
		{graphics.LineCapButt, 2, 7},
		{graphics.LineCapSquare, 1, 8},
	}
	for _, tc := range cases {
		g := newGrid(10, 10)
		r := NewRasterizer(clipRect(10, 10))
		r.Width = 2
		r.Cap = tc.cap
		r.Stroke(line, g.emit)

		for x := range 10 {
			want := float32(0)
			if x >= tc.xMin && x <= tc.xMax {
				want = 1
			}
			for _, y := range []int{4, 5} {
				if got := g.at(x, y); math.Abs(float64(got-want)) > eps {
					t.Errorf("cap %v: (%d,%d) got %.4f, want %.4f", tc.cap, x, y, got, want)
				}
			}
			if g.at(x, 3) != 0 || g.at(x, 6) != 0 {
				t.Errorf("cap %v: column %d leaks outside the line width", tc.cap, x)
			}
		}
	}
}

func TestStrokeRoundDot(t *testing.T) {
	dot := (&path.Data{}).
		MoveTo(vec.Vec2{X: 5, Y: 5}).
		LineTo(vec.Vec2{X: 5, Y: 5})

	g := newGrid(10, 10)
	r := NewRasterizer(clipRect(10, 10))
	r.Width = 4
	r.Cap = graphics.LineCapRound
	r.Stroke(dot, g.emit)
	if !full(g.at(4, 4)) || !full(g.at(5, 5)) {
		t.Error("round dot does not cover its center")
	}
	if g.at(0, 0) != 0 {
		t.Error("round dot covers a far corner")
	}

	g = newGrid(10, 10)
	r.Cap = graphics.LineCapButt
	r.Stroke(dot, g.emit)
	for i, c := range g.pix {
		if c != 0 {
			t.Fatalf("butt-capped dot painted pixel %d", i)
		}
	}
}

func TestStrokeDash(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 5}).
		LineTo(vec.Vec2{X: 12, Y: 5})

	g := newGrid(12, 10)
	r := NewRasterizer(clipRect(12, 10))
	r.Width = 2
	r.Dash = []float64{2, 2}
	r.Stroke(line, g.emit)

	for x := range 12 {
		want := float32(0)
		if (x/2)%2 == 0 {
			want = 1
		}
		if got := g.at(x, 5); math.Abs(float64(got-want)) > eps {
			t.Errorf("pixel %d: got %.4f, want %.4f", x, got, want)
		}
	}

	// a phase of 2 swaps on and off
	g = newGrid(12, 10)
	r.DashPhase = 2
	r.Stroke(line, g.emit)
	if g.at(0, 5) != 0 || g.at(2, 5) != 1 {
		t.Error("dash phase was not applied")
	}
}

func TestStrokeCornerHasNoNotch(t *testing.T) {
	corner := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 10}).
		LineTo(vec.Vec2{X: 10, Y: 10}).
		LineTo(vec.Vec2{X: 10, Y: 2})

	for _, join := range []graphics.LineJoinStyle{
		graphics.LineJoinMiter, graphics.LineJoinRound, graphics.LineJoinBevel,
	} {
		g := newGrid(14, 14)
		r := NewRasterizer(clipRect(14, 14))
		r.Width = 4
		r.Join = join
		r.Stroke(corner, g.emit)

		// just inside the outer corner, covered by every join style
		if c := g.at(10, 10); !full(c) {
			t.Errorf("join %v: corner pixel coverage %.4f, want 1", join, c)
		}
		if join == graphics.LineJoinMiter {
			if c := g.at(11, 11); !full(c) {
				t.Errorf("miter join does not reach the outer corner: %.4f", c)
			}
		}
	}
}

func discard(int, int, []float32) {}

func TestFillDoesNotAllocate(t *testing.T) {
	r := NewRasterizer(clipRect(64, 64))
	p := box(3.25, 4.5, 40.75, 30.125)
	allocs := testing.AllocsPerRun(20, func() {
		r.Fill(p, discard)
	})
	if allocs != 0 {
		t.Errorf("Fill allocates %.1f times per call", allocs)
	}
}
