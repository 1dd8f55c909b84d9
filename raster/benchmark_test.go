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
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// The benchmarks fill a grid of narrow, fractionally placed rectangles,
// which is the shape mix produced when painting yarn segments.

const yarnStep = 7.3

// BenchmarkRasterizerYarn fills the yarn grid with a reused Rasterizer.
func BenchmarkRasterizerYarn(b *testing.B) {
	for _, size := range []int{100, 600} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := NewRasterizer(clipRect(size, size))
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			emit := func(y, xMin int, coverage []float32) {
				row := dst.Pix[y*dst.Stride+xMin:]
				for i, c := range coverage {
					row[i] = uint8(c * 255)
				}
			}
			p := &path.Data{}
			n := int(float64(size)/yarnStep) + 1

			b.ReportAllocs()
			for b.Loop() {
				for i := range n {
					for j := range n {
						x := float64(i)*yarnStep + 0.175*yarnStep
						y := float64(j) * yarnStep
						p.Cmds = p.Cmds[:0]
						p.Coords = p.Coords[:0]
						p.MoveTo(vec.Vec2{X: x, Y: y}).
							LineTo(vec.Vec2{X: x + 0.65*yarnStep, Y: y}).
							LineTo(vec.Vec2{X: x + 0.65*yarnStep, Y: y + yarnStep}).
							LineTo(vec.Vec2{X: x, Y: y + yarnStep}).
							Close()
						r.Fill(p, emit)
					}
				}
			}
		})
	}
}

// BenchmarkVectorYarn fills the same grid with x/image/vector.
func BenchmarkVectorYarn(b *testing.B) {
	for _, size := range []int{100, 600} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{A: 255})
			n := int(float64(size)/yarnStep) + 1

			b.ReportAllocs()
			for b.Loop() {
				for i := range n {
					for j := range n {
						x := float32(float64(i)*yarnStep + 0.175*yarnStep)
						y := float32(float64(j) * yarnStep)
						w := float32(0.65 * yarnStep)
						h := float32(yarnStep)
						r.Reset(size, size)
						r.MoveTo(x, y)
						r.LineTo(x+w, y)
						r.LineTo(x+w, y+h)
						r.LineTo(x, y+h)
						r.ClosePath()
						r.Draw(dst, dst.Bounds(), src, image.Point{})
					}
				}
			}
		})
	}
}
