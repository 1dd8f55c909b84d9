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

// Package testcases provides reference drafts and reference shapes shared
// by the tests, benchmarks and tools of this module.
package testcases

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/loom/draft"
)

// TestCase is a named draft together with the preview it should be
// rendered to.
type TestCase struct {
	Name   string              // lowercase a-z and _ only
	Draft  func() *draft.Draft // returns a fresh copy on every call
	Width  int                 // preview width in pixels
	Height int                 // preview height in pixels
	Zoom   float64             // zero means the default zoom
}

// Shape defines a single rasterizer test.
type Shape struct {
	Name   string        // lowercase a-z and _ only
	Path   *path.Data    // the geometry to render
	Width  int           // canvas width in pixels
	Height int           // canvas height in pixels
	Op     Operation     // fill or stroke
	CTM    matrix.Matrix // transformation matrix (zero-value means no transform)

	// Area is the expected total coverage, in pixels.  Zero means
	// unknown.  Curved outlines are approximated by polygons, so the
	// value is only accurate to about one percent for them.
	Area float64
}

// Operation is the rendering operation to apply to the path.
type Operation interface {
	isOperation()
}

// Fill specifies a fill operation under the nonzero winding rule.
type Fill struct{}

func (Fill) isOperation() {}

// Stroke specifies a stroke operation.
type Stroke struct {
	Width      float64                // line width (>0)
	Cap        graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join       graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
	MiterLimit float64                // miter limit
	Dash       []float64              // dash pattern (nil for solid)
	DashPhase  float64                // dash phase offset
}

func (Stroke) isOperation() {}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}
