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

// Package fabric paints a woven fabric onto an RGBA image.
//
// The fabric is a grid of cells.  Column i holds warp thread i, row j
// holds pick j, and the weave resolver decides which of the two threads
// is visible on top at each crossing.  Two painting strategies are
// provided.  Coarse paints every cell as two anti-aliased yarn segments
// with a drop shadow under the upper one.  Fine computes every pixel
// directly and adds procedural shading, which looks better when cells
// are large.
package fabric

import (
	"image"
	"image/color"
	"math"

	"seehuhn.de/go/loom/weave"
)

// Defaults for the shading parameters.
const (
	DefaultThickness  = 0.65
	DefaultShadowBlur = 8
	DefaultCurvature  = 0.25
	DefaultEdgeDarken = 40
	DefaultNoise      = 8
)

// Params describes what to paint.
type Params struct {
	// Warp and Weft give the thread colors.  Thread i uses
	// Warp[i mod len(Warp)], pick j uses Weft[j mod len(Weft)].
	Warp, Weft []color.RGBA

	Weave weave.Resolver

	// WarpStep is the distance in pixels between neighbouring warp
	// threads, WeftStep the distance between neighbouring picks.
	WarpStep, WeftStep float64

	// Thickness is the yarn width as a fraction of the step.
	Thickness float64

	// ShadowBlur is the blur radius, in pixels, of the shadow under the
	// upper thread of each crossing.  Zero disables the shadow.
	// Only used by Coarse.
	ShadowBlur float64

	// Rounded gives yarn segments rounded ends.  Only used by Coarse.
	Rounded bool

	// Curvature is the strength of the light ramp across each thread,
	// as a fraction of full intensity.  Only used by Fine.
	Curvature float64

	// EdgeDarken is subtracted from the pixels along each thread edge.
	// Only used by Fine.
	EdgeDarken float64

	// Noise is the amplitude of the per-pixel jitter.  Only used by Fine.
	Noise float64
}

// NewParams returns parameters with all shading fields set to their
// defaults.
func NewParams(warp, weft []color.RGBA, w weave.Resolver, warpStep, weftStep float64) *Params {
	return &Params{
		Warp:       warp,
		Weft:       weft,
		Weave:      w,
		WarpStep:   warpStep,
		WeftStep:   weftStep,
		Thickness:  DefaultThickness,
		ShadowBlur: DefaultShadowBlur,
		Curvature:  DefaultCurvature,
		EdgeDarken: DefaultEdgeDarken,
		Noise:      DefaultNoise,
	}
}

// Limits of the cell grid.  Parameters whose threads are finer than
// MinStep pixels, or which need more than MaxCells cells to cover the
// image, cannot be shown at pixel resolution and are painted as an empty
// fabric.
const (
	MinStep  = 1.0 / 16
	MaxCells = 1 << 22
)

// valid reports whether the parameters describe a fabric at all.
func (p *Params) valid() bool {
	return p != nil && p.Weave != nil && len(p.Warp) > 0 && len(p.Weft) > 0 &&
		isPositive(p.WarpStep) && isPositive(p.WeftStep) &&
		p.Thickness > 0 && p.Thickness <= 1
}

// grid returns the number of cells needed to cover b.  The result is
// false if there is nothing to paint, or if the grid exceeds the limits.
func (p *Params) grid(b image.Rectangle) (cols, rows int, ok bool) {
	if !p.valid() || p.WarpStep < MinStep || p.WeftStep < MinStep {
		return 0, 0, false
	}
	fc := math.Ceil(float64(b.Dx()) / p.WarpStep)
	fr := math.Ceil(float64(b.Dy()) / p.WeftStep)
	if fc*fr > MaxCells {
		return 0, 0, false
	}
	return int(fc), int(fr), true
}

// Paintable reports whether a Strategy would paint anything onto an
// image with bounds b.
func (p *Params) Paintable(b image.Rectangle) bool {
	_, _, ok := p.grid(b)
	return ok
}

func isPositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// Stats counts the work done by a call to Paint.
type Stats struct {
	Cells    int // crossings covered by the image
	Segments int // yarn segments drawn
	Pixels   int // pixels written
}

// A Strategy paints a fabric.  The image is cleared first.  If the
// parameters describe nothing to paint, the image is left cleared and
// the returned Stats are zero.
//
// Strategies keep scratch buffers between calls and are not safe for
// concurrent use.
type Strategy interface {
	Paint(dst *image.RGBA, p *Params) Stats
}

// Clear sets all pixels of dst to transparent black.
func Clear(dst *image.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[dst.PixOffset(b.Min.X, y):dst.PixOffset(b.Max.X, y)]
		clear(row)
	}
}

// Quality selects a painting strategy.
type Quality int

const (
	// QualityAuto picks Fine when cells are large, and Coarse otherwise.
	QualityAuto Quality = iota
	QualityCoarse
	QualityFine
)

// FineThreshold is the smallest step, in pixels, for which QualityAuto
// picks Fine.
const FineThreshold = 16

func (q Quality) String() string {
	switch q {
	case QualityAuto:
		return "auto"
	case QualityCoarse:
		return "coarse"
	case QualityFine:
		return "fine"
	default:
		return "unknown"
	}
}

// ParseQuality converts the string form of a Quality back.
func ParseQuality(s string) (Quality, bool) {
	for _, q := range []Quality{QualityAuto, QualityCoarse, QualityFine} {
		if q.String() == s {
			return q, true
		}
	}
	return QualityAuto, false
}

// Resolve replaces QualityAuto by the concrete quality for the given
// steps.
func (q Quality) Resolve(warpStep, weftStep float64) Quality {
	if q != QualityAuto {
		return q
	}
	if warpStep >= FineThreshold && weftStep >= FineThreshold {
		return QualityFine
	}
	return QualityCoarse
}

// Select returns a new Strategy for the given quality and steps.
func Select(q Quality, warpStep, weftStep float64) Strategy {
	if q.Resolve(warpStep, weftStep) == QualityFine {
		return NewFine()
	}
	return NewCoarse()
}
