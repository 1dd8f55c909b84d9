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

// Package scale draws inch rulers along the top and left edges of a
// fabric preview.
//
// Ticks are placed every half inch, measured in threads: one inch holds
// epi warp threads horizontally and ppi picks vertically.  The rulers
// therefore show the physical size of the woven fabric, independent of
// the weave pattern drawn underneath.
package scale

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/loom/raster"
)

// Options controls the appearance of the rulers.
// The zero value is not usable; start from DefaultOptions.
type Options struct {
	Color     color.RGBA
	LineWidth float64

	// MajorTick and MinorTick are the tick lengths at whole and half
	// inches, in pixels.
	MajorTick, MinorTick float64

	// MaxInches bounds the length of the rulers.
	MaxInches float64

	// Face is used for the labels.  If nil, no labels are drawn.
	Face font.Face

	// Guides adds dashed lines across the fabric at every whole inch.
	Guides     bool
	GuideColor color.RGBA
	GuideDash  []float64
}

// DefaultOptions returns ruler options with labels in the built-in
// 7×13 bitmap font.
func DefaultOptions() *Options {
	return &Options{
		Color:      color.RGBA{0x22, 0x22, 0x22, 0xff},
		LineWidth:  1,
		MajorTick:  12,
		MinorTick:  6,
		MaxInches:  10,
		Face:       basicfont.Face7x13,
		GuideColor: color.RGBA{0x80, 0x80, 0x80, 0x80},
		GuideDash:  []float64{4, 4},
	}
}

// RegularFace returns the Go Regular font at the given size in pixels,
// for use as Options.Face.
func RegularFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Label returns the ruler label for the given number of inches.
func Label(inches float64) string {
	return strconv.FormatFloat(inches, 'f', -1, 64) + `"`
}

// painter composites stroked coverage in a fixed color.
type painter struct {
	dst *image.RGBA
	col color.RGBA
}

func (p *painter) fillRow(y, xMin int, coverage []float32) {
	pix := p.dst.Pix[p.dst.PixOffset(xMin, y):]
	for k, cov := range coverage {
		a := cov * float32(p.col.A) / 255
		if a <= 0 {
			continue
		}
		px := pix[4*k : 4*k+4]
		inv := 1 - a
		px[0] = uint8(float32(p.col.R)*a + float32(px[0])*inv + 0.5)
		px[1] = uint8(float32(p.col.G)*a + float32(px[1])*inv + 0.5)
		px[2] = uint8(float32(p.col.B)*a + float32(px[2])*inv + 0.5)
		px[3] = uint8(255*a + float32(px[3])*inv + 0.5)
	}
}

// Draw adds the rulers to dst.  warpStep and weftStep are the pixel
// distances between threads, as used for the fabric.  The rasterizer is
// reset before use.  Draw returns the number of ticks drawn.
//
// If opts is nil, DefaultOptions is used.
func Draw(dst *image.RGBA, r *raster.Rasterizer, epi, ppi, warpStep, weftStep float64, opts *Options) int {
	if opts == nil {
		opts = DefaultOptions()
	}
	inchX := epi * warpStep
	inchY := ppi * weftStep
	if !(inchX > 0) || !(inchY > 0) {
		return 0
	}

	b := dst.Bounds()
	clip := rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	}
	p := &painter{dst: dst}
	emit := p.fillRow
	line := &path.Data{}
	segment := func(x0, y0, x1, y1 float64) *path.Data {
		line.Cmds = line.Cmds[:0]
		line.Coords = line.Coords[:0]
		return line.MoveTo(vec.Vec2{X: x0, Y: y0}).LineTo(vec.Vec2{X: x1, Y: y1})
	}
	ox, oy := float64(b.Min.X), float64(b.Min.Y)

	if opts.Guides {
		r.Reset(clip)
		r.Width = opts.LineWidth
		r.Dash = opts.GuideDash
		p.col = opts.GuideColor
		for i := 1.0; i <= opts.MaxInches; i++ {
			x := ox + i*inchX
			if x < float64(b.Max.X) {
				r.Stroke(segment(x, oy, x, float64(b.Max.Y)), emit)
			}
			y := oy + i*inchY
			if y < float64(b.Max.Y) {
				r.Stroke(segment(ox, y, float64(b.Max.X), y), emit)
			}
		}
	}

	p.col = opts.Color
	ticks := 0
	for _, vertical := range []bool{false, true} {
		r.Reset(clip)
		r.Width = opts.LineWidth
		inch, limit := inchX, float64(b.Dx())
		if vertical {
			// x and y swap roles, so the same tick code draws the left ruler
			r.CTM = matrix.Matrix{0, 1, 1, 0, 0, 0}
			inch, limit = inchY, float64(b.Dy())
		}

		for k := 0; float64(k) <= 2*opts.MaxInches; k++ {
			inches := float64(k) / 2
			pos := inches * inch
			if pos > limit {
				break
			}
			length := opts.MinorTick
			if k%2 == 0 {
				length = opts.MajorTick
			}
			// half the line width keeps the first tick inside the image
			t := pos + opts.LineWidth/2
			if vertical {
				r.Stroke(segment(oy+t, ox, oy+t, ox+length), emit)
			} else {
				r.Stroke(segment(ox+t, oy, ox+t, oy+length), emit)
			}
			ticks++

			// the two rulers share the origin, so 0" is labelled once
			if opts.Face != nil && (k > 0 || !vertical) {
				at := image.Point{X: int(ox+pos) + 2, Y: int(oy+opts.MajorTick) + opts.Face.Metrics().Ascent.Ceil()}
				if vertical {
					at = image.Point{X: int(ox+opts.MajorTick) + 2, Y: int(oy+pos) + opts.Face.Metrics().Ascent.Ceil()/2}
				}
				label(dst, opts.Face, opts.Color, at, Label(inches))
			}
		}
	}
	return ticks
}

func label(dst *image.RGBA, face font.Face, col color.RGBA, at image.Point, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(text)
}
