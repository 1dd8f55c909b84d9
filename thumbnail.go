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

package loom

import (
	"image"

	"golang.org/x/image/draw"
)

// Limits for rendered previews, in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
	MaxSide       = 4096
)

// Thumbnail returns a copy of img scaled to the given width, keeping the
// aspect ratio.  The result is at least one pixel high.  For an empty
// image or a width below 1 the result is empty.
func Thumbnail(img *image.RGBA, width int) *image.RGBA {
	b := img.Bounds()
	if width < 1 || b.Empty() {
		return image.NewRGBA(image.Rectangle{})
	}
	height := max(1, (b.Dy()*width+b.Dx()/2)/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
