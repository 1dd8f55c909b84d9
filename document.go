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
	"image/color"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/loom/density"
	"seehuhn.de/go/loom/draft"
	"seehuhn.de/go/loom/fabric"
	"seehuhn.de/go/loom/pattern"
	"seehuhn.de/go/loom/raster"
	"seehuhn.de/go/loom/weave"
)

// Document is an editable draft together with the scratch state used to
// render it.  Edit the Draft field directly; every call to Resolve or
// Render sees the current contents.
//
// A Document is not safe for concurrent use.
type Document struct {
	Draft *draft.Draft

	coarse *fabric.Coarse
	fine   *fabric.Fine
	r      *raster.Rasterizer
}

// New returns a document holding the default starting draft.
func New() *Document {
	return &Document{Draft: draft.Default()}
}

// FromSnapshot returns a document for a saved draft.
func FromSnapshot(s *draft.Snapshot) *Document {
	return &Document{Draft: draft.FromSnapshot(s)}
}

// Snapshot returns the persistent form of the current draft.
func (d *Document) Snapshot() *draft.Snapshot {
	return d.Draft.Snapshot()
}

// Resolved holds everything derived from a draft for rendering.
type Resolved struct {
	Warp, Weft []color.RGBA

	// Threads is the expanded denting plan, as 0-based shafts.
	Threads []int

	Weave   weave.Resolver
	View    weave.Viewport
	Density density.Density

	// Empty is set if there is nothing to draw: the lift plan has no
	// raised cells, or the selected chain has no threads.
	Empty bool
}

// Resolve derives the render inputs from the current draft.  Nothing is
// cached, so the result always reflects the latest edits.
func (d *Document) Resolve() *Resolved {
	dr := d.Draft
	res := &Resolved{
		Warp:    pattern.Resolve(&dr.Warp),
		Weft:    pattern.Resolve(&dr.Weft),
		Threads: dr.ExpandDenting(),
		View:    weave.FindViewport(dr.Lift),
	}

	threads := len(res.Threads)
	switch dr.Loom.Chain {
	case weave.ChainDirect:
		res.Weave = &weave.Direct{Threading: dr.Threading, Lift: dr.Lift}
		res.Empty = len(dr.Threading) == 0
		if threads == 0 {
			threads = len(dr.Threading)
		}
	default:
		res.Weave = &weave.Denting{Threads: res.Threads, Lift: dr.Lift, View: res.View}
		res.Empty = len(res.Threads) == 0
	}
	res.Empty = res.Empty || res.View.Empty()

	res.Density = density.Compute(dr.Loom.Density, threads, len(dr.Denting))
	return res
}

func (d *Document) rasterizer() *raster.Rasterizer {
	if d.r == nil {
		d.r = raster.NewRasterizer(rect.Rect{})
	}
	return d.r
}
