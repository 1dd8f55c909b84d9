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

// Package loom renders previews of hand-woven fabric from a loom draft.
//
// A Document holds one editable draft.  Resolve derives everything the
// renderer needs from it: the warp and weft color sequences, the weave
// structure and the thread density.  Render paints the fabric, and
// optionally inch rulers, onto an image.
//
// The work is done by the sub-packages: draft holds the data model,
// pattern and weave resolve it, density computes the thread spacing,
// fabric paints and scale draws the rulers.
package loom

//go:generate go run ./testcases/export

import (
	"errors"
	"image"
	"log/slog"

	"seehuhn.de/go/loom/density"
	"seehuhn.de/go/loom/fabric"
	"seehuhn.de/go/loom/scale"
)

// ErrNilSurface is returned by Render when there is no image to draw on.
var ErrNilSurface = errors.New("loom: nil surface")

// Zoom presets.  At zoom z, one inch of fabric covers 96*z pixels.
const (
	ZoomThumbnail = 6
	ZoomDetail    = 12
)

// ScaleMode controls the inch rulers.
type ScaleMode int

const (
	// ScaleAuto draws rulers at ZoomDetail and above.
	ScaleAuto ScaleMode = iota
	ScaleShow
	ScaleHide
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleAuto:
		return "auto"
	case ScaleShow:
		return "show"
	case ScaleHide:
		return "hide"
	default:
		return "unknown"
	}
}

// ParseScaleMode converts the string form of a ScaleMode back.
func ParseScaleMode(s string) (ScaleMode, bool) {
	switch s {
	case "", "auto":
		return ScaleAuto, true
	case "show", "on":
		return ScaleShow, true
	case "hide", "off":
		return ScaleHide, true
	}
	return ScaleAuto, false
}

// RenderOptions controls Render.  The zero value renders at ZoomDetail
// with automatic quality and rulers.
type RenderOptions struct {
	Zoom    float64
	Quality fabric.Quality
	Scale   ScaleMode
	Guides  bool // dashed inch guides, drawn with the rulers
	Rounded bool // rounded yarn ends, coarse quality only
}

// Stats describes what Render did.
type Stats struct {
	fabric.Stats

	Quality fabric.Quality
	Density density.Density
	Ticks   int
}

// Render paints the fabric described by the document onto dst.  The image
// is cleared first, and its bounds give the size of the preview.
//
// If the draft has no raised cells in its lift plan, or no threads, the
// image is left cleared and nothing is drawn.  Validation problems are
// logged but do not stop rendering.
func (d *Document) Render(dst *image.RGBA, opts RenderOptions) (Stats, error) {
	if dst == nil {
		return Stats{}, ErrNilSurface
	}
	log := Logger()
	if err := d.Draft.Validate(); err != nil {
		log.Warn("draft has problems", "error", err)
	}

	zoom := opts.Zoom
	if zoom == 0 {
		zoom = ZoomDetail
	}

	res := d.Resolve()
	if res.Empty {
		fabric.Clear(dst)
		log.Debug("nothing to render", "viewport", res.View, "threads", len(res.Threads))
		return Stats{}, nil
	}

	warpStep, weftStep := res.Density.Steps(zoom)
	q := opts.Quality.Resolve(warpStep, weftStep)
	log.Debug("rendering",
		slog.Float64("epi", res.Density.EPI),
		slog.Float64("ppi", res.Density.PPI),
		slog.Float64("warpStep", warpStep),
		slog.Float64("weftStep", weftStep),
		slog.String("quality", q.String()))

	p := fabric.NewParams(res.Warp, res.Weft, res.Weave, warpStep, weftStep)
	p.Rounded = opts.Rounded
	if !p.Paintable(dst.Bounds()) {
		fabric.Clear(dst)
		log.Warn("threads too fine to draw",
			slog.Float64("warpStep", warpStep),
			slog.Float64("weftStep", weftStep))
		return Stats{Quality: q, Density: res.Density}, nil
	}
	stats := Stats{
		Stats:   d.strategy(q).Paint(dst, p),
		Quality: q,
		Density: res.Density,
	}

	show := opts.Scale == ScaleShow || opts.Scale == ScaleAuto && zoom >= ZoomDetail
	if show && stats.Segments+stats.Pixels > 0 {
		so := scale.DefaultOptions()
		so.Guides = opts.Guides
		stats.Ticks = scale.Draw(dst, d.rasterizer(), res.Density.EPI, res.Density.PPI, warpStep, weftStep, so)
	}

	log.Debug("rendered",
		slog.Int("cells", stats.Cells),
		slog.Int("segments", stats.Segments),
		slog.Int("pixels", stats.Pixels),
		slog.Int("ticks", stats.Ticks))
	return stats, nil
}

// strategy returns the cached painter for q.
func (d *Document) strategy(q fabric.Quality) fabric.Strategy {
	if q == fabric.QualityFine {
		if d.fine == nil {
			d.fine = fabric.NewFine()
		}
		return d.fine
	}
	if d.coarse == nil {
		d.coarse = fabric.NewCoarse()
	}
	return d.coarse
}
