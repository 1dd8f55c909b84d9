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

// Command export writes the reference drafts and shapes to testdata.
//
// Every draft becomes a YAML file under testdata/drafts, in the format
// read by "loomview render".  The rasterizer shapes are collected in
// testdata/shapes.json for comparison with other renderers.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/loom/store"
	"seehuhn.de/go/loom/testcases"
)

const (
	draftDir  = "testdata/drafts"
	shapeFile = "testdata/shapes.json"
)

func main() {
	if err := os.MkdirAll(draftDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			fname := filepath.Join(draftDir, category+"_"+tc.Name+".yaml")
			if err := store.Save(fname, tc.Draft().Snapshot()); err != nil {
				panic(fmt.Errorf("%s/%s: %w", category, tc.Name, err))
			}
		}
	}

	var out struct {
		Shapes []jsonShape `json:"shapes"`
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.Shapes)) {
		for _, s := range testcases.Shapes[category] {
			out.Shapes = append(out.Shapes, toJSON(category, s))
		}
	}

	f, err := os.Create(shapeFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonShape struct {
	Name       string        `json:"name"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Path       []jsonSegment `json:"path"`
	CTM        []float64     `json:"ctm,omitempty"`
	Area       float64       `json:"area,omitempty"`
	Op         string        `json:"op"`
	LineWidth  float64       `json:"line_width,omitempty"`
	LineCap    string        `json:"line_cap,omitempty"`
	LineJoin   string        `json:"line_join,omitempty"`
	MiterLimit float64       `json:"miter_limit,omitempty"`
	Dash       []float64     `json:"dash,omitempty"`
	DashPhase  float64       `json:"dash_phase,omitempty"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

func toJSON(category string, s testcases.Shape) jsonShape {
	js := jsonShape{
		Name:   category + "_" + s.Name,
		Width:  s.Width,
		Height: s.Height,
		Path:   pathToJSON(s.Path),
		Area:   s.Area,
	}
	if s.CTM != [6]float64{} {
		js.CTM = s.CTM[:]
	}

	switch op := s.Op.(type) {
	case testcases.Fill:
		js.Op = "fill"
	case testcases.Stroke:
		js.Op = "stroke"
		js.LineWidth = op.Width
		js.LineCap = op.Cap.String()
		js.LineJoin = op.Join.String()
		js.MiterLimit = op.MiterLimit
		js.Dash = op.Dash
		js.DashPhase = op.DashPhase
	}
	return js
}

func pathToJSON(p *path.Data) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p.Iter() {
		seg := jsonSegment{Pts: make([][]float64, len(pts))}
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd = "M"
		case path.CmdLineTo:
			seg.Cmd = "L"
		case path.CmdQuadTo:
			seg.Cmd = "Q"
		case path.CmdCubeTo:
			seg.Cmd = "C"
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for i, pt := range pts {
			seg.Pts[i] = []float64{pt.X, pt.Y}
		}
		segs = append(segs, seg)
	}
	return segs
}
