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
	"bytes"
	"errors"
	"image"
	"maps"
	"slices"
	"testing"

	"seehuhn.de/go/loom/density"
	"seehuhn.de/go/loom/draft"
	"seehuhn.de/go/loom/fabric"
	"seehuhn.de/go/loom/testcases"
	"seehuhn.de/go/loom/weave"
)

func find(category, name string) testcases.TestCase {
	for _, tc := range testcases.All[category] {
		if tc.Name == name {
			return tc
		}
	}
	panic("missing test case " + category + "/" + name)
}

func TestRenderNilSurface(t *testing.T) {
	_, err := New().Render(nil, RenderOptions{})
	if !errors.Is(err, ErrNilSurface) {
		t.Errorf("got %v, want ErrNilSurface", err)
	}
}

// TestRenderEmpty checks that a draft without raised cells clears the
// image and draws nothing.
func TestRenderEmpty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	stats, err := New().Render(img, RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Segments != 0 || stats.Pixels != 0 || stats.Ticks != 0 {
		t.Errorf("got %+v, want no drawing", stats)
	}
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}

func TestRenderNoThreads(t *testing.T) {
	doc := &Document{Draft: find("edge", "no_denting").Draft()}
	if !doc.Resolve().Empty {
		t.Error("draft without dent groups should have nothing to render")
	}
}

func TestResolveDirectTwill(t *testing.T) {
	d := &draft.Draft{
		Loom:      draft.Loom{Chain: weave.ChainDirect},
		Threading: []int{1, 2, 3, 4},
		Lift: draft.LiftPlan{
			{true, false, false, false},
			{false, true, false, false},
			{false, false, true, false},
			{false, false, false, true},
		},
	}
	res := (&Document{Draft: d}).Resolve()
	if res.Empty {
		t.Fatal("twill resolved as empty")
	}
	if !res.Weave.IsWarpOver(0, 0) {
		t.Error("(0,0) should be warp over")
	}
	if res.Weave.IsWarpOver(0, 1) {
		t.Error("(0,1) should be weft over")
	}
}

func TestResolveDensity(t *testing.T) {
	doc := &Document{Draft: find("density", "reed_mechanics").Draft()}
	got := doc.Resolve().Density
	want := density.Density{EPI: 60, PPI: 60, DentsPerInch: 30}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// four threads in one dent group at the default reed of 40
	doc = &Document{Draft: find("weave", "twill").Draft()}
	if epi := doc.Resolve().Density.EPI; epi != 160 {
		t.Errorf("got epi %g, want 160", epi)
	}
}

// TestResolveSeesEdits checks that nothing derived is cached.
func TestResolveSeesEdits(t *testing.T) {
	doc := &Document{Draft: find("weave", "plain").Draft()}
	before := doc.Resolve()
	doc.Draft.Lift = draft.LiftPlan{{false, false}}
	after := doc.Resolve()
	if before.Empty || !after.Empty {
		t.Errorf("empty before/after edit: %t/%t", before.Empty, after.Empty)
	}
}

func TestRenderAll(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			t.Run(category+"_"+tc.Name, func(t *testing.T) {
				doc := &Document{Draft: tc.Draft()}
				opts := RenderOptions{Zoom: tc.Zoom}

				a := image.NewRGBA(image.Rect(0, 0, tc.Width, tc.Height))
				b := image.NewRGBA(image.Rect(0, 0, tc.Width, tc.Height))
				s1, err := doc.Render(a, opts)
				if err != nil {
					t.Fatal(err)
				}
				s2, err := doc.Render(b, opts)
				if err != nil {
					t.Fatal(err)
				}
				if s1 != s2 || !bytes.Equal(a.Pix, b.Pix) {
					t.Error("rendering is not idempotent")
				}
				if !doc.Resolve().Empty && (s1.Density.EPI < 1 || s1.Density.PPI < 1) {
					t.Errorf("density %+v below one", s1.Density)
				}
			})
		}
	}
}

func TestRenderQuality(t *testing.T) {
	doc := &Document{Draft: find("density", "open_sett").Draft()}
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))

	// 20 ends and 12 picks per inch give steps of 57.6 and 96 pixels at zoom 12
	stats, err := doc.Render(img, RenderOptions{Zoom: ZoomDetail})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Quality != fabric.QualityFine || stats.Pixels == 0 {
		t.Errorf("got %v with %d pixels, want fine", stats.Quality, stats.Pixels)
	}

	stats, _ = doc.Render(img, RenderOptions{Zoom: ZoomDetail, Quality: fabric.QualityCoarse})
	if stats.Quality != fabric.QualityCoarse || stats.Segments == 0 {
		t.Errorf("got %v with %d segments, want coarse", stats.Quality, stats.Segments)
	}
}

func TestRenderScale(t *testing.T) {
	doc := &Document{Draft: find("weave", "twill").Draft()}
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	cases := []struct {
		opts  RenderOptions
		ticks bool
	}{
		{RenderOptions{Zoom: ZoomThumbnail}, false},
		{RenderOptions{Zoom: ZoomDetail}, true},
		{RenderOptions{Zoom: ZoomThumbnail, Scale: ScaleShow}, true},
		{RenderOptions{Zoom: ZoomDetail, Scale: ScaleHide}, false},
	}
	for _, tc := range cases {
		stats, err := doc.Render(img, tc.opts)
		if err != nil {
			t.Fatal(err)
		}
		if got := stats.Ticks > 0; got != tc.ticks {
			t.Errorf("%+v: %d ticks", tc.opts, stats.Ticks)
		}
	}
}

func TestSnapshot(t *testing.T) {
	doc := &Document{Draft: find("color", "stripes").Draft()}
	again := FromSnapshot(doc.Snapshot())

	a := image.NewRGBA(image.Rect(0, 0, 64, 64))
	b := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if _, err := doc.Render(a, RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := again.Render(b, RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("restored snapshot renders differently")
	}
}

func TestParseScaleMode(t *testing.T) {
	for _, m := range []ScaleMode{ScaleAuto, ScaleShow, ScaleHide} {
		got, ok := ParseScaleMode(m.String())
		if !ok || got != m {
			t.Errorf("%v: got %v, %t", m, got, ok)
		}
	}
	if m, ok := ParseScaleMode(""); !ok || m != ScaleAuto {
		t.Error("empty string should give ScaleAuto")
	}
	if _, ok := ParseScaleMode("sometimes"); ok {
		t.Error("unknown mode accepted")
	}
}

// TestRenderExtremeDensity checks that densities too fine for the image
// leave it cleared instead of exhausting time or memory.
func TestRenderExtremeDensity(t *testing.T) {
	cases := []struct {
		name string
		edit func(d *draft.Draft)
		zoom float64
	}{
		{"huge reed", func(d *draft.Draft) { d.Loom.Density.ReedCount = 1e18 }, 0},
		{"huge ppi", func(d *draft.Draft) { d.Loom.Density.PPI = 1e9 }, 0},
		{"tiny zoom", func(*draft.Draft) {}, 1e-9},
	}
	for _, tc := range cases {
		for _, q := range []fabric.Quality{fabric.QualityAuto, fabric.QualityCoarse, fabric.QualityFine} {
			doc := &Document{Draft: find("weave", "twill").Draft()}
			tc.edit(doc.Draft)

			img := image.NewRGBA(image.Rect(0, 0, 200, 100))
			for i := range img.Pix {
				img.Pix[i] = 0xff
			}
			stats, err := doc.Render(img, RenderOptions{Zoom: tc.zoom, Quality: q, Scale: ScaleShow})
			if err != nil {
				t.Fatalf("%s/%s: %v", tc.name, q, err)
			}
			if stats.Segments != 0 || stats.Pixels != 0 || stats.Ticks != 0 {
				t.Errorf("%s/%s: got %+v, want no drawing", tc.name, q, stats)
			}
			for i, v := range img.Pix {
				if v != 0 {
					t.Errorf("%s/%s: byte %d not cleared", tc.name, q, i)
					break
				}
			}
		}
	}
}
