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

package testcases

import (
	"image/color"

	"seehuhn.de/go/loom/density"
	"seehuhn.de/go/loom/draft"
	"seehuhn.de/go/loom/weave"
)

var (
	navy  = color.RGBA{0x1f, 0x2a, 0x5c, 0xff}
	cream = color.RGBA{0xf2, 0xe8, 0xcf, 0xff}
	rust  = color.RGBA{0xb5, 0x4a, 0x1f, 0xff}
	white = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	olive = color.RGBA{0x5b, 0x6b, 0x2f, 0xff}
)

var weaveCases = []TestCase{
	{
		Name: "plain",
		Draft: func() *draft.Draft {
			return simple(lift("10", "01"), dents(1, 1, 2))
		},
		Width:  240,
		Height: 240,
		Zoom:   6,
	},
	{
		Name: "twill",
		Draft: func() *draft.Draft {
			return simple(lift("1100", "0110", "0011", "1001"), dents(1, 1, 2, 3, 4))
		},
		Width:  240,
		Height: 240,
		Zoom:   6,
	},
	{
		Name: "basket",
		Draft: func() *draft.Draft {
			return simple(lift("10", "10", "01", "01"), dents(1, 1, 1, 2, 2))
		},
		Width:  240,
		Height: 240,
		Zoom:   6,
	},
	{
		Name: "satin",
		Draft: func() *draft.Draft {
			return simple(lift("10000", "00100", "00001", "01000", "00010"), dents(1, 1, 2, 3, 4, 5))
		},
		Width:  300,
		Height: 300,
		Zoom:   6,
	},
	{
		Name: "point_repeat",
		Draft: func() *draft.Draft {
			return simple(lift("1100", "0110", "0011", "1001"),
				dents(2, 1, 2, 3, 4), dents(1, 3, 2))
		},
		Width:  300,
		Height: 200,
		Zoom:   6,
	},
	{
		Name: "direct_twill",
		Draft: func() *draft.Draft {
			d := simple(lift("1000", "0100", "0010", "0001"), dents(1, 1, 2, 3, 4))
			d.Loom.Chain = weave.ChainDirect
			d.Threading = []int{1, 2, 3, 4}
			return d
		},
		Width:  240,
		Height: 240,
		Zoom:   6,
	},
	{
		Name: "direct_herringbone",
		Draft: func() *draft.Draft {
			d := simple(lift("1100", "0110", "0011", "1001"), dents(1, 1, 2, 3, 4), dents(1, 3, 2))
			d.Loom.Chain = weave.ChainDirect
			d.Threading = []int{1, 2, 3, 4, 3, 2}
			return d
		},
		Width:  300,
		Height: 240,
		Zoom:   6,
	},
}

var colorCases = []TestCase{
	{
		Name: "stripes",
		Draft: func() *draft.Draft {
			d := simple(lift("10", "01"), dents(1, 1, 2))
			d.Warp = stripes(stripe{rust, 4, ""}, stripe{white, 2, "3x"}, stripe{olive, 2, ""})
			return d
		},
		Width:  320,
		Height: 160,
		Zoom:   6,
	},
	{
		Name: "log_cabin",
		Draft: func() *draft.Draft {
			d := simple(lift("10", "01"), dents(1, 1, 2))
			block := []stripe{{navy, 1, ""}, {cream, 1, "2x"}, {cream, 1, ""}, {navy, 1, "2x"}}
			d.Warp = stripes(block...)
			d.Weft = stripes(block...)
			return d
		},
		Width:  240,
		Height: 240,
		Zoom:   12,
	},
	{
		Name: "check",
		Draft: func() *draft.Draft {
			d := simple(lift("1100", "0110", "0011", "1001"), dents(1, 1, 2, 3, 4))
			d.Warp = stripes(stripe{navy, 6, ""}, stripe{cream, 6, ""})
			d.Weft = stripes(stripe{navy, 6, ""}, stripe{cream, 6, ""})
			return d
		},
		Width:  320,
		Height: 320,
		Zoom:   6,
	},
}

var densityCases = []TestCase{
	{
		Name: "reed_mechanics",
		Draft: func() *draft.Draft {
			d := simple(lift("1100", "0110", "0011", "1001"), dents(1, 1, 2, 3, 4))
			d.Loom.Density = density.Config{
				Mode:        density.ModeReedMechanics,
				EndsPerDent: 2,
				ReedSize:    60,
				PPI:         60,
			}
			return d
		},
		Width:  240,
		Height: 240,
		Zoom:   12,
	},
	{
		Name: "open_sett",
		Draft: func() *draft.Draft {
			d := simple(lift("10", "01"), dents(1, 1, 2))
			d.Loom.Density = density.Config{ReedCount: 10, PPI: 12}
			return d
		},
		Width:  400,
		Height: 400,
		Zoom:   12,
	},
	{
		Name: "dense",
		Draft: func() *draft.Draft {
			d := simple(lift("1100", "0110", "0011", "1001"), dents(1, 1, 2, 3, 4))
			d.Loom.Density = density.Config{ReedCount: 20, PPI: 80}
			return d
		},
		Width:  200,
		Height: 200,
		Zoom:   6,
	},
}

var edgeCases = []TestCase{
	{
		Name:   "empty_lift",
		Draft:  draft.Default,
		Width:  120,
		Height: 120,
	},
	{
		Name: "no_denting",
		Draft: func() *draft.Draft {
			return simple(lift("10", "01"))
		},
		Width:  120,
		Height: 120,
	},
	{
		Name: "ragged",
		Draft: func() *draft.Draft {
			d := simple(lift("0000", "01", "0010"), dents(1, 0, 2, 3), dents(-1, 7, 4))
			d.Warp.Counts[0][0] = -3
			d.Warp.Counts = append(d.Warp.Counts, []int{2})
			return d
		},
		Width:  120,
		Height: 120,
		Zoom:   6,
	},
}

// simple returns a draft with navy warp, cream weft and the simple count
// density model.
func simple(l draft.LiftPlan, groups ...draft.DentGroup) *draft.Draft {
	return &draft.Draft{
		Lift:    l,
		Denting: groups,
		Warp:    stripes(stripe{navy, 1, ""}),
		Weft:    stripes(stripe{cream, 1, ""}),
	}
}

// lift builds a lift plan from rows of '0' and '1' characters.
func lift(rows ...string) draft.LiftPlan {
	l := make(draft.LiftPlan, len(rows))
	for i, row := range rows {
		l[i] = make([]bool, len(row))
		for j, c := range row {
			l[i][j] = c == '1'
		}
	}
	return l
}

func dents(repeat int, threads ...int) draft.DentGroup {
	return draft.DentGroup{Threads: threads, Repeat: draft.RepeatCount(repeat)}
}

// stripe is one column of a color table.
type stripe struct {
	col   color.RGBA
	count int
	mult  string
}

// stripes builds a color table with one column per stripe and one row
// per distinct color.
func stripes(ss ...stripe) draft.ColorTable {
	var t draft.ColorTable
	row := map[color.RGBA]int{}
	for _, s := range ss {
		if _, ok := row[s.col]; !ok {
			row[s.col] = len(t.Rows)
			t.Rows = append(t.Rows, draft.ColorRow{Color: s.col, Active: true})
		}
	}
	t.Counts = make([][]int, len(t.Rows))
	for i := range t.Counts {
		t.Counts[i] = make([]int, len(ss))
	}
	for j, s := range ss {
		t.Counts[row[s.col]][j] = s.count
		t.Multipliers = append(t.Multipliers, draft.ParseMultiplier(s.mult))
	}
	return t
}
