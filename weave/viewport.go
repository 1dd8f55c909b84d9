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

package weave

// Viewport is the smallest rectangle of a lift plan containing all
// raised cells.  Bounds are inclusive.
type Viewport struct {
	MinPick, MaxPick       int
	MinHarness, MaxHarness int
}

// FindViewport scans the lift plan for raised cells.  If there are
// none, the result is empty.
func FindViewport(lift [][]bool) Viewport {
	v := Viewport{MinPick: -1, MaxPick: -1, MinHarness: -1, MaxHarness: -1}
	for r, row := range lift {
		for c, up := range row {
			if !up {
				continue
			}
			if v.MinPick < 0 {
				v.MinPick, v.MaxPick = r, r
				v.MinHarness, v.MaxHarness = c, c
				continue
			}
			v.MaxPick = r
			v.MinHarness = min(v.MinHarness, c)
			v.MaxHarness = max(v.MaxHarness, c)
		}
	}
	return v
}

// Empty reports whether the viewport contains no cells.
func (v Viewport) Empty() bool {
	return v.MinPick < 0 || v.MaxPick < v.MinPick || v.MinHarness < 0 || v.MaxHarness < v.MinHarness
}

// Picks returns the height of the viewport.
func (v Viewport) Picks() int {
	if v.Empty() {
		return 0
	}
	return v.MaxPick - v.MinPick + 1
}

// Harnesses returns the width of the viewport.
func (v Viewport) Harnesses() int {
	if v.Empty() {
		return 0
	}
	return v.MaxHarness - v.MinHarness + 1
}
