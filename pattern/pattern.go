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

// Package pattern expands a color table into the color of every thread.
package pattern

import (
	"image/color"

	"seehuhn.de/go/loom/draft"
)

// Fallback is the single color returned for a table which yields no
// threads at all.
var Fallback = color.RGBA{0x44, 0x44, 0x44, 0xff}

// Resolve scans the table column by column and returns the thread colors
// in order.
//
// Every active row contributes its count of threads to the column.
// A column carrying a repeat marker closes the current group and emits
// it as often as the marker says.  A column directly in front of a
// marked column adds its threads to the open group instead of emitting
// them.  Any other column is emitted immediately.  Threads still open
// after the last column are emitted once.
//
// The result is never empty and holds at most draft.MaxThreads colors;
// threads beyond that are dropped.
func Resolve(t *draft.ColorTable) []color.RGBA {
	const limit = draft.MaxThreads

	var seq, group []color.RGBA
	emit := func(times int) {
		for range times {
			if len(group) == 0 || len(seq) >= limit {
				break
			}
			seq = append(seq, group[:min(len(group), limit-len(seq))]...)
		}
		group = group[:0]
	}

	cols := t.Columns()
	for c := range cols {
		for r, row := range t.Rows {
			if !row.Active {
				continue
			}
			for range min(t.Count(r, c), limit-len(group)) {
				group = append(group, row.Color)
			}
		}

		if m := t.Multiplier(c); m.IsRepeat() {
			emit(m.Count())
		} else if c+1 < cols && t.Multiplier(c+1).IsRepeat() {
			continue
		} else {
			emit(1)
		}
	}
	emit(1)

	if len(seq) == 0 {
		return []color.RGBA{Fallback}
	}
	return seq
}
