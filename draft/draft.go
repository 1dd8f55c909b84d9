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

// Package draft holds the drafting data of a hand-loom fabric: threading,
// lift plan, denting and the warp and weft color tables.
//
// A Draft is the single editable document from which all rendering
// inputs are derived.  Derived data (thread sequences, density, the
// active viewport) is never stored here.
package draft

import (
	"errors"
	"fmt"
	"image/color"

	"seehuhn.de/go/loom/density"
	"seehuhn.de/go/loom/weave"
)

// ErrInvalid is wrapped by all errors returned from Validate.
var ErrInvalid = errors.New("invalid draft")

// MaxDentThreads is the number of thread cells in a dent group.
const MaxDentThreads = 5

// MaxThreads bounds the number of threads an expanded color table or
// denting plan can yield.  Longer sequences are truncated.
const MaxThreads = 1 << 16

// Draft is a complete drafting document.
type Draft struct {
	Loom Loom

	// Threading gives the 1-based harness of every warp thread.
	// It is used by the direct weave chain.
	Threading []int

	Lift    LiftPlan
	Denting []DentGroup

	Warp ColorTable
	Weft ColorTable
}

// Loom collects the settings which are not part of the drafting tables.
type Loom struct {
	Chain   weave.Chain
	Density density.Config
}

// LiftPlan is indexed as [pick][harness].  True means the harness is
// raised, so that warp threads on it lie over the pick.
type LiftPlan [][]bool

// NewLiftPlan returns an all-lowered lift plan.
func NewLiftPlan(picks, harnesses int) LiftPlan {
	l := make(LiftPlan, picks)
	for i := range l {
		l[i] = make([]bool, harnesses)
	}
	return l
}

// DentGroup is one row of the denting plan.
type DentGroup struct {
	// Threads holds up to MaxDentThreads 1-based shaft numbers.
	Threads []int

	// Repeat gives how often the threads are repeated.
	Repeat Multiplier
}

// ColorTable describes a thread color sequence as a grid of counts.
type ColorTable struct {
	Rows []ColorRow

	// Counts is indexed as [row][column].  Counts of zero or less, and
	// missing cells, contribute nothing.
	Counts [][]int

	// Multipliers holds one marker per column.
	Multipliers []Multiplier
}

// ColorRow is one thread color of a color table.
type ColorRow struct {
	Color  color.RGBA
	Active bool
}

// Columns returns the number of columns of the table.
func (t *ColorTable) Columns() int {
	n := len(t.Multipliers)
	for _, row := range t.Counts {
		n = max(n, len(row))
	}
	return n
}

// Count returns the count at the given cell, or 0 for a missing cell.
func (t *ColorTable) Count(row, col int) int {
	if row < 0 || row >= len(t.Counts) || col < 0 || col >= len(t.Counts[row]) {
		return 0
	}
	return t.Counts[row][col]
}

// Multiplier returns the marker of the given column.
func (t *ColorTable) Multiplier(col int) Multiplier {
	if col < 0 || col >= len(t.Multipliers) {
		return NoRepeat
	}
	return t.Multipliers[col]
}

// ExpandDenting returns the 0-based shaft of every warp thread, in
// order, with the repeat of each dent group applied.  A thread number of
// 0 gives shaft -1, which never lies over a pick.  The result is
// truncated to MaxThreads entries.
func (d *Draft) ExpandDenting() []int {
	var res []int
	for _, g := range d.Denting {
		if len(g.Threads) == 0 {
			continue
		}
		for range g.Repeat.Count() {
			for _, t := range g.Threads {
				if len(res) == MaxThreads {
					return res
				}
				res = append(res, t-1)
			}
		}
	}
	return res
}

// DentingLength returns the number of threads of the expanded denting
// plan.  Lengths above MaxThreads are reported as MaxThreads+1.
func (d *Draft) DentingLength() int {
	n := 0
	for _, g := range d.Denting {
		n = satAdd(n, satMul(len(g.Threads), g.Repeat.Count()))
	}
	return n
}

// Length returns the number of threads the table expands to, following
// the same grouping rules as pattern.Resolve.  Lengths above MaxThreads
// are reported as MaxThreads+1.
func (t *ColorTable) Length() int {
	seq, group := 0, 0
	cols := t.Columns()
	for c := range cols {
		for r, row := range t.Rows {
			if row.Active {
				group = satAdd(group, max(t.Count(r, c), 0))
			}
		}
		if m := t.Multiplier(c); m.IsRepeat() {
			seq = satAdd(seq, satMul(group, m.Count()))
			group = 0
		} else if c+1 < cols && t.Multiplier(c+1).IsRepeat() {
			continue
		} else {
			seq = satAdd(seq, group)
			group = 0
		}
	}
	return satAdd(seq, group)
}

// satAdd and satMul operate on non-negative values and saturate at
// MaxThreads+1.
func satAdd(a, b int) int {
	const limit = MaxThreads + 1
	if b >= limit-a {
		return limit
	}
	return a + b
}

func satMul(a, b int) int {
	const limit = MaxThreads + 1
	if a == 0 || b == 0 {
		return 0
	}
	if a >= limit || b >= limit || a > limit/b {
		return limit
	}
	return min(a*b, limit)
}

// Validate checks the draft for inconsistencies.  All problems found are
// reported together.  A draft which fails validation can still be
// rendered; the resolvers treat inconsistent cells as lowered.
func (d *Draft) Validate() error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	width := 0
	for i, row := range d.Lift {
		if i > 0 && len(row) != width {
			report("lift plan row %d has %d harnesses, expected %d", i, len(row), width)
		}
		width = max(width, len(row))
	}
	if d.Loom.Chain == weave.ChainDirect {
		for i, h := range d.Threading {
			if h < 0 || h > width {
				report("thread %d is on harness %d, lift plan has %d", i+1, h, width)
			}
		}
	}
	for i, g := range d.Denting {
		if len(g.Threads) > MaxDentThreads {
			report("dent group %d has %d threads, at most %d allowed",
				i+1, len(g.Threads), MaxDentThreads)
		}
		for _, t := range g.Threads {
			if t < 0 {
				report("dent group %d has negative shaft %d", i+1, t)
			}
		}
		if n := g.Repeat.Count(); n > MaxThreads {
			report("dent group %d repeats %d times, at most %d allowed", i+1, n, MaxThreads)
		}
	}
	if n := d.DentingLength(); n > MaxThreads {
		report("denting plan has more than %d threads", MaxThreads)
	}
	for _, tab := range []struct {
		name string
		t    *ColorTable
	}{{"warp", &d.Warp}, {"weft", &d.Weft}} {
		if len(tab.t.Counts) > len(tab.t.Rows) {
			report("%s table has %d count rows but only %d colors",
				tab.name, len(tab.t.Counts), len(tab.t.Rows))
		}
		for r, row := range tab.t.Counts {
			for c, n := range row {
				if n > MaxThreads {
					report("%s table count at row %d, column %d is %d, at most %d allowed",
						tab.name, r+1, c+1, n, MaxThreads)
				}
			}
		}
		for c, m := range tab.t.Multipliers {
			if n := m.Count(); n > MaxThreads {
				report("%s table column %d repeats %d times, at most %d allowed",
					tab.name, c+1, n, MaxThreads)
			}
		}
		if tab.t.Length() > MaxThreads {
			report("%s table has more than %d threads", tab.name, MaxThreads)
		}
	}
	return errors.Join(errs...)
}

// Size of the tables in a new document.
const (
	DefaultRows    = 20
	DefaultColumns = 20
)

// Default returns the starting document: 20 by 20 color tables with only
// the first color active, one dent group "1 2 3 4" and an empty 20 by 20
// lift plan.
func Default() *Draft {
	return &Draft{
		Lift:    NewLiftPlan(DefaultRows, DefaultColumns),
		Denting: []DentGroup{{Threads: []int{1, 2, 3, 4}, Repeat: RepeatCount(1)}},
		Warp:    newTable(color.RGBA{0x00, 0x44, 0xff, 0xff}, color.RGBA{0x44, 0x44, 0x44, 0xff}),
		Weft:    newTable(color.RGBA{0xee, 0xee, 0xee, 0xff}, color.RGBA{0x88, 0x88, 0x88, 0xff}),
	}
}

func newTable(first, rest color.RGBA) ColorTable {
	t := ColorTable{
		Rows:        make([]ColorRow, DefaultRows),
		Counts:      make([][]int, DefaultRows),
		Multipliers: make([]Multiplier, DefaultColumns),
	}
	for i := range t.Rows {
		t.Rows[i] = ColorRow{Color: rest}
		t.Counts[i] = make([]int, DefaultColumns)
	}
	t.Rows[0] = ColorRow{Color: first, Active: true}
	return t
}
