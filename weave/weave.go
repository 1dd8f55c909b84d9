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

// Package weave decides, for every crossing of a warp thread and a pick,
// which of the two threads lies on top.
//
// Thread and pick indices may be any integer. Lookups wrap around the
// underlying plans, so a Resolver describes an infinitely repeating
// fabric.
package weave

// Resolver reports whether the warp thread lies over the pick at a
// crossing.  Implementations must be total: every (thread, pick) pair
// has an answer and no call panics.
type Resolver interface {
	IsWarpOver(thread, pick int) bool
}

// Chain selects which resolver is built from a draft.
type Chain int

const (
	// ChainDenting reads shafts from the expanded denting plan and looks
	// them up in the active part of the lift plan.
	ChainDenting Chain = iota

	// ChainDirect reads 1-based harness numbers from the threading
	// sequence and looks them up in the full lift plan.
	ChainDirect
)

func (c Chain) String() string {
	switch c {
	case ChainDenting:
		return "denting"
	case ChainDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// ParseChain converts the string form of a Chain back.  Unknown strings
// give ChainDenting.
func ParseChain(s string) Chain {
	if s == "direct" {
		return ChainDirect
	}
	return ChainDenting
}

// Direct resolves crossings through the threading sequence.
type Direct struct {
	// Threading gives a 1-based harness number for every warp thread.
	// Zero leaves a thread unassigned.
	Threading []int

	// Lift is indexed as Lift[pick][harness-1].
	Lift [][]bool
}

// IsWarpOver implements the Resolver interface.
func (d *Direct) IsWarpOver(thread, pick int) bool {
	if len(d.Threading) == 0 || len(d.Lift) == 0 {
		return false
	}
	h := d.Threading[mod(thread, len(d.Threading))] - 1
	row := d.Lift[mod(pick, len(d.Lift))]
	if h < 0 || h >= len(row) {
		return false
	}
	return row[h]
}

// Denting resolves crossings through the expanded denting plan,
// restricted to the active viewport of the lift plan.
type Denting struct {
	// Threads holds the 0-based shaft of every warp thread.  A negative
	// shaft leaves the thread unassigned.
	Threads []int

	Lift [][]bool
	View Viewport
}

// IsWarpOver implements the Resolver interface.
func (d *Denting) IsWarpOver(thread, pick int) bool {
	if len(d.Threads) == 0 || d.View.Empty() {
		return false
	}
	shaft := d.Threads[mod(thread, len(d.Threads))]
	if shaft < 0 {
		return false
	}
	r := d.View.MinPick + mod(pick, d.View.Picks())
	c := d.View.MinHarness + mod(shaft, d.View.Harnesses())
	if r >= len(d.Lift) || c >= len(d.Lift[r]) {
		return false
	}
	return d.Lift[r][c]
}

// mod returns a mod n in the range [0, n).
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
