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

package density

import (
	"math"
	"testing"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		threads int
		groups  int
		epi     float64
		ppi     float64
	}{
		{"defaults", Config{}, 4, 1, 160, 40},
		{"simple", Config{ReedCount: 12, PPI: 30}, 20, 5, 48, 30},
		{"rounding", Config{ReedCount: 10}, 1, 3, 3, 40},
		{"no groups", Config{ReedCount: 10}, 3, 0, 30, 40},
		{"no threads", Config{}, 0, 1, 1, 40},
		{"reed", Config{Mode: ModeReedMechanics, EndsPerDent: 2, ReedSize: 60}, 0, 0, 60, 60},
		{"reed defaults", Config{Mode: ModeReedMechanics, PPI: -5}, 0, 0, 60, 60},
		{"reed fractional", Config{Mode: ModeReedMechanics, EndsPerDent: 1, ReedSize: 1, PPI: 0.25}, 0, 0, 1, 1},
		{"nan", Config{ReedCount: math.NaN(), PPI: math.Inf(1)}, 2, 1, 80, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Compute(tc.cfg, tc.threads, tc.groups)
			if d.EPI != tc.epi || d.PPI != tc.ppi {
				t.Errorf("got epi=%g ppi=%g, want %g %g", d.EPI, d.PPI, tc.epi, tc.ppi)
			}
		})
	}
}

func TestReedMechanics(t *testing.T) {
	d := Compute(Config{Mode: ModeReedMechanics, EndsPerDent: 2, ReedSize: 60}, 0, 0)
	if d.DentsPerInch != 30 || d.EPI != 60 {
		t.Errorf("got dpi=%g epi=%g, want 30 60", d.DentsPerInch, d.EPI)
	}
}

func TestSteps(t *testing.T) {
	d := Density{EPI: 48, PPI: 24}
	w, h := d.Steps(12)
	if w != 24 || h != 48 {
		t.Errorf("got steps %g %g, want 24 48", w, h)
	}
}

func TestModeString(t *testing.T) {
	for _, m := range []Mode{ModeSimpleCount, ModeReedMechanics} {
		if got := ParseMode(m.String()); got != m {
			t.Errorf("%v does not round trip, got %v", m, got)
		}
	}
}
