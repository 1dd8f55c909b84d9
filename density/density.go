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

// Package density derives thread spacing from reed and pick settings.
//
// Two models are supported. The simple count model spreads the threading
// sequence over the dent groups of the denting plan. The reed mechanics
// model multiplies ends per dent by the dents per inch of the reed.
package density

import "math"

// Mode selects how ends per inch are computed.
type Mode int

const (
	// ModeSimpleCount computes epi = round(reed * threads / groups).
	ModeSimpleCount Mode = iota

	// ModeReedMechanics computes epi = endsPerDent * reedSize / 2.
	ModeReedMechanics
)

func (m Mode) String() string {
	switch m {
	case ModeSimpleCount:
		return "simple"
	case ModeReedMechanics:
		return "reed"
	default:
		return "unknown"
	}
}

// ParseMode converts the string form of a Mode back. Unknown strings
// give ModeSimpleCount.
func ParseMode(s string) Mode {
	if s == "reed" {
		return ModeReedMechanics
	}
	return ModeSimpleCount
}

// Defaults for fields which are missing, zero or malformed.
const (
	DefaultReedCount   = 40
	DefaultSimplePPI   = 40
	DefaultEndsPerDent = 2
	DefaultReedSize    = 60
	DefaultReedPPI     = 60
)

// Config holds the user settings for the density computation.
// Fields which are not positive and finite are replaced by the
// defaults of the selected mode.
type Config struct {
	Mode Mode

	ReedCount   float64 // simple count: threads per dent group unit
	EndsPerDent float64 // reed mechanics
	ReedSize    float64 // reed mechanics: dents per two inches
	PPI         float64
}

// Density is the derived thread spacing.  All values are at least 1.
type Density struct {
	EPI          float64
	PPI          float64
	DentsPerInch float64 // zero in simple count mode
}

// Compute derives the density for a threading sequence of length threads,
// spread over the given number of dent groups.
func Compute(cfg Config, threads, groups int) Density {
	var d Density
	switch cfg.Mode {
	case ModeReedMechanics:
		ends := orDefault(cfg.EndsPerDent, DefaultEndsPerDent)
		size := orDefault(cfg.ReedSize, DefaultReedSize)
		d.DentsPerInch = size / 2
		d.EPI = ends * d.DentsPerInch
		d.PPI = orDefault(cfg.PPI, DefaultReedPPI)
	default:
		reed := orDefault(cfg.ReedCount, DefaultReedCount)
		d.EPI = math.Round(reed * float64(threads) / float64(max(groups, 1)))
		d.PPI = orDefault(cfg.PPI, DefaultSimplePPI)
	}
	d.EPI = atLeastOne(d.EPI)
	d.PPI = atLeastOne(d.PPI)
	return d
}

// Steps returns the on-screen distance between neighbouring warp threads
// and between neighbouring picks, at 96 pixels per inch times zoom.
func (d Density) Steps(zoom float64) (warpStep, weftStep float64) {
	return 96 * zoom / d.EPI, 96 * zoom / d.PPI
}

func orDefault(x, def float64) float64 {
	if x > 0 && !math.IsInf(x, 1) {
		return x
	}
	return def
}

func atLeastOne(x float64) float64 {
	if !(x >= 1) || math.IsInf(x, 1) {
		return 1
	}
	return x
}
