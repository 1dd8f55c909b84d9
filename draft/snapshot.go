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

package draft

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/loom/density"
	"seehuhn.de/go/loom/weave"
)

// Snapshot is the persistent form of a Draft.  Field names follow the
// storage layout of the browser version of the tool, so that saved
// documents can be loaded unchanged.
//
// Cells which hold user-typed numbers are stored as Field values.
// Malformed text survives a save and load cycle, and is treated as empty
// when the snapshot is converted to a Draft.
type Snapshot struct {
	Loom LoomSnapshot `json:"loom" yaml:"loom" msgpack:"loom"`

	Threading []Field   `json:"threadingPlan,omitempty" yaml:"threadingPlan,omitempty" msgpack:"threadingPlan,omitempty"`
	PegPlan   [][]Field `json:"pegPlanData" yaml:"pegPlanData" msgpack:"pegPlanData"`
	Denting   [][]Field `json:"dentingMatrix" yaml:"dentingMatrix" msgpack:"dentingMatrix"`

	WarpMults  []Field         `json:"warpMults" yaml:"warpMults" msgpack:"warpMults"`
	WarpVals   [][]Field       `json:"warpVals" yaml:"warpVals" msgpack:"warpVals"`
	WarpColors []ColorSnapshot `json:"warpColors" yaml:"warpColors" msgpack:"warpColors"`

	WeftMults  []Field         `json:"weftMults" yaml:"weftMults" msgpack:"weftMults"`
	WeftVals   [][]Field       `json:"weftVals" yaml:"weftVals" msgpack:"weftVals"`
	WeftColors []ColorSnapshot `json:"weftColors" yaml:"weftColors" msgpack:"weftColors"`
}

// LoomSnapshot is the persistent form of Loom.
type LoomSnapshot struct {
	Chain       string `json:"chain,omitempty" yaml:"chain,omitempty" msgpack:"chain,omitempty"`
	Density     string `json:"density,omitempty" yaml:"density,omitempty" msgpack:"density,omitempty"`
	Reed        Field  `json:"reed,omitempty" yaml:"reed,omitempty" msgpack:"reed,omitempty"`
	EndsPerDent Field  `json:"endsPerDent,omitempty" yaml:"endsPerDent,omitempty" msgpack:"endsPerDent,omitempty"`
	ReedSize    Field  `json:"reedSize,omitempty" yaml:"reedSize,omitempty" msgpack:"reedSize,omitempty"`
	PPI         Field  `json:"ppi,omitempty" yaml:"ppi,omitempty" msgpack:"ppi,omitempty"`
}

// ColorSnapshot is the persistent form of ColorRow.
type ColorSnapshot struct {
	Hex    string `json:"hex" yaml:"hex" msgpack:"hex"`
	Active bool   `json:"active" yaml:"active" msgpack:"active"`
}

// Field is the text of a numeric input cell.  When encoded, a field
// holding a plain integer is written as a number and everything else as
// a string.  When decoded, numbers, strings, booleans and null are all
// accepted.
type Field string

// Int returns the integer at the start of f, ignoring trailing text.
func (f Field) Int() (int, bool) {
	return leadingInt(string(f))
}

// IntField returns the Field for n.
func IntField(n int) Field {
	return Field(strconv.Itoa(n))
}

// canonicalInt reports whether f is exactly the decimal form of an int.
func (f Field) canonicalInt() (int, bool) {
	n, err := strconv.Atoi(string(f))
	if err != nil || strconv.Itoa(n) != string(f) {
		return 0, false
	}
	return n, true
}

// MarshalJSON implements the json.Marshaler interface.
func (f Field) MarshalJSON() ([]byte, error) {
	if _, ok := f.canonicalInt(); ok {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *Field) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = fieldFromAny(v)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (f Field) MarshalYAML() (any, error) {
	if n, ok := f.canonicalInt(); ok {
		return n, nil
	}
	return string(f), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar cell value", value.Line)
	}
	if value.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = Field(value.Value)
	return nil
}

var (
	_ msgpack.CustomEncoder = Field("")
	_ msgpack.CustomDecoder = (*Field)(nil)
)

// EncodeMsgpack implements the msgpack.CustomEncoder interface.
func (f Field) EncodeMsgpack(enc *msgpack.Encoder) error {
	if n, ok := f.canonicalInt(); ok {
		return enc.EncodeInt(int64(n))
	}
	return enc.EncodeString(string(f))
}

// DecodeMsgpack implements the msgpack.CustomDecoder interface.
func (f *Field) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	*f = fieldFromAny(v)
	return nil
}

func fieldFromAny(v any) Field {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return Field(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float64:
		return Field(strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		return Field(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case int64:
		return Field(strconv.FormatInt(v, 10))
	case uint64:
		return Field(strconv.FormatUint(v, 10))
	case int8, int16, int32, uint8, uint16, uint32:
		return Field(fmt.Sprint(v))
	default:
		return ""
	}
}

// FromSnapshot converts a snapshot into a Draft.  Malformed cells are
// treated as empty; FromSnapshot never fails.
func FromSnapshot(s *Snapshot) *Draft {
	d := &Draft{
		Loom: Loom{
			Chain: weave.ParseChain(s.Loom.Chain),
			Density: density.Config{
				Mode:        density.ParseMode(s.Loom.Density),
				ReedCount:   fieldFloat(s.Loom.Reed),
				EndsPerDent: fieldFloat(s.Loom.EndsPerDent),
				ReedSize:    fieldFloat(s.Loom.ReedSize),
				PPI:         fieldFloat(s.Loom.PPI),
			},
		},
	}

	for _, f := range s.Threading {
		n, _ := f.Int()
		d.Threading = append(d.Threading, n)
	}

	d.Lift = make(LiftPlan, len(s.PegPlan))
	for i, row := range s.PegPlan {
		d.Lift[i] = make([]bool, len(row))
		for j, f := range row {
			n, _ := f.Int()
			d.Lift[i][j] = n != 0
		}
	}

	for _, row := range s.Denting {
		var g DentGroup
		for j, f := range row {
			if j >= MaxDentThreads {
				break
			}
			if n, ok := f.Int(); ok {
				g.Threads = append(g.Threads, n)
			}
		}
		g.Repeat = RepeatCount(1)
		if len(row) > MaxDentThreads {
			if n, ok := row[MaxDentThreads].Int(); ok && n != 0 {
				g.Repeat = RepeatCount(n)
			}
		}
		d.Denting = append(d.Denting, g)
	}

	d.Warp = tableFromSnapshot(s.WarpColors, s.WarpVals, s.WarpMults)
	d.Weft = tableFromSnapshot(s.WeftColors, s.WeftVals, s.WeftMults)
	return d
}

func tableFromSnapshot(colors []ColorSnapshot, vals [][]Field, mults []Field) ColorTable {
	t := ColorTable{
		Rows:        make([]ColorRow, len(colors)),
		Counts:      make([][]int, len(vals)),
		Multipliers: make([]Multiplier, len(mults)),
	}
	for i, c := range colors {
		t.Rows[i] = ColorRow{Color: ParseColor(c.Hex), Active: c.Active}
	}
	for i, row := range vals {
		t.Counts[i] = make([]int, len(row))
		for j, f := range row {
			t.Counts[i][j], _ = f.Int()
		}
	}
	for j, f := range mults {
		t.Multipliers[j] = ParseMultiplier(string(f))
	}
	return t
}

func fieldFloat(f Field) float64 {
	n, ok := f.Int()
	if !ok {
		return 0
	}
	return float64(n)
}

// Snapshot converts the draft into its persistent form.
func (d *Draft) Snapshot() *Snapshot {
	cfg := d.Loom.Density
	s := &Snapshot{
		Loom: LoomSnapshot{
			Chain:       d.Loom.Chain.String(),
			Density:     cfg.Mode.String(),
			Reed:        floatField(cfg.ReedCount),
			EndsPerDent: floatField(cfg.EndsPerDent),
			ReedSize:    floatField(cfg.ReedSize),
			PPI:         floatField(cfg.PPI),
		},
	}

	for _, h := range d.Threading {
		s.Threading = append(s.Threading, IntField(h))
	}

	s.PegPlan = make([][]Field, len(d.Lift))
	for i, row := range d.Lift {
		s.PegPlan[i] = make([]Field, len(row))
		for j, up := range row {
			s.PegPlan[i][j] = "0"
			if up {
				s.PegPlan[i][j] = "1"
			}
		}
	}

	s.Denting = make([][]Field, len(d.Denting))
	for i, g := range d.Denting {
		row := make([]Field, MaxDentThreads+1)
		for j, t := range g.Threads {
			if j < MaxDentThreads {
				row[j] = IntField(t)
			}
		}
		row[MaxDentThreads] = IntField(g.Repeat.Count())
		s.Denting[i] = row
	}

	s.WarpColors, s.WarpVals, s.WarpMults = tableSnapshot(&d.Warp)
	s.WeftColors, s.WeftVals, s.WeftMults = tableSnapshot(&d.Weft)
	return s
}

func tableSnapshot(t *ColorTable) ([]ColorSnapshot, [][]Field, []Field) {
	colors := make([]ColorSnapshot, len(t.Rows))
	for i, r := range t.Rows {
		colors[i] = ColorSnapshot{Hex: FormatColor(r.Color), Active: r.Active}
	}
	vals := make([][]Field, len(t.Counts))
	for i, row := range t.Counts {
		vals[i] = make([]Field, len(row))
		for j, n := range row {
			if n != 0 {
				vals[i][j] = IntField(n)
			}
		}
	}
	mults := make([]Field, len(t.Multipliers))
	for j, m := range t.Multipliers {
		mults[j] = Field(m.String())
	}
	return colors, vals, mults
}

func floatField(x float64) Field {
	if x == 0 {
		return ""
	}
	return Field(strconv.FormatFloat(x, 'f', -1, 64))
}

// Unknown is the color used for unreadable color values.
var Unknown = color.RGBA{0x44, 0x44, 0x44, 0xff}

// ParseColor reads a CSS hex color of the form "#rgb" or "#rrggbb".
// Unreadable values give Unknown.
func ParseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		v, err := strconv.ParseUint(s, 16, 16)
		if err != nil {
			return Unknown
		}
		r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
		return color.RGBA{r * 0x11, g * 0x11, b * 0x11, 0xff}
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return Unknown
		}
		return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
	default:
		return Unknown
	}
}

// FormatColor returns the "#rrggbb" form of c.
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
