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
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/loom/weave"
)

func TestParseMultiplier(t *testing.T) {
	cases := []struct {
		in   string
		want Multiplier
	}{
		{"", NoRepeat},
		{"3", NoRepeat},
		{"abc", NoRepeat},
		{"3x", RepeatCount(3)},
		{"x3", RepeatCount(3)},
		{"X", RepeatCount(1)},
		{"0x", RepeatCount(1)},
		{"-2x", RepeatCount(1)},
		{" 4x", RepeatCount(4)},
		{"2x5", RepeatCount(25)},
		{"xx", RepeatCount(1)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseMultiplier(tc.in), "input %q", tc.in)
	}
}

func TestMultiplier(t *testing.T) {
	assert.False(t, NoRepeat.IsRepeat())
	assert.Equal(t, 1, NoRepeat.Count())
	assert.Equal(t, "", NoRepeat.String())

	m := RepeatCount(4)
	assert.True(t, m.IsRepeat())
	assert.Equal(t, 4, m.Count())
	assert.Equal(t, m, ParseMultiplier(m.String()))
	assert.Equal(t, RepeatCount(1), RepeatCount(-7))
}

func TestExpandDenting(t *testing.T) {
	d := &Draft{Denting: []DentGroup{
		{Threads: []int{1, 2}, Repeat: RepeatCount(2)},
		{},
		{Threads: []int{4, 0}},
	}}
	assert.Equal(t, []int{0, 1, 0, 1, 3, -1}, d.ExpandDenting())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	d := Default()
	d.Loom.Chain = weave.ChainDirect
	d.Threading = []int{1, 21}
	d.Lift[3] = d.Lift[3][:4]
	d.Denting = append(d.Denting, DentGroup{Threads: []int{1, 2, 3, 4, 5, 6}})
	d.Weft.Counts = append(d.Weft.Counts, []int{1})

	err := d.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "thread 2 is on harness 21")
	assert.Contains(t, err.Error(), "lift plan row 3")
	assert.Contains(t, err.Error(), "dent group 2 has 6 threads")
	assert.Contains(t, err.Error(), "weft table")
}

func TestHugeCounts(t *testing.T) {
	d := Default()
	d.Warp.Counts[0][0] = 2000000000
	d.Weft.Counts[0][1] = 3
	d.Weft.Multipliers[1] = ParseMultiplier("2000000000x")
	d.Denting[0].Repeat = RepeatCount(2000000000)

	assert.Equal(t, MaxThreads+1, d.Warp.Length())
	assert.Equal(t, MaxThreads+1, d.Weft.Length())
	assert.Equal(t, MaxThreads+1, d.DentingLength())
	assert.Len(t, d.ExpandDenting(), MaxThreads)

	err := d.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "warp table count at row 1, column 1")
	assert.Contains(t, err.Error(), "weft table column 2 repeats")
	assert.Contains(t, err.Error(), "dent group 1 repeats")
	assert.Contains(t, err.Error(), "denting plan has more than")
}

func TestLength(t *testing.T) {
	tab := ColorTable{
		Rows:        []ColorRow{{Active: true}, {Active: true}, {}},
		Counts:      [][]int{{1, 2, 0, 1}, {0, 1, -3, 0}, {5, 5, 5, 5}},
		Multipliers: []Multiplier{NoRepeat, NoRepeat, RepeatCount(3), NoRepeat},
	}
	// 1 + (3+0)*3 + 1
	assert.Equal(t, 11, tab.Length())

	d := Default()
	d.Warp.Counts[0][0] = MaxThreads
	assert.Equal(t, MaxThreads, d.Warp.Length())
	require.NoError(t, d.Validate())
	d.Warp.Counts[0][1] = 1
	assert.Error(t, d.Validate())
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Len(t, d.Lift, DefaultRows)
	assert.Equal(t, color.RGBA{0x00, 0x44, 0xff, 0xff}, d.Warp.Rows[0].Color)
	assert.True(t, d.Warp.Rows[0].Active)
	assert.False(t, d.Warp.Rows[1].Active)
	assert.Equal(t, color.RGBA{0xee, 0xee, 0xee, 0xff}, d.Weft.Rows[0].Color)
	assert.Equal(t, []int{0, 1, 2, 3}, d.ExpandDenting())
	assert.Equal(t, DefaultColumns, d.Warp.Columns())
}

func TestColorTableAccess(t *testing.T) {
	tab := &ColorTable{
		Counts:      [][]int{{1, 2}, {3}},
		Multipliers: []Multiplier{NoRepeat, RepeatCount(2), NoRepeat},
	}
	assert.Equal(t, 3, tab.Columns())
	assert.Equal(t, 2, tab.Count(0, 1))
	assert.Equal(t, 0, tab.Count(1, 1))
	assert.Equal(t, 0, tab.Count(5, 0))
	assert.Equal(t, RepeatCount(2), tab.Multiplier(1))
	assert.Equal(t, NoRepeat, tab.Multiplier(9))
}

// stored is a document as saved by the browser version of the tool.
const stored = `{
	"pegPlanData": [[1, 0], [0, 1]],
	"dentingMatrix": [[1, 2, "", "", "", 3], [4, "", "", "", "", ""]],
	"warpMults": ["", "2x"],
	"warpVals": [[2, ""], ["", 1]],
	"warpColors": [{"hex": "#0044ff", "active": true}, {"hex": "#444", "active": false}],
	"weftMults": ["", ""],
	"weftVals": [[null, 1]],
	"weftColors": [{"hex": "not a color", "active": true}]
}`

func TestStoredDocument(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(stored), &s))
	d := FromSnapshot(&s)

	assert.Equal(t, LiftPlan{{true, false}, {false, true}}, d.Lift)
	assert.Equal(t, []DentGroup{
		{Threads: []int{1, 2}, Repeat: RepeatCount(3)},
		{Threads: []int{4}, Repeat: RepeatCount(1)},
	}, d.Denting)
	assert.Equal(t, [][]int{{2, 0}, {0, 1}}, d.Warp.Counts)
	assert.Equal(t, []Multiplier{NoRepeat, RepeatCount(2)}, d.Warp.Multipliers)
	assert.Equal(t, color.RGBA{0x44, 0x44, 0x44, 0xff}, d.Warp.Rows[1].Color)
	assert.Equal(t, [][]int{{0, 1}}, d.Weft.Counts)
	assert.Equal(t, Unknown, d.Weft.Rows[0].Color)
	assert.Equal(t, weave.ChainDenting, d.Loom.Chain)
}

func TestSnapshotRoundTrip(t *testing.T) {
	d := Default()
	d.Lift[0][0] = true
	d.Lift[1][3] = true
	d.Warp.Counts[0][0] = 4
	d.Warp.Multipliers[1] = RepeatCount(3)
	d.Loom.Density.ReedCount = 12
	d.Loom.Density.PPI = 30

	assert.Equal(t, d, FromSnapshot(d.Snapshot()))
}

func TestFieldEncoding(t *testing.T) {
	s := Snapshot{
		Threading: []Field{"1", "", "2x", "007"},
	}

	data, err := json.Marshal(s.Threading)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, "", "2x", "007"]`, string(data))

	var fromJSON []Field
	require.NoError(t, json.Unmarshal([]byte(`[1, "a", null, true, 2.5]`), &fromJSON))
	assert.Equal(t, []Field{"1", "a", "", "1", "2.5"}, fromJSON)

	var fromYAML []Field
	require.NoError(t, yaml.Unmarshal([]byte("[1, a, ~, '3x']"), &fromYAML))
	assert.Equal(t, []Field{"1", "a", "", "3x"}, fromYAML)

	packed, err := msgpack.Marshal(s.Threading)
	require.NoError(t, err)
	var fromMsgpack []Field
	require.NoError(t, msgpack.Unmarshal(packed, &fromMsgpack))
	assert.Equal(t, s.Threading, fromMsgpack)
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, color.RGBA{0x12, 0x34, 0x56, 0xff}, ParseColor("#123456"))
	assert.Equal(t, color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, ParseColor("#abc"))
	assert.Equal(t, Unknown, ParseColor("#12345g"))
	assert.Equal(t, Unknown, ParseColor(""))
	assert.Equal(t, "#0044ff", FormatColor(color.RGBA{0x00, 0x44, 0xff, 0xff}))
}
