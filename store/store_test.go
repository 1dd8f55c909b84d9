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

package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/loom/draft"
)

func sample() *draft.Snapshot {
	d := draft.Default()
	d.Lift[0][1] = true
	d.Warp.Counts[0][0] = 3
	d.Warp.Multipliers[1] = draft.RepeatCount(2)
	s := d.Snapshot()
	return s
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{YAML, JSON, MsgPack} {
		t.Run(f.String(), func(t *testing.T) {
			s := sample()
			data, err := Marshal(f, s)
			require.NoError(t, err)

			back, err := Unmarshal(data, f)
			require.NoError(t, err)
			assert.Equal(t, draft.FromSnapshot(s), draft.FromSnapshot(back))
		})
	}
}

// TestMalformedCells checks that unreadable cell text survives a save
// and load cycle.
func TestMalformedCells(t *testing.T) {
	for _, f := range []Format{YAML, JSON, MsgPack} {
		s := sample()
		s.WarpVals[0][2] = "2 threads"
		s.WarpMults[3] = "X"
		data, err := Marshal(f, s)
		require.NoError(t, err)
		back, err := Unmarshal(data, f)
		require.NoError(t, err)
		assert.Equal(t, draft.Field("2 threads"), back.WarpVals[0][2], "format %v", f)
		assert.Equal(t, draft.Field("X"), back.WarpMults[3], "format %v", f)
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"a.yaml":       YAML,
		"dir/b.YML":    YAML,
		"c.json":       JSON,
		"d.msgpack":    MsgPack,
		"e.backup.mpk": MsgPack,
	}
	for name, want := range cases {
		got, err := FormatFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"noext", "f.txt"} {
		_, err := FormatFor(name)
		assert.True(t, errors.Is(err, ErrUnknownFormat), name)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{"yaml", "json", "msgpack"} {
		fname := filepath.Join(dir, "draft."+ext)
		require.NoError(t, Save(fname, sample()))

		s, err := Load(fname)
		require.NoError(t, err)
		assert.Equal(t, draft.FromSnapshot(sample()), draft.FromSnapshot(s))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temporary files left behind")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader("pegPlanData: [[1, 0]"), YAML)
	assert.Error(t, err)

	_, err = Decode(bytes.NewReader(nil), Format(7))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

// TestBrowserDocument loads a document saved by the browser version.
func TestBrowserDocument(t *testing.T) {
	doc := `{"pegPlanData":[[0,1],[1,0]],"dentingMatrix":[[1,2,"","","",1]],` +
		`"warpMults":["",""],"warpVals":[[1,""]],"warpColors":[{"hex":"#0044ff","active":true}],` +
		`"weftMults":[""],"weftVals":[[2]],"weftColors":[{"hex":"#eeeeee","active":true}]}`
	s, err := Unmarshal([]byte(doc), JSON)
	require.NoError(t, err)

	d := draft.FromSnapshot(s)
	assert.Equal(t, draft.LiftPlan{{false, true}, {true, false}}, d.Lift)
	assert.Equal(t, []int{0, 1}, d.ExpandDenting())
	assert.Equal(t, [][]int{{2}}, d.Weft.Counts)
}
