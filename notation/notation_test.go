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

package notation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/loom/draft"
)

func TestParseSequence(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"1 2 3 4", []int{1, 2, 3, 4}},
		{"1,2,3", []int{1, 2, 3}},
		{"1x3", []int{1, 1, 1}},
		{"(1 2)x2 3", []int{1, 2, 1, 2, 3}},
		{"(1 (2 3)*2)X2", []int{1, 2, 3, 2, 3, 1, 2, 3, 2, 3}},
		{"[1 2] 4", []int{1, 2, 4}},
		{"1 2 # straight draw\n3 4", []int{1, 2, 3, 4}},
	}
	for _, tc := range cases {
		got, err := ParseSequence(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseSequenceErrors(t *testing.T) {
	for _, in := range []string{"1 (2", "x3", "1 2)", "(1)x", "a b", "()"} {
		_, err := ParseSequence(in)
		assert.Error(t, err, "input %q", in)
	}

	_, err := ParseSequence("1x0")
	assert.True(t, errors.Is(err, ErrBadRepeat))

	_, err = ParseSequence("(1 2 3 4)x100000")
	assert.True(t, errors.Is(err, ErrTooLong))
}

func TestParseDenting(t *testing.T) {
	got, err := ParseDenting("[1 2 3 4]x2 ([3] [2 1])x2")
	require.NoError(t, err)
	assert.Equal(t, []draft.DentGroup{
		{Threads: []int{1, 2, 3, 4}, Repeat: draft.RepeatCount(2)},
		{Threads: []int{3}, Repeat: draft.RepeatCount(1)},
		{Threads: []int{2, 1}, Repeat: draft.RepeatCount(1)},
		{Threads: []int{3}, Repeat: draft.RepeatCount(1)},
		{Threads: []int{2, 1}, Repeat: draft.RepeatCount(1)},
	}, got)
}

func TestParseDentingErrors(t *testing.T) {
	cases := map[string]string{
		"[1 2 3 4 5 6]":               "at most 5",
		"[1 2 3 4 5]x14000":           "too long",
		"([1 2 3 4 5]x60000)x2":       "too long",
		"([1]x70000)":                 "too long",
		"[1]x99999999999999999999999": "",
		"1 2":                         "outside of a dent",
		"[1 2":                        "",
		"[]":                          "",
	}
	for in, msg := range cases {
		_, err := ParseDenting(in)
		require.Error(t, err, "input %q", in)
		if msg != "" {
			assert.Contains(t, err.Error(), msg)
		}
	}
}

func TestFormat(t *testing.T) {
	groups := []draft.DentGroup{
		{Threads: []int{1, 2, 3, 4}, Repeat: draft.RepeatCount(3)},
		{Threads: []int{2}},
	}
	s := FormatDenting(groups)
	assert.Equal(t, "[1 2 3 4]x3 [2]", s)

	back, err := ParseDenting(s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 1},
		(&draft.Draft{Denting: back}).ExpandDenting())

	assert.Equal(t, "1 2 3", FormatSequence([]int{1, 2, 3}))
}
