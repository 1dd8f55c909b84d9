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
	"strconv"
	"strings"
)

// Multiplier marks a column of a color table as the end of a repeated
// group.  The zero value is NoRepeat.
type Multiplier struct {
	n int
}

// NoRepeat is the Multiplier of an unmarked column.
var NoRepeat = Multiplier{}

// RepeatCount returns a marker which emits the preceding group n times
// in total.  Counts below 1 are raised to 1.
func RepeatCount(n int) Multiplier {
	return Multiplier{n: max(n, 1)}
}

// IsRepeat reports whether m marks the end of a repeated group.
func (m Multiplier) IsRepeat() bool {
	return m.n > 0
}

// Count returns the total number of emissions.  For NoRepeat this is 1.
func (m Multiplier) Count() int {
	return max(m.n, 1)
}

// String returns the text form, "" for NoRepeat and "Nx" otherwise.
func (m Multiplier) String() string {
	if m.n == 0 {
		return ""
	}
	return strconv.Itoa(m.n) + "x"
}

// ParseMultiplier reads the text of a multiplier cell.  Any text
// containing the letter x (in either case) is a repeat marker.  The
// count is the integer formed by the text with the first x removed;
// if there is no such integer, or if it is zero, the count is 1.
//
// Text without an x is NoRepeat.  ParseMultiplier never fails.
func ParseMultiplier(s string) Multiplier {
	s = strings.ToLower(s)
	i := strings.IndexByte(s, 'x')
	if i < 0 {
		return NoRepeat
	}
	n, ok := leadingInt(s[:i] + s[i+1:])
	if !ok || n == 0 {
		n = 1
	}
	return RepeatCount(n)
}

// leadingInt parses an optionally signed decimal integer at the start of
// s, after leading white space.  Trailing text is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// too many digits
		return 0, false
	}
	return n, true
}
