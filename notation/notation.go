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

// Package notation reads the compact text form of threading and denting
// plans.
//
// A threading plan is a list of harness numbers.  Parentheses group
// numbers, and a group or a number may be followed by a repeat count:
//
//	1 2 3 4 (3 2)x2 1
//
// A denting plan is a list of dent groups in square brackets, each with
// at most five thread numbers and an optional repeat count.  Parentheses
// repeat a run of dent groups:
//
//	[1 2 3 4]x2 ([3] [2 1])x3
//
// Commas may be used in place of spaces, and "#" starts a comment which
// runs to the end of the line.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"seehuhn.de/go/loom/draft"
)

// MaxLength bounds the length of an expanded plan.
const MaxLength = draft.MaxThreads

var (
	// ErrTooLong is returned when repeats expand a plan beyond MaxLength.
	ErrTooLong = errors.New("expanded plan too long")

	// ErrBadRepeat is returned for a repeat count of zero.
	ErrBadRepeat = errors.New("repeat count must be positive")
)

var planLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s,]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Times", Pattern: `[xX*]`},
	{Name: "Punct", Pattern: `[()\[\]]`},
})

// Plan is the syntax tree of a threading or denting plan.
type Plan struct {
	Items []*Item `parser:"@@*"`
}

// Item is a repeated atom.
type Item struct {
	Pos    lexer.Position
	Atom   *Atom `parser:"@@"`
	Repeat *int  `parser:"( Times @Int )?"`
}

// Atom is a single number, a parenthesized group or a dent.
type Atom struct {
	Number *int   `parser:"  @Int"`
	Group  *Group `parser:"| @@"`
	Dent   *Dent  `parser:"| @@"`
}

// Group is a parenthesized run of items.
type Group struct {
	Items []*Item `parser:"'(' @@+ ')'"`
}

// Dent is a bracketed list of thread numbers.
type Dent struct {
	Threads []int `parser:"'[' @Int+ ']'"`
}

var planParser = participle.MustBuild[Plan](
	participle.Lexer(planLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// Parse returns the syntax tree of a plan.
func Parse(s string) (*Plan, error) {
	p, err := planParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("notation: %w", err)
	}
	return p, nil
}

func (it *Item) count() (int, error) {
	if it.Repeat == nil {
		return 1, nil
	}
	if *it.Repeat == 0 {
		return 0, fmt.Errorf("notation: %s: %w", it.Pos, ErrBadRepeat)
	}
	return *it.Repeat, nil
}

// ParseSequence reads a threading plan and returns the harness numbers.
// Brackets are accepted and treated like parentheses.
func ParseSequence(s string) ([]int, error) {
	p, err := Parse(s)
	if err != nil {
		return nil, err
	}
	var res []int
	if err := expandNumbers(p.Items, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func expandNumbers(items []*Item, res *[]int) error {
	for _, it := range items {
		n, err := it.count()
		if err != nil {
			return err
		}
		for range n {
			switch a := it.Atom; {
			case a.Number != nil:
				*res = append(*res, *a.Number)
			case a.Group != nil:
				if err := expandNumbers(a.Group.Items, res); err != nil {
					return err
				}
			case a.Dent != nil:
				*res = append(*res, a.Dent.Threads...)
			}
			if len(*res) > MaxLength {
				return ErrTooLong
			}
		}
	}
	return nil
}

// ParseDenting reads a denting plan.  The repeat count of a dent becomes
// the Repeat of its dent group.
func ParseDenting(s string) ([]draft.DentGroup, error) {
	p, err := Parse(s)
	if err != nil {
		return nil, err
	}
	var res []draft.DentGroup
	if err := expandDents(p.Items, &res); err != nil {
		return nil, err
	}
	d := draft.Draft{Denting: res}
	if d.DentingLength() > MaxLength {
		return nil, ErrTooLong
	}
	return res, nil
}

func expandDents(items []*Item, res *[]draft.DentGroup) error {
	for _, it := range items {
		n, err := it.count()
		if err != nil {
			return err
		}
		switch a := it.Atom; {
		case a.Number != nil:
			return fmt.Errorf("notation: %s: thread number %d outside of a dent", it.Pos, *a.Number)
		case a.Dent != nil:
			if len(a.Dent.Threads) > draft.MaxDentThreads {
				return fmt.Errorf("notation: %s: dent has %d threads, at most %d allowed",
					it.Pos, len(a.Dent.Threads), draft.MaxDentThreads)
			}
			if n > MaxLength {
				return ErrTooLong
			}
			*res = append(*res, draft.DentGroup{
				Threads: a.Dent.Threads,
				Repeat:  draft.RepeatCount(n),
			})
		case a.Group != nil:
			for range n {
				if err := expandDents(a.Group.Items, res); err != nil {
					return err
				}
				if len(*res) > MaxLength {
					return ErrTooLong
				}
			}
		}
	}
	return nil
}

// FormatSequence returns the text form of a threading plan.
func FormatSequence(seq []int) string {
	parts := make([]string, len(seq))
	for i, n := range seq {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// FormatDenting returns the text form of a denting plan.
func FormatDenting(groups []draft.DentGroup) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		b.WriteString(FormatSequence(g.Threads))
		b.WriteByte(']')
		if n := g.Repeat.Count(); n > 1 {
			fmt.Fprintf(&b, "x%d", n)
		}
	}
	return b.String()
}
