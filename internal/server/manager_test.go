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

package server

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/draft"
)

func TestManagerEviction(t *testing.T) {
	m := NewManager(2)
	a := m.Create(nil)
	b := m.Create(nil)

	// use a, so that b is the least recently used draft
	require.NoError(t, m.With(a, func(*loom.Document) error { return nil }))
	c := m.Create(nil)

	assert.Equal(t, 2, m.Len())
	assert.NoError(t, m.With(a, func(*loom.Document) error { return nil }))
	assert.NoError(t, m.With(c, func(*loom.Document) error { return nil }))
	assert.True(t, errors.Is(m.With(b, func(*loom.Document) error { return nil }), ErrNotFound))
}

func TestManagerReplace(t *testing.T) {
	m := NewManager(0)
	id := m.Create(nil)

	s := draft.Default().Snapshot()
	s.Loom.Chain = "direct"
	require.NoError(t, m.Replace(id, s))
	err := m.With(id, func(doc *loom.Document) error {
		assert.Equal(t, "direct", doc.Draft.Loom.Chain.String())
		return nil
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(m.Replace("nope", s), ErrNotFound))
	assert.NoError(t, m.Delete(id))
	assert.True(t, errors.Is(m.Delete(id), ErrNotFound))
}

// TestManagerConcurrent renders one draft from several goroutines.
// Run with -race to check the locking.
func TestManagerConcurrent(t *testing.T) {
	m := NewManager(0)
	id := m.Create(nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				_ = m.With(id, func(doc *loom.Document) error {
					doc.Draft.Lift[0][0] = !doc.Draft.Lift[0][0]
					_ = doc.Resolve()
					return nil
				})
				m.Create(nil)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), DefaultMaxDrafts)
}
