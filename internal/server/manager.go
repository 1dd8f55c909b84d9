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
	"sync/atomic"

	"github.com/google/uuid"

	"seehuhn.de/go/loom"
	"seehuhn.de/go/loom/draft"
)

// DefaultMaxDrafts is the number of drafts a Manager keeps by default.
const DefaultMaxDrafts = 64

// ErrNotFound is returned for unknown draft ids.
var ErrNotFound = errors.New("draft not found")

// Manager holds the drafts being edited through the API.  When the
// limit is reached, the draft used least recently is dropped.
type Manager struct {
	mu     sync.RWMutex
	drafts map[string]*entry
	limit  int

	// clock orders the accesses, for finding the least recently used draft
	clock atomic.Int64
}

// entry serializes access to one document, since a loom.Document is not
// safe for concurrent use.
type entry struct {
	mu      sync.Mutex
	doc     *loom.Document
	touched atomic.Int64
}

func (m *Manager) touch(e *entry) {
	e.touched.Store(m.clock.Add(1))
}

// NewManager returns an empty manager which keeps up to limit drafts.
// A limit of zero or less selects DefaultMaxDrafts.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultMaxDrafts
	}
	return &Manager{
		drafts: make(map[string]*entry),
		limit:  limit,
	}
}

// Create stores a new draft and returns its id.  A nil snapshot gives
// the default starting draft.
func (m *Manager) Create(s *draft.Snapshot) string {
	doc := loom.New()
	if s != nil {
		doc = loom.FromSnapshot(s)
	}
	e := &entry{doc: doc}
	m.touch(e)
	id := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.drafts) >= m.limit {
		m.evictLocked()
	}
	m.drafts[id] = e
	return id
}

// evictLocked removes the least recently used draft.
// The caller must hold m.mu for writing.
func (m *Manager) evictLocked() {
	var oldest string
	var t int64
	for id, e := range m.drafts {
		if tt := e.touched.Load(); oldest == "" || tt < t {
			oldest, t = id, tt
		}
	}
	delete(m.drafts, oldest)
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.drafts[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	m.touch(e)
	return e, nil
}

// With calls fn with exclusive access to the document of the given draft.
func (m *Manager) With(id string, fn func(doc *loom.Document) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.doc)
}

// Replace overwrites a stored draft.
func (m *Manager) Replace(id string, s *draft.Snapshot) error {
	return m.With(id, func(doc *loom.Document) error {
		doc.Draft = draft.FromSnapshot(s)
		return nil
	})
}

// Delete removes a draft.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return ErrNotFound
	}
	delete(m.drafts, id)
	return nil
}

// Len returns the number of stored drafts.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drafts)
}
