package client

import (
	"sort"
	"sync"
)

// ClearAllSentinel is the id the browser UI historically passed with
// selected=false to mean "clear the whole selection". Update honors
// it for callback compatibility; new callers should use Clear.
const ClearAllSentinel int64 = -1

// SelectionSet tracks which PDFs are selected for batch operations.
// It is ephemeral view state: the controller clears it whenever the
// folder or tag filter changes and after a batch mutation commits.
type SelectionSet struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewSelectionSet returns an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[int64]struct{})}
}

// Toggle flips a PDF's selected state.
func (s *SelectionSet) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// Update sets a PDF's selected state. Passing ClearAllSentinel with
// selected=false empties the selection; a real PDF id is never
// negative, the server assigns ids from a positive sequence.
func (s *SelectionSet) Update(id int64, selected bool) {
	if id == ClearAllSentinel && !selected {
		s.Clear()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if selected {
		s.ids[id] = struct{}{}
	} else {
		delete(s.ids, id)
	}
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{})
}

// Has reports whether a PDF is selected.
func (s *SelectionSet) Has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected PDFs.
func (s *SelectionSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in ascending order.
func (s *SelectionSet) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
