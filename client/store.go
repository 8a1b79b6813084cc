package client

import (
	"context"
	"sync"
)

// StoreState is a resource store's position in its lifecycle.
type StoreState int

const (
	StateIdle StoreState = iota
	StateLoading
	StateReady
	StateError
)

// String returns the state name for logs and test output.
func (s StoreState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// FetchFunc loads a store's items from the backend.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Store holds one resource collection and the fetch state machine
// around it. Items are replaced wholesale on every successful fetch;
// there is no partial merging, so the collection always mirrors one
// server response. Each Fetch is keyed by a monotonic token and only
// the most recently issued fetch may apply its result, so overlapping
// fetches cannot leave a stale response as the final state.
type Store[T any] struct {
	mu         sync.Mutex
	fetchFn    FetchFunc[T]
	items      []T
	state      StoreState
	errMsg     string
	issued     uint64
	generation uint64
}

// NewStore creates an idle store around a fetch function.
func NewStore[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{fetchFn: fetch, state: StateIdle}
}

// Fetch loads the collection. On success the items are replaced and
// any prior error is cleared; on failure the items are emptied and
// the error message recorded. Either way the store leaves the loading
// state. A fetch that has been superseded by a newer one returns its
// error to the caller but does not touch the store.
func (s *Store[T]) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	token := s.issued
	s.state = StateLoading
	s.mu.Unlock()

	items, err := s.fetchFn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.issued {
		return err
	}

	if err != nil {
		s.items = nil
		s.errMsg = err.Error()
		s.state = StateError
		return err
	}

	s.items = items
	s.errMsg = ""
	s.state = StateReady
	return nil
}

// Refresh bumps the store's generation and re-fetches. The generation
// counter lets dependents observe that a re-sync happened even when
// the resulting items are identical.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// Items returns a copy of the current collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return items
}

// State returns the store's current lifecycle state.
func (s *Store[T]) State() StoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the display string from the last failed fetch, or ""
// when the last fetch succeeded.
func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Generation returns the number of refreshes requested so far.
func (s *Store[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// FolderStore is the folder collection plus the server-computed
// unfiled count that rides along in the folder list response.
type FolderStore struct {
	*Store[*Folder]

	mu      sync.Mutex
	unfiled int
}

// NewFolderStore creates a folder store backed by the client's
// ListFolders call.
func NewFolderStore(c *Client) *FolderStore {
	fs := &FolderStore{}
	fs.Store = NewStore(func(ctx context.Context) ([]*Folder, error) {
		list, err := c.ListFolders(ctx)
		if err != nil {
			return nil, err
		}
		fs.mu.Lock()
		fs.unfiled = list.UnfiledCount
		fs.mu.Unlock()
		return list.Folders, nil
	})
	return fs
}

// UnfiledCount returns the unfiled count from the last successful
// folder fetch.
func (fs *FolderStore) UnfiledCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.unfiled
}
