// Package pagestore implements an in-memory slotheap.PageAllocator: pages
// live as plain Go byte slices in a growable slice, the simplest backend
// a heap allocator can sit on, and the one the tests reach for by
// default.
package pagestore

import (
	"errors"
	"sync"

	"github.com/coredbx/slotheap"
	"github.com/coredbx/slotheap/internal/hostmem"
)

// ErrPageNotFound is returned by Get for an id this store never
// allocated. Like page.ErrSlotOutOfRange, this is caller misuse, not a
// taxonomy condition.
var ErrPageNotFound = errors.New("pagestore: page id out of range")

// Store is an in-memory, append-only page allocator. Pages are never
// freed individually; the whole store is reclaimed when it's dropped.
type Store struct {
	mu       sync.RWMutex
	pageSize int
	pages    [][]byte
}

// New returns an empty store whose pages are all pageSize bytes.
func New(pageSize int) *Store {
	return &Store{pageSize: pageSize}
}

// PageSize returns the fixed page size this store was created with.
func (s *Store) PageSize() int {
	return s.pageSize
}

// Count returns the number of pages allocated so far.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// AllocatePage appends and returns a freshly zeroed page.
func (s *Store) AllocatePage() (slotheap.PageID, []byte, error) {
	if headroom, ok := hostmem.Headroom(); ok && headroom < uint64(s.pageSize) {
		return slotheap.InvalidPageID, nil, &slotheap.Error{
			Code:    slotheap.ErrOutOfHostMemory,
			Message: "insufficient address space headroom for a new page",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := slotheap.PageID(len(s.pages))
	if id > slotheap.MaxPageID {
		return slotheap.InvalidPageID, nil, &slotheap.Error{
			Code:    slotheap.ErrOutOfHostMemory,
			Message: "page id space exhausted",
		}
	}

	buf := make([]byte, s.pageSize)
	s.pages = append(s.pages, buf)
	return id, buf, nil
}

// Get returns the backing buffer for id.
func (s *Store) Get(id slotheap.PageID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if uint64(id) >= uint64(len(s.pages)) {
		return nil, ErrPageNotFound
	}
	return s.pages[id], nil
}

var _ slotheap.PageAllocator = (*Store)(nil)
