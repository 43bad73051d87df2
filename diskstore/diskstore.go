// Package diskstore implements a bbolt-backed slotheap.PageAllocator: a
// durable alternative to pagestore's pure in-memory slice for callers
// that need their pages to survive a restart.
//
// Live pages are served from an in-memory, pointer-stable mirror — the
// same access pattern pagestore gives, and the one a slotted page needs
// (it writes into its backing buffer in place, with no explicit
// write-back call). bbolt is the durability substrate underneath, synced
// explicitly rather than read on every Get: bbolt's own documentation
// warns that byte slices returned by Get are only valid for the life of
// the transaction and can be invalidated by the database's mmap growing,
// which rules out handing them straight to a page view that expects a
// buffer it can mutate for as long as the store lives.
package diskstore

import (
	"encoding/binary"
	"errors"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/coredbx/slotheap"
	"github.com/coredbx/slotheap/internal/hostmem"
)

var (
	pagesBucketName = []byte("pages")
	metaBucketName  = []byte("meta")
	pageSizeMetaKey = []byte("page_size")
)

// ErrPageNotFound is returned by Get for an id this store never
// allocated.
var ErrPageNotFound = errors.New("diskstore: page id out of range")

// Store is a durable, bbolt-backed page allocator.
type Store struct {
	mu       sync.RWMutex
	db       *bolt.DB
	pageSize int
	pages    [][]byte
}

func encodeID(id slotheap.PageID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// Open opens (creating if necessary) a bbolt database at path as a page
// store of pageSize-byte pages, replaying any pages it already holds.
func Open(path string, pageSize int) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, &slotheap.Error{
			Code:    slotheap.ErrOutOfHostMemory,
			Message: "opening backing database",
			Err:     err,
		}
	}

	s := &Store{db: db, pageSize: pageSize}

	err = db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(metaBucketName)
		if err != nil {
			return err
		}
		if existing := meta.Get(pageSizeMetaKey); existing != nil {
			stored := int(binary.BigEndian.Uint64(existing))
			if stored != pageSize {
				return &slotheap.Error{
					Code:    slotheap.ErrInvalidConfiguration,
					Message: "page size does not match the database's recorded page size",
				}
			}
		} else {
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], uint64(pageSize))
			if err := meta.Put(pageSizeMetaKey, buf[:]); err != nil {
				return err
			}
		}

		pages, err := tx.CreateBucketIfNotExists(pagesBucketName)
		if err != nil {
			return err
		}
		return pages.ForEach(func(k, v []byte) error {
			id := binary.BigEndian.Uint64(k)
			buf := make([]byte, len(v))
			copy(buf, v)
			for uint64(len(s.pages)) <= id {
				s.pages = append(s.pages, nil)
			}
			s.pages[id] = buf
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// PageSize returns the fixed page size this store was opened with.
func (s *Store) PageSize() int {
	return s.pageSize
}

// Count returns the number of pages allocated so far.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// AllocatePage appends and returns a freshly zeroed page, durably
// recording its existence before returning.
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
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(pagesBucketName).Put(encodeID(id), buf)
	}); err != nil {
		return slotheap.InvalidPageID, nil, &slotheap.Error{
			Code:    slotheap.ErrOutOfHostMemory,
			Message: "persisting new page",
			Err:     err,
		}
	}

	s.pages = append(s.pages, buf)
	return id, buf, nil
}

// Get returns the in-memory backing buffer for id.
func (s *Store) Get(id slotheap.PageID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if uint64(id) >= uint64(len(s.pages)) {
		return nil, ErrPageNotFound
	}
	return s.pages[id], nil
}

// Sync writes every page's current bytes back to bbolt in one
// transaction. Callers that mutate pages through the returned buffers
// (as the heap allocator does) must call Sync for those writes to
// survive a restart; nothing calls it implicitly.
func (s *Store) Sync() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(pagesBucketName)
		for id, buf := range s.pages {
			if err := b.Put(encodeID(slotheap.PageID(id)), buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close flushes all pages and closes the underlying database.
func (s *Store) Close() error {
	if err := s.Sync(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

var _ slotheap.PageAllocator = (*Store)(nil)
