package mmapstore

import (
	"encoding/binary"
	"errors"
	"os"

	"github.com/coredbx/slotheap"
)

// ErrPageNotFound is returned by Get for an id the store never handed
// out via AllocatePage.
var ErrPageNotFound = errors.New("mmapstore: page id out of range")

// headerSize is the fixed 8-byte page count recorded at the start of the
// backing file, ahead of the page data. Without it, a store closed
// before any page was allocated would be indistinguishable on reopen
// from one with a single all-zero page: the file's length alone can't
// tell an empty reservation apart from real page content.
const headerSize = 8

// Store is a slotheap.PageAllocator backed by a single memory-mapped file.
// Pages are laid out back to back at a fixed stride after the header;
// growing the store truncates the file to a new length and remaps it.
// This is the literal reading of spec.md's "a future file-backed variant
// may replace it behind the same page-store interface": the in-memory
// array of fixed-size page buffers becomes a single mmap'd region sliced
// at PageSize strides instead of a Go slice of slices.
type Store struct {
	f        *os.File
	m        *Map
	pageSize int
	count    int
}

// Open creates or reopens path as an mmapstore-backed page store.
func Open(path string, pageSize int) (*Store, error) {
	if pageSize <= 0 {
		return nil, &slotheap.Error{Code: slotheap.ErrInvalidConfiguration, Message: "page size must be positive"}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if fi.Size() == 0 {
		if err := f.Truncate(headerSize); err != nil {
			f.Close()
			return nil, err
		}
		fi, err = f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
	}

	m, err := New(int(f.Fd()), 0, int(fi.Size()), true)
	if err != nil {
		f.Close()
		return nil, err
	}

	count := int(binary.LittleEndian.Uint64(m.Data()[:headerSize]))

	return &Store{f: f, m: m, pageSize: pageSize, count: count}, nil
}

// AllocatePage appends a freshly zeroed page to the backing file, remaps,
// and returns the new page's id and a slice over its bytes.
func (s *Store) AllocatePage() (slotheap.PageID, []byte, error) {
	id := slotheap.PageID(s.count)
	newSize := int64(headerSize) + int64(s.count+1)*int64(s.pageSize)

	if err := s.f.Truncate(newSize); err != nil {
		return 0, nil, &slotheap.Error{Code: slotheap.ErrOutOfHostMemory, Message: "grow backing file", Err: err}
	}
	if err := s.m.Remap(newSize); err != nil {
		return 0, nil, &slotheap.Error{Code: slotheap.ErrOutOfHostMemory, Message: "remap backing file", Err: err}
	}

	s.count++
	binary.LittleEndian.PutUint64(s.m.Data()[:headerSize], uint64(s.count))

	buf := s.pageBytes(id)
	for i := range buf {
		buf[i] = 0
	}
	return id, buf, nil
}

// Get returns the buffer for an already-allocated page.
func (s *Store) Get(id slotheap.PageID) ([]byte, error) {
	if int(id) >= s.count {
		return nil, ErrPageNotFound
	}
	return s.pageBytes(id), nil
}

func (s *Store) pageBytes(id slotheap.PageID) []byte {
	off := headerSize + int(id)*s.pageSize
	return s.m.Data()[off : off+s.pageSize]
}

// Sync flushes the mapped pages to disk.
func (s *Store) Sync() error {
	return s.m.Sync()
}

// Close unmaps and closes the backing file. It does not delete it.
func (s *Store) Close() error {
	err := s.m.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
