package mmapstore

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/coredbx/slotheap"
)

func TestAllocateGetAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pages.mmap")

	s, err := Open(path, 4096)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	id, buf, err := s.AllocatePage()
	if err != nil {
		t.Fatalf("AllocatePage: %v", err)
	}
	copy(buf, []byte("hello mmap"))

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path, 4096)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got[:len("hello mmap")], []byte("hello mmap")) {
		t.Fatalf("Get(%d) after reopen = %q, want prefix %q", id, got, "hello mmap")
	}
}

func TestMultiplePagesAreIndependent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "pages.mmap"), 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	id0, buf0, _ := s.AllocatePage()
	id1, buf1, _ := s.AllocatePage()
	copy(buf0, bytes.Repeat([]byte{'a'}, 64))
	copy(buf1, bytes.Repeat([]byte{'b'}, 64))

	got0, _ := s.Get(id0)
	got1, _ := s.Get(id1)
	if !bytes.Equal(got0, bytes.Repeat([]byte{'a'}, 64)) {
		t.Fatalf("page 0 corrupted: %q", got0)
	}
	if !bytes.Equal(got1, bytes.Repeat([]byte{'b'}, 64)) {
		t.Fatalf("page 1 corrupted: %q", got1)
	}
}

func TestGetUnknownPage(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "pages.mmap"), 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(5); err == nil {
		t.Fatalf("Get(5) on empty store should have failed")
	}
}

func TestImplementsPageAllocator(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "pages.mmap"), 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	var _ slotheap.PageAllocator = s
}
