// Package tests holds scenarios that span more than one package: a
// varint-prefixed record format written through the heap allocator and
// read back, and the cross-cutting invariants spec.md's property list
// describes in terms of the whole stack rather than any one layer.
package tests

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/coredbx/slotheap"
	"github.com/coredbx/slotheap/heap"
	"github.com/coredbx/slotheap/pagestore"
	"github.com/coredbx/slotheap/varint"
)

// encodeRecord packs a varint length prefix ahead of the payload, the
// shape a higher layer would actually hand to the heap allocator.
func encodeRecord(payload []byte) []byte {
	var lenBuf [varint.MaxLen]byte
	n := varint.Encode(lenBuf[:], uint64(len(payload)))
	out := make([]byte, 0, n+len(payload))
	out = append(out, lenBuf[:n]...)
	out = append(out, payload...)
	return out
}

func decodeRecord(raw []byte) []byte {
	length, n := varint.Decode(raw)
	return raw[n : n+int(length)]
}

func TestVarintPrefixedRecordsSurviveTheFullStack(t *testing.T) {
	store := pagestore.New(4096)
	h, err := heap.New(store, 4096)
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}

	payloads := [][]byte{
		[]byte(""),
		[]byte("x"),
		bytes.Repeat([]byte{'k'}, 300),
		[]byte("a small record"),
	}

	addrs := make([]heap.Address, len(payloads))
	for i, p := range payloads {
		addr, err := h.Push(encodeRecord(p))
		if err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
		addrs[i] = addr
	}

	for i, want := range payloads {
		raw, err := h.Get(addrs[i])
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		got := decodeRecord(raw)
		if !bytes.Equal(got, want) {
			t.Fatalf("record %d round-tripped as %q, want %q", i, got, want)
		}
	}
}

// TestAddressesStayValidAcrossGrowth is the spec-level guarantee that an
// Address returned by push remains valid for the life of the heap
// allocator, independent of how many further pages get allocated.
func TestAddressesStayValidAcrossGrowth(t *testing.T) {
	const pageSize = 256
	store := pagestore.New(pageSize)
	h, err := heap.New(store, pageSize)
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}

	type want struct {
		addr heap.Address
		id   uint32
	}
	var early []want

	for i := 0; i < 100; i++ {
		payload := make([]byte, 4)
		binary.BigEndian.PutUint32(payload, uint32(i))
		addr, err := h.Push(payload)
		if err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
		if i < 5 {
			early = append(early, want{addr: addr, id: uint32(i)})
		}
	}
	if store.Count() < 2 {
		t.Fatalf("store.Count() = %d, want the pushes to have grown past one page", store.Count())
	}

	for _, w := range early {
		got, err := h.Get(w.addr)
		if err != nil {
			t.Fatalf("Get(early addr for %d): %v", w.id, err)
		}
		if binary.BigEndian.Uint32(got[:4]) != w.id {
			t.Fatalf("early address for payload %d now resolves to a different value", w.id)
		}
	}
}

func TestEveryAllocatedPageStaysReachable(t *testing.T) {
	const pageSize = 128
	store := pagestore.New(pageSize)
	h, err := heap.New(store, pageSize)
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}

	seen := map[slotheap.PageID]bool{}
	for i := 0; i < 50; i++ {
		if _, err := h.Push(make([]byte, 8)); err != nil {
			t.Fatalf("Push(%d): %v", i, err)
		}
		for id := 0; id < store.Count(); id++ {
			seen[slotheap.PageID(id)] = true
		}
	}

	// Every page the store ever handed out must be reachable (store.Get
	// never errors for an id below Count()); none should error or panic
	// when wrapped and read after the heap has moved on to later pages.
	for id := range seen {
		if _, err := store.Get(id); err != nil {
			t.Fatalf("store.Get(%d): %v", id, err)
		}
	}
}
