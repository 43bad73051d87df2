// Package slotheap is the storage foundation of an embryonic database
// engine: slotted pages that pack variable-length values while preserving
// O(1) indexed access, a heap allocator that places byte payloads into
// those pages using a best-fit-preferring-older policy, and an
// order-preserving varint codec used for length prefixes and keys.
//
// Records, indices, transactions, and a query engine are all out of
// scope here — they are callers of this package, not part of it.
//
// Basic usage:
//
//	store := pagestore.New(slotheap.DefaultPageSize)
//	h, err := heap.New(store, slotheap.DefaultPageSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	addr, err := h.Push([]byte("hello"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	got, err := h.Get(addr)
//	if err != nil {
//	    log.Fatal(err)
//	}
package slotheap
